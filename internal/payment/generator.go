package payment

import (
	"errors"
	"time"

	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
)

var (
	// ErrFeeRequired is returned when generating a schedule for a deal without a positive fee.
	ErrFeeRequired = errors.New("set the deal fee before generating payments")
	// ErrNumberOfPaymentsRequired is returned when the installment count is unset or zero.
	ErrNumberOfPaymentsRequired = money.ErrNumberOfPaymentsRequired
)

// GeneratePayments lays out the installments of a deal. It returns nothing when
// the deal already has payments, so received state is never rebuilt. Every
// installment but the last is fee/n truncated to the cent; the last one takes
// the remainder. When firstEstimate is set, estimates are spaced monthly.
func GeneratePayments(d *models.Deal, existing int, firstEstimate *time.Time) ([]models.Payment, error) {
	if existing > 0 {
		return nil, nil
	}
	fee := money.OrZero(d.Fee)
	if !fee.IsPositive() {
		return nil, ErrFeeRequired
	}
	n := d.PaymentCount()
	if n <= 0 {
		return nil, ErrNumberOfPaymentsRequired
	}

	payments := make([]models.Payment, 0, n)
	for seq := 1; seq <= n; seq++ {
		amount, err := money.Installment(fee, n, seq)
		if err != nil {
			return nil, err
		}
		p := models.Payment{DealID: d.ID, Sequence: seq, Amount: amount}
		if firstEstimate != nil {
			due := addMonths(*firstEstimate, seq-1)
			p.EstimatedDate = &due
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// addMonths moves t forward m months, clamping to the last day of the target
// month so a schedule starting Jan 31 lands on Feb 28, not Mar 3.
func addMonths(t time.Time, m int) time.Time {
	y, mo, d := t.Date()
	first := time.Date(y, mo+time.Month(m), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
