// Package referral projects a deal's referral fee onto its installments.
package referral

import (
	"time"

	"github.com/oculusrep/commission-api/internal/commission"
	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/money"
	"github.com/shopspring/decimal"
)

// Info is the referral carve-out of one payment. It is never stored.
type Info struct {
	Payee         string              `json:"payee"`
	PayeeClientID *uint               `json:"payeeClientId,omitempty"`
	Amount        decimal.Decimal     `json:"amount"`
	Percent       decimal.NullDecimal `json:"percent"`
	Paid          bool                `json:"paid"`
	PaidDate      *time.Time          `json:"paidDate"`
}

// ComputeReferralInfo returns the referral owed on payment p, or nil when the
// deal carries no referral fee.
func ComputeReferralInfo(d *models.Deal, p *models.Payment) (*Info, error) {
	fee := commission.ReferralUSD(d)
	if fee.IsZero() {
		return nil, nil
	}
	n := d.PaymentCount()
	seq := p.Sequence
	if seq > n && n > 0 {
		seq = n
	}
	amount, err := money.Installment(fee, n, seq)
	if err != nil {
		return nil, err
	}
	return &Info{
		Payee:         d.ReferralPayee,
		PayeeClientID: d.ReferralPayeeClientID,
		Amount:        amount,
		Percent:       d.ReferralFeePercent,
		Paid:          p.ReferralFeePaid,
		PaidDate:      p.ReferralFeePaidDate,
	}, nil
}
