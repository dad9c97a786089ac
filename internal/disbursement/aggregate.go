// Package disbursement rolls payment splits and referral info up into the
// paid / partial / unpaid state shown on the dashboard and the Rob Report.
package disbursement

import (
	"time"

	"github.com/oculusrep/commission-api/internal/models"
	"github.com/oculusrep/commission-api/internal/referral"
	"github.com/shopspring/decimal"
)

// Status is the three-state disbursement badge.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
	StatusUnpaid  Status = "unpaid"
)

// ParseStatus accepts the badge names case-sensitively; ok is false for anything else.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPaid, StatusPartial, StatusUnpaid:
		return Status(s), true
	}
	return "", false
}

// Summary is the disbursement state of one payment.
type Summary struct {
	TotalBrokerCommission decimal.Decimal `json:"totalBrokerCommission"`
	TotalPaidOut          decimal.Decimal `json:"totalPaidOut"`
	TotalUnpaid           decimal.Decimal `json:"totalUnpaid"`
	AllBrokersPaid        bool            `json:"allBrokersPaid"`
	ReferralPaid          bool            `json:"referralPaid"`
	FullyDisbursed        bool            `json:"fullyDisbursed"`
}

// Aggregate computes the summary for one payment. ref may be nil.
func Aggregate(splits []models.PaymentSplit, ref *referral.Info) Summary {
	var s Summary
	s.AllBrokersPaid = len(splits) > 0
	for _, sp := range splits {
		s.TotalBrokerCommission = s.TotalBrokerCommission.Add(sp.SplitBrokerTotal)
		if sp.Paid {
			s.TotalPaidOut = s.TotalPaidOut.Add(sp.SplitBrokerTotal)
		} else {
			s.AllBrokersPaid = false
		}
	}

	referralAmount := decimal.Zero
	s.ReferralPaid = true
	if ref != nil {
		referralAmount = ref.Amount
		s.ReferralPaid = ref.Paid
		if ref.Paid {
			s.TotalPaidOut = s.TotalPaidOut.Add(ref.Amount)
		}
	}

	s.TotalUnpaid = s.TotalBrokerCommission.Add(referralAmount).Sub(s.TotalPaidOut)
	s.FullyDisbursed = s.AllBrokersPaid && s.ReferralPaid
	return s
}

// Status maps the summary onto the badge.
func (s Summary) Status() Status {
	switch {
	case s.FullyDisbursed:
		return StatusPaid
	case s.TotalPaidOut.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// Add folds another payment's summary into s, for deal-level rollups.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		TotalBrokerCommission: s.TotalBrokerCommission.Add(o.TotalBrokerCommission),
		TotalPaidOut:          s.TotalPaidOut.Add(o.TotalPaidOut),
		TotalUnpaid:           s.TotalUnpaid.Add(o.TotalUnpaid),
		AllBrokersPaid:        s.AllBrokersPaid && o.AllBrokersPaid,
		ReferralPaid:          s.ReferralPaid && o.ReferralPaid,
		FullyDisbursed:        s.FullyDisbursed && o.FullyDisbursed,
	}
}

// reportableStages are the stages in which an empty template list is flagged.
var reportableStages = map[string]bool{
	models.StageNegotiatingLOI:  true,
	models.StageAtLeasePSA:      true,
	models.StageUnderContract:   true,
	models.StageBooked:          true,
	models.StageExecutedPayable: true,
	models.StageClosedPaid:      true,
}

// Reportable reports whether deals in stage show up in pipeline reporting.
func Reportable(stage string) bool {
	return reportableStages[stage]
}

// MissingSplits reports whether the deal should carry the missing-splits
// warning. House-only deals never do.
func MissingSplits(d *models.Deal, templateCount int) bool {
	if d.HouseOnly || templateCount > 0 {
		return false
	}
	return Reportable(d.Stage)
}

// OverdueEstimate reports whether an unreceived payment has no estimated date
// or one already in the past.
func OverdueEstimate(p *models.Payment, now time.Time) bool {
	if p.Received {
		return false
	}
	return p.EstimatedDate == nil || p.EstimatedDate.Before(now)
}
