package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is one installment of a deal's fee.
type Payment struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	DealID   uint            `gorm:"not null;index;uniqueIndex:idx_payment_deal_sequence" json:"dealId"`
	Sequence int             `gorm:"not null;uniqueIndex:idx_payment_deal_sequence" json:"sequence"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"amount"`

	Received      bool       `gorm:"not null;default:false;index" json:"received"`
	ReceivedDate  *time.Time `json:"receivedDate"`
	EstimatedDate *time.Time `json:"paymentDateEstimated"`

	ReferralFeePaid     bool       `gorm:"not null;default:false" json:"referralFeePaid"`
	ReferralFeePaidDate *time.Time `json:"referralFeePaidDate"`

	InvoiceNumber string `gorm:"size:100" json:"invoiceNumber"`

	Splits []PaymentSplit `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"splits,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
