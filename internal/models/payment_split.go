package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentSplit is the per-installment projection of a CommissionSplit.
// Rows with Paid set are never rewritten by the synchronizer. A payment holds
// at most one row per broker.
type PaymentSplit struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PaymentID uint `gorm:"not null;uniqueIndex:idx_payment_split_payment_broker" json:"paymentId"`
	BrokerID  uint `gorm:"not null;index;uniqueIndex:idx_payment_split_payment_broker" json:"brokerId"`

	SplitOriginationPercent decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"splitOriginationPercent"`
	SplitSitePercent        decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"splitSitePercent"`
	SplitDealPercent        decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"splitDealPercent"`

	SplitOriginationUSD decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"splitOriginationUsd"`
	SplitSiteUSD        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"splitSiteUsd"`
	SplitDealUSD        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"splitDealUsd"`
	SplitBrokerTotal    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"splitBrokerTotal"`

	Paid     bool       `gorm:"not null;default:false;index" json:"paid"`
	PaidDate *time.Time `json:"paidDate"`

	Broker *Broker `gorm:"foreignKey:BrokerID" json:"broker,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
