package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionSplit is the deal-scoped template of one broker's share of each
// bucket. Percentages are of the bucket, not of the fee.
type CommissionSplit struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DealID   uint `gorm:"not null;uniqueIndex:idx_commission_split_deal_broker" json:"dealId"`
	BrokerID uint `gorm:"not null;uniqueIndex:idx_commission_split_deal_broker" json:"brokerId"`

	OriginationPercent decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"originationPercent"`
	SitePercent        decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"sitePercent"`
	DealPercent        decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"dealPercent"`

	Broker *Broker `gorm:"foreignKey:BrokerID" json:"broker,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
