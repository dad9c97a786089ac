// internal/models/deal.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pipeline stages of a deal.
const (
	StageNegotiatingLOI  = "Negotiating LOI"
	StageAtLeasePSA      = "At Lease/PSA"
	StageUnderContract   = "Under Contract / Contingent"
	StageBooked          = "Booked"
	StageExecutedPayable = "Executed Payable"
	StageClosedPaid      = "Closed Paid"
	StageLost            = "Lost"
)

// Stages lists the pipeline stages in reporting order.
var Stages = []string{
	StageNegotiatingLOI,
	StageAtLeasePSA,
	StageUnderContract,
	StageBooked,
	StageExecutedPayable,
	StageClosedPaid,
	StageLost,
}

// ValidStage reports whether s is one of the known pipeline stages.
func ValidStage(s string) bool {
	for _, st := range Stages {
		if st == s {
			return true
		}
	}
	return false
}

// Deal is a brokerage transaction and the owner of its commission terms.
type Deal struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	Name  string `gorm:"size:255;not null" json:"name"`
	Stage string `gorm:"size:50;not null;default:'Negotiating LOI';index" json:"stage"`

	// Fee is the gross commission for the whole deal.
	Fee              decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"fee"`
	NumberOfPayments *int                `json:"numberOfPayments"`

	HousePercent       decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"housePercent"`
	OriginationPercent decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"originationPercent"`
	SitePercent        decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"sitePercent"`
	DealPercent        decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"dealPercent"`

	// ReferralFeeUSD is authoritative; ReferralFeePercent is display only.
	ReferralFeeUSD        decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"referralFeeUsd"`
	ReferralFeePercent    decimal.NullDecimal `gorm:"type:numeric(7,4)" json:"referralFeePercent"`
	ReferralPayee         string              `gorm:"size:255" json:"referralPayee"`
	ReferralPayeeClientID *uint               `json:"referralPayeeClientId,omitempty"`

	// HouseOnly deals carry no broker splits on purpose.
	HouseOnly bool `gorm:"not null;default:false" json:"houseOnly"`

	CommissionSplits []CommissionSplit `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"commissionSplits,omitempty"`
	Payments         []Payment         `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	Notes            []Note            `gorm:"foreignKey:DealID" json:"notes,omitempty"`
}

// PaymentCount returns the installment count, or 0 when the installment count is unset.
func (d *Deal) PaymentCount() int {
	if d == nil || d.NumberOfPayments == nil {
		return 0
	}
	return *d.NumberOfPayments
}
