package models

import "gorm.io/gorm"

// Note is a comment or a history entry on a deal.
type Note struct {
	gorm.Model
	Text     string `gorm:"type:text;not null" json:"text"`
	DealID   uint   `gorm:"not null;index" json:"dealId"`
	BrokerID *uint  `json:"brokerId,omitempty"` // nil for system entries

	IsSystem bool `gorm:"default:false" json:"system"`
}
