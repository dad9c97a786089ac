package auth

import "time"

// RefreshToken is a stored refresh token. Only the hash of the raw value is kept.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`
	BrokerID  uint      `gorm:"index"`
	FamilyID  string    `gorm:"size:36;index"`
	Hash      string    `gorm:"size:64;uniqueIndex"`
	IsAdmin   bool
	ExpiresAt time.Time `gorm:"index"`
	RevokedAt *time.Time
	CreatedAt time.Time
}
