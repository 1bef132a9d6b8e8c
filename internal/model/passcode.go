package model

import "time"

// OneTimePasscode is a short lived numeric code proving control of an address
type OneTimePasscode struct {
	ID        string `gorm:"primaryKey"`
	Address   string `gorm:"index:idx_passcode_lookup"`
	Code      string `gorm:"index:idx_passcode_lookup"`
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
	Used      bool
}
