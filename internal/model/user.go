package model

import "time"

type User struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Address     string     `gorm:"uniqueIndex;not null" json:"address"` // Email or phone the passcodes are sent to
	Phone       *string    `json:"phone,omitempty"`
	Verified    bool       `gorm:"default:false" json:"verified"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}
