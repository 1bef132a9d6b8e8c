package model

import "time"

// GameStats holds the summary metrics of a player. There's exactly one
// row per player and it gets replaced as a whole on refresh
type GameStats struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	PlayerID      *string   `gorm:"uniqueIndex" json:"playerId"`
	UserID        string    `gorm:"index" json:"-"`
	WinRate       int       `json:"winRate"` // Percentage
	AverageKDA    string    `json:"averageKda"`
	TotalPlaytime int       `json:"totalPlaytime"` // Hours
	CurrentLP     int       `json:"currentLp"`
	StatsData     JSON      `json:"statsData"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
