package model

import "time"

// Player is the last fetched profile snapshot of an external player,
// scoped to the user that looked it up
type Player struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"uniqueIndex:idx_user_game_player;not null" json:"-"`
	GameID      GameID    `gorm:"uniqueIndex:idx_user_game_player;not null" json:"gameId"`
	PlayerID    string    `gorm:"uniqueIndex:idx_user_game_player;not null" json:"playerId"`
	Username    string    `gorm:"not null" json:"username"`
	Region      *string   `json:"region"`
	Level       *int      `json:"level"`
	Rank        *string   `json:"rank"`
	ProfileData JSON      `json:"profileData"`
	LastUpdated time.Time `json:"lastUpdated"`
}
