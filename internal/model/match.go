package model

import "time"

type Match struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	PlayerID  *string   `gorm:"uniqueIndex:idx_player_match" json:"playerId"` // nil means the owning player is gone
	UserID    string    `gorm:"index" json:"-"`
	MatchID   string    `gorm:"uniqueIndex:idx_player_match;not null" json:"matchId"`
	GameMode  string    `json:"gameMode"`
	Result    string    `json:"result"`   // "victory" or "defeat"
	Duration  int       `json:"duration"` // Minutes
	Champion  string    `json:"champion"` // Character or agent played
	KDA       string    `json:"kda"`      // kills/deaths/assists
	CS        int       `json:"cs"`
	LPChange  int       `json:"lpChange"`
	MatchData JSON      `json:"matchData"`
	PlayedAt  time.Time `gorm:"index" json:"playedAt"`
}

const (
	ResultVictory = "victory"
	ResultDefeat  = "defeat"
)

func (m *Match) Won() bool {
	return m.Result == ResultVictory
}
