package gamedata

import (
	"context"
	"math/rand/v2"

	"gamedash/api/internal/model"
)

// Placeholder serves made up numbers for games that don't have an upstream
// integration yet. Nothing it returns should be relied on
type Placeholder struct {
	ID model.GameID
}

func (p Placeholder) Game() model.GameID {
	return p.ID
}

func (p Placeholder) Fetch(_ context.Context, playerID, _ string) (*Bundle, error) {
	var (
		username string
		level    int
		rank     string
		b        = &Bundle{ProfileData: map[string]any{}, StatsData: map[string]any{}}
	)

	switch p.ID {
	case model.Valorant:
		username = playerID
		level = rand.IntN(100) + 1
		rank = "Diamond 2"
		b.WinRate = rand.IntN(30) + 65
		b.AverageKDA = "1.6"
		b.TotalPlaytime = rand.IntN(200) + 50
		b.CurrentLP = rand.IntN(100)
	case model.CS2:
		username = "CS2Player"
		level = rand.IntN(40) + 1
		rank = "Legendary Eagle"
		b.WinRate = rand.IntN(25) + 60
		b.AverageKDA = "1.4"
		b.TotalPlaytime = rand.IntN(300) + 100
	case model.Dota2:
		username = "DotaPlayer"
		level = rand.IntN(50) + 1
		rank = "Ancient V"
		b.WinRate = rand.IntN(35) + 55
		b.AverageKDA = "2.3"
		b.TotalPlaytime = rand.IntN(400) + 150
		b.CurrentLP = rand.IntN(1000) + 3000
	default:
		return nil, ErrPlayerNotFound
	}

	b.Username = username
	b.Level = &level
	b.Rank = &rank

	return b, nil
}
