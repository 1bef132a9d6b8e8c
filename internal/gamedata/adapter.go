// Package gamedata contains one adapter per supported game title. Every adapter
// calls the game's public API (or makes up placeholder numbers where no API is
// wired yet) and normalizes the answer into a Bundle
package gamedata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamedash/api/internal/model"
	"gamedash/api/pkg/metrics"

	"go.uber.org/zap"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrMissingAPIKey  = errors.New("upstream api key is not configured")
)

// Bundle is the normalized result of a player lookup
type Bundle struct {
	Username      string
	Level         *int
	Rank          *string
	WinRate       int
	AverageKDA    string
	TotalPlaytime int
	CurrentLP     int
	ProfileData   any
	StatsData     any
	Matches       []MatchData
}

type MatchData struct {
	MatchID   string
	GameMode  string
	Result    string
	Duration  int
	Champion  string
	KDA       string
	CS        int
	LPChange  int
	MatchData any
	PlayedAt  time.Time
}

type Adapter interface {
	Game() model.GameID
	Fetch(ctx context.Context, playerID, region string) (*Bundle, error)
}

// Registry dispatches lookups to the adapter registered for a game
type Registry struct {
	adapters map[model.GameID]Adapter
}

// NewRegistry fails unless every game in model.Games has exactly one adapter
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[model.GameID]Adapter, len(adapters))}

	for _, a := range adapters {
		if _, ok := r.adapters[a.Game()]; ok {
			return nil, fmt.Errorf("adapter for %s registered twice", a.Game())
		}
		r.adapters[a.Game()] = a
	}

	for _, g := range model.Games {
		if _, ok := r.adapters[g]; !ok {
			return nil, fmt.Errorf("no adapter registered for %s", g)
		}
	}

	return r, nil
}

// Fetch looks a player up upstream. Any failure, be it a missing API key,
// a network error or a bad payload, ends up as ErrPlayerNotFound. The cause
// is only logged
func (r *Registry) Fetch(ctx context.Context, game model.GameID, playerID, region string) (*Bundle, error) {
	a, ok := r.adapters[game]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	start := time.Now()
	b, err := a.Fetch(ctx, playerID, region)
	metrics.UpstreamFetchLatency.WithLabelValues(game.String()).Observe(time.Since(start).Seconds())

	if err == nil && (b == nil || b.Username == "") {
		err = errors.New("adapter returned an empty player")
	}

	if err != nil {
		metrics.UpstreamFetchErrorsTotal.WithLabelValues(game.String()).Inc()

		zap.L().Warn("Upstream player lookup failed",
			zap.String("game", game.String()),
			zap.String("playerID", playerID),
			zap.String("region", region),
			zap.Error(err),
		)
		return nil, ErrPlayerNotFound
	}

	return b, nil
}

// Config carries the upstream credentials and transport settings
type Config struct {
	RiotAPIKey        string
	SteamAPIKey       string
	ClashRoyaleAPIKey string
	Timeout           time.Duration
}

// DefaultAdapters returns an adapter for every supported game talking to the
// real upstream endpoints
func DefaultAdapters(cfg Config) []Adapter {
	c := newHTTPClient(cfg.Timeout)

	return []Adapter{
		NewRiot(cfg.RiotAPIKey, c),
		NewSteam(cfg.SteamAPIKey, c),
		NewClashRoyale(cfg.ClashRoyaleAPIKey, c),
		Placeholder{ID: model.Valorant},
		Placeholder{ID: model.CS2},
		Placeholder{ID: model.Dota2},
	}
}
