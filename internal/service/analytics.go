package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gamedash/api/internal/gamedata"
	"gamedash/api/internal/model"
	"gamedash/api/internal/storage"
	"gamedash/api/pkg/metrics"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrRefreshFailed  = errors.New("unable to refresh player data")
)

// Fetcher looks players up upstream. Implemented by *gamedata.Registry
type Fetcher interface {
	Fetch(ctx context.Context, game model.GameID, playerID, region string) (*gamedata.Bundle, error)
}

// PlayerAnalytics is everything the dashboard shows for one player
type PlayerAnalytics struct {
	Player        *model.Player    `json:"player"`
	Stats         *model.GameStats `json:"stats"`
	RecentMatches []model.Match    `json:"recentMatches"`
	ChampionStats []CharacterStat  `json:"championStats"`
}

type AnalyticsService struct {
	store   storage.Store
	games   Fetcher
	archive Archiver
	clock   clockwork.Clock

	// PickRole labels the entries of ChampionStats
	PickRole func() string
}

func NewAnalyticsService(store storage.Store, games Fetcher, archive Archiver, clock clockwork.Clock) *AnalyticsService {
	if archive == nil {
		archive = NopArchiver{}
	}

	return &AnalyticsService{
		store:    store,
		games:    games,
		archive:  archive,
		clock:    clock,
		PickRole: RandomRole,
	}
}

// GetAnalytics serves a player from the store, fetching and storing it first
// if userID never looked it up before
func (s *AnalyticsService) GetAnalytics(ctx context.Context, game model.GameID, playerID, region, userID string) (*PlayerAnalytics, error) {
	player, err := s.store.GetPlayer(ctx, userID, game, playerID)
	switch {
	case err == nil:
		metrics.PlayerCacheHitsTotal.WithLabelValues(game.String()).Inc()
	case errors.Is(err, storage.ErrNotFound):
		metrics.PlayerCacheMissesTotal.WithLabelValues(game.String()).Inc()

		player, err = s.ingest(ctx, game, playerID, region, userID)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to look up player, %w", err)
	}

	stats, err := s.store.GetGameStats(ctx, player.ID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up game stats, %w", err)
		}
		stats = nil
	}

	matches, err := s.store.ListMatches(ctx, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches, %w", err)
	}

	return &PlayerAnalytics{
		Player:        player,
		Stats:         stats,
		RecentMatches: matches,
		ChampionStats: CharacterStats(matches, s.PickRole),
	}, nil
}

func (s *AnalyticsService) ingest(ctx context.Context, game model.GameID, playerID, region, userID string) (*model.Player, error) {
	b, err := s.games.Fetch(ctx, game, playerID, region)
	if err != nil {
		return nil, ErrPlayerNotFound
	}

	now := s.clock.Now().UTC()

	player := &model.Player{
		UserID:      userID,
		GameID:      game,
		PlayerID:    playerID,
		Username:    b.Username,
		Level:       b.Level,
		Rank:        b.Rank,
		LastUpdated: now,
	}
	if region != "" {
		player.Region = &region
	}

	if player.ProfileData, err = model.MarshalJSONValue(b.ProfileData); err != nil {
		return nil, fmt.Errorf("failed to encode profile data, %w", err)
	}

	stats, err := newGameStats(b, userID, now)
	if err != nil {
		return nil, err
	}

	matches := make([]model.Match, 0, len(b.Matches))
	for _, md := range b.Matches {
		m := model.Match{
			UserID:   userID,
			MatchID:  md.MatchID,
			GameMode: md.GameMode,
			Result:   md.Result,
			Duration: md.Duration,
			Champion: md.Champion,
			KDA:      md.KDA,
			CS:       md.CS,
			LPChange: md.LPChange,
			PlayedAt: md.PlayedAt,
		}

		if m.MatchData, err = model.MarshalJSONValue(md.MatchData); err != nil {
			return nil, fmt.Errorf("failed to encode match data, %w", err)
		}

		matches = append(matches, m)
	}

	if err := s.store.SavePlayerBundle(ctx, player, stats, matches); err != nil {
		// Another request for the same player got there first
		if errors.Is(err, storage.ErrConflict) {
			return s.store.GetPlayer(ctx, userID, game, playerID)
		}

		return nil, fmt.Errorf("failed to store player, %w", err)
	}

	s.snapshot(ctx, game, playerID, b)
	return player, nil
}

// Refresh fetches a stored player again and overwrites its profile and stats.
// Matches stay as they are
func (s *AnalyticsService) Refresh(ctx context.Context, game model.GameID, playerID, region, userID string) error {
	player, err := s.store.GetPlayer(ctx, userID, game, playerID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrPlayerNotFound
		}

		return fmt.Errorf("failed to look up player, %w", err)
	}

	if region == "" && player.Region != nil {
		region = *player.Region
	}

	b, err := s.games.Fetch(ctx, game, playerID, region)
	if err != nil {
		return ErrRefreshFailed
	}

	now := s.clock.Now().UTC()

	player.Level = b.Level
	player.Rank = b.Rank
	player.LastUpdated = now
	if player.ProfileData, err = model.MarshalJSONValue(b.ProfileData); err != nil {
		return fmt.Errorf("failed to encode profile data, %w", err)
	}

	if err := s.store.UpdatePlayer(ctx, player); err != nil {
		return fmt.Errorf("failed to update player, %w", err)
	}

	stats, err := s.store.GetGameStats(ctx, player.ID)
	if err != nil {
		return fmt.Errorf("failed to look up game stats, %w", err)
	}

	fresh, err := newGameStats(b, userID, now)
	if err != nil {
		return err
	}

	stats.WinRate = fresh.WinRate
	stats.AverageKDA = fresh.AverageKDA
	stats.TotalPlaytime = fresh.TotalPlaytime
	stats.CurrentLP = fresh.CurrentLP
	stats.StatsData = fresh.StatsData
	stats.UpdatedAt = now

	if err := s.store.UpdateGameStats(ctx, stats); err != nil {
		return fmt.Errorf("failed to update game stats, %w", err)
	}

	metrics.PlayerRefreshesTotal.WithLabelValues(game.String()).Inc()

	s.snapshot(ctx, game, playerID, b)
	return nil
}

func newGameStats(b *gamedata.Bundle, userID string, now time.Time) (*model.GameStats, error) {
	data, err := model.MarshalJSONValue(b.StatsData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stats data, %w", err)
	}

	return &model.GameStats{
		UserID:        userID,
		WinRate:       b.WinRate,
		AverageKDA:    b.AverageKDA,
		TotalPlaytime: b.TotalPlaytime,
		CurrentLP:     b.CurrentLP,
		StatsData:     data,
		UpdatedAt:     now,
	}, nil
}

// snapshot archives the raw payloads. Failures are only logged
func (s *AnalyticsService) snapshot(ctx context.Context, game model.GameID, playerID string, b *gamedata.Bundle) {
	err := s.archive.Archive(ctx, game, playerID, map[string]any{
		"profile": b.ProfileData,
		"stats":   b.StatsData,
		"matches": b.Matches,
	})
	if err != nil {
		zap.L().Warn("Failed to archive upstream snapshot",
			zap.String("game", game.String()),
			zap.String("playerID", playerID),
			zap.Error(err),
		)
	}
}
