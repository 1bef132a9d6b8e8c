package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gamedash/api/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLite(t *testing.T) *Gorm {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return NewGorm(db)
}

func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLite(t)) })
}

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestUsers(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		u := &model.User{Address: "user@example.com", CreatedAt: base}
		require.NoError(t, s.CreateUser(ctx, u))
		assert.NotEmpty(t, u.ID)

		err := s.CreateUser(ctx, &model.User{Address: "user@example.com"})
		assert.ErrorIs(t, err, ErrConflict)

		got, err := s.GetUserByAddress(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		phone := "+15550001111"
		login := base.Add(time.Hour)
		got.Phone = &phone
		got.Verified = true
		got.LastLoginAt = &login
		require.NoError(t, s.UpdateUser(ctx, got))

		again, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, again.Verified)
		require.NotNil(t, again.Phone)
		assert.Equal(t, phone, *again.Phone)

		_, err = s.GetUser(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		err = s.UpdateUser(ctx, &model.User{ID: "missing"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPasscodes(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		older := &model.OneTimePasscode{Address: "a@b.c", Code: "123456", CreatedAt: base, ExpiresAt: base.Add(10 * time.Minute)}
		newer := &model.OneTimePasscode{Address: "a@b.c", Code: "123456", CreatedAt: base.Add(time.Minute), ExpiresAt: base.Add(11 * time.Minute)}
		require.NoError(t, s.CreatePasscode(ctx, older))
		require.NoError(t, s.CreatePasscode(ctx, newer))

		p, err := s.FindActivePasscode(ctx, "a@b.c", "123456", base.Add(2*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, newer.ID, p.ID, "newest passcode wins")

		_, err = s.FindActivePasscode(ctx, "a@b.c", "654321", base)
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.FindActivePasscode(ctx, "a@b.c", "123456", base.Add(11*time.Minute))
		assert.ErrorIs(t, err, ErrNotFound, "expired passcodes are never returned")

		require.NoError(t, s.MarkPasscodeUsed(ctx, newer.ID, base.Add(2*time.Minute)))
		assert.ErrorIs(t, s.MarkPasscodeUsed(ctx, newer.ID, base.Add(3*time.Minute)), ErrNotFound)

		p, err = s.FindActivePasscode(ctx, "a@b.c", "123456", base.Add(2*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, older.ID, p.ID)
	})
}

func TestSessions(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		live := &model.Session{UserID: "u1", CreatedAt: base, ExpiresAt: base.Add(time.Hour)}
		dead := &model.Session{UserID: "u1", CreatedAt: base, ExpiresAt: base.Add(-time.Hour)}
		require.NoError(t, s.CreateSession(ctx, live))
		require.NoError(t, s.CreateSession(ctx, dead))
		require.NoError(t, s.CreatePasscode(ctx, &model.OneTimePasscode{Address: "x", Code: "111111", ExpiresAt: base.Add(-time.Minute)}))

		got, err := s.GetSession(ctx, live.ID)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)

		n, err := s.DeleteExpired(ctx, base)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		_, err = s.GetSession(ctx, dead.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.DeleteSession(ctx, live.ID))
		_, err = s.GetSession(ctx, live.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func bundle(userID string) (*model.Player, *model.GameStats, []model.Match) {
	level := 30
	p := &model.Player{
		UserID:      userID,
		GameID:      model.LeagueOfLegends,
		PlayerID:    "Faker",
		Username:    "Faker",
		Level:       &level,
		ProfileData: model.JSON(`{"id":"abc"}`),
		LastUpdated: base,
	}
	st := &model.GameStats{UserID: userID, WinRate: 60, AverageKDA: "3.1", UpdatedAt: base}

	var matches []model.Match
	for i := range 3 {
		matches = append(matches, model.Match{
			UserID:   userID,
			MatchID:  fmt.Sprintf("KR_%d", i),
			Result:   model.ResultVictory,
			Champion: "Ahri",
			PlayedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	// Upstream sometimes repeats an ID, it must only be stored once
	matches = append(matches, matches[0])

	return p, st, matches
}

func TestPlayerBundle(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		p, st, matches := bundle("u1")
		require.NoError(t, s.SavePlayerBundle(ctx, p, st, matches))

		got, err := s.GetPlayer(ctx, "u1", model.LeagueOfLegends, "Faker")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.JSONEq(t, `{"id":"abc"}`, string(got.ProfileData))

		_, err = s.GetPlayer(ctx, "u2", model.LeagueOfLegends, "Faker")
		assert.ErrorIs(t, err, ErrNotFound, "players are scoped per user")

		again, againStats, againMatches := bundle("u1")
		assert.ErrorIs(t, s.SavePlayerBundle(ctx, again, againStats, againMatches), ErrConflict)

		stats, err := s.GetGameStats(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, st.ID, stats.ID)
		assert.Equal(t, 60, stats.WinRate)

		list, err := s.ListMatches(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "KR_2", list[0].MatchID, "newest first")
		assert.Equal(t, "KR_0", list[2].MatchID)
	})
}

func TestPlayerUpdates(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		p, st, matches := bundle("u1")
		require.NoError(t, s.SavePlayerBundle(ctx, p, st, matches))

		rank := "CHALLENGER I"
		p.Rank = &rank
		p.LastUpdated = base.Add(time.Hour)
		require.NoError(t, s.UpdatePlayer(ctx, p))

		st.WinRate = 75
		st.AverageKDA = "4.0"
		require.NoError(t, s.UpdateGameStats(ctx, st))

		got, err := s.GetPlayer(ctx, "u1", model.LeagueOfLegends, "Faker")
		require.NoError(t, err)
		require.NotNil(t, got.Rank)
		assert.Equal(t, rank, *got.Rank)

		stats, err := s.GetGameStats(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 75, stats.WinRate)
		assert.Equal(t, "4.0", stats.AverageKDA)

		assert.ErrorIs(t, s.UpdatePlayer(ctx, &model.Player{ID: "missing"}), ErrNotFound)
		assert.ErrorIs(t, s.UpdateGameStats(ctx, &model.GameStats{ID: "missing"}), ErrNotFound)
	})
}
