package service

import (
	"context"
	"testing"
	"time"

	"gamedash/api/internal/model"
	"gamedash/api/internal/storage"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCleanup(t *testing.T) {
	store := storage.NewMemory()
	clock := clockwork.NewRealClock()
	auth := NewAuthService(store, LogSender{}, clock)
	ctx := context.Background()

	expired := &model.Session{ID: "old", UserID: "u", ExpiresAt: time.Now().Add(-time.Hour)}
	live := &model.Session{ID: "new", UserID: "u", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.CreateSession(ctx, expired))
	require.NoError(t, store.CreateSession(ctx, live))

	s, err := SessionCleanup(50*time.Millisecond, auth, clock)
	require.NoError(t, err)
	t.Cleanup(func() { s.Shutdown() })

	assert.Eventually(t, func() bool {
		_, err := store.GetSession(ctx, "old")
		return err != nil
	}, 2*time.Second, 20*time.Millisecond)

	_, err = store.GetSession(ctx, "new")
	assert.NoError(t, err)
}
