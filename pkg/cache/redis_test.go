package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func newStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, "gamedash:"), mr
}

func TestRedisStore(t *testing.T) {
	s, mr := newStore(t)

	var got entry
	assert.ErrorIs(t, s.Get("games", &got), persist.ErrCacheMiss)

	require.NoError(t, s.Set("games", entry{Status: 200, Body: "[]"}, time.Minute))
	assert.True(t, mr.Exists("gamedash:games"))

	require.NoError(t, s.Get("games", &got))
	assert.Equal(t, entry{Status: 200, Body: "[]"}, got)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, s.Get("games", &got), persist.ErrCacheMiss)

	require.NoError(t, s.Set("games", entry{Status: 200}, time.Minute))
	require.NoError(t, s.Delete("games"))
	assert.ErrorIs(t, s.Get("games", &got), persist.ErrCacheMiss)
}
