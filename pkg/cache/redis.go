// Package cache provides response cache backends for gin-cache
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements persist.CacheStore on top of go-redis v9
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ persist.CacheStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Set(key string, value any, expire time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.client.Set(context.Background(), s.prefix+key, data, expire).Err()
}

func (s *RedisStore) Get(key string, value any) error {
	data, err := s.client.Get(context.Background(), s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return persist.ErrCacheMiss
		}
		return err
	}

	return json.Unmarshal(data, value)
}

func (s *RedisStore) Delete(key string) error {
	return s.client.Del(context.Background(), s.prefix+key).Err()
}
