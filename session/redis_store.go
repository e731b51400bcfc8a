package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis so several front-end instances can share them.
type RedisStore struct {
	rc redis.UniversalClient
}

// NewRedisStore wraps a connected client.
func NewRedisStore(rc redis.UniversalClient) *RedisStore {
	return &RedisStore{rc: rc}
}

func (s *RedisStore) Get(ctx context.Context, id string) (string, error) {
	token, err := s.rc.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return token, err
}

func (s *RedisStore) Set(ctx context.Context, id, token string, ttl time.Duration) error {
	return s.rc.Set(ctx, keyPrefix+id, token, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rc.Del(ctx, keyPrefix+id).Err()
}
