package utils

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/blogfront/config"
)

// NewRedisClient returns a Redis client for the session store, or nil when no host is configured.
func NewRedisClient(cfg config.AppConfig) (*redis.Client, error) {
	if cfg.RedisHost == "" {
		return nil, nil
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis ping %s: %w", rc.Options().Addr, err)
	}
	return rc, nil
}
