package common

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"planes-utils/flightnoise/internal/config"
	"planes-utils/flightnoise/internal/logging"
)

// NewRedisClient builds a pooled client and pings it once. A failed ping is
// returned so callers can fall back to the in-memory cache.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	logging.Info("[Redis] Initializing Redis client", "addr", addr, "db", cfg.DB)

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logging.Info("[Redis] Successfully connected to Redis", "addr", addr)
	return client, nil
}

// NewCache returns a Redis-backed cache when Redis is enabled and reachable,
// otherwise an in-memory one.
func NewCache(ctx context.Context, cfg config.RedisConfig, defaultTTL time.Duration) CacheInterface {
	if cfg.Enabled {
		client, err := NewRedisClient(ctx, cfg)
		if err == nil {
			return NewRedisCacheService(client)
		}
		logging.Warn("Redis unavailable, using in-memory cache", "error", err)
	}
	return NewCacheService(defaultTTL, 2*defaultTTL)
}
