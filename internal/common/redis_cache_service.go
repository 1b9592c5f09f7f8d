package common

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"planes-utils/flightnoise/internal/logging"
)

const (
	redisKeyPrefix = "flightnoise:"
	redisOpTimeout = 2 * time.Second
)

// RedisCacheService stores JSON-encoded values under the "flightnoise:"
// namespace. A failing Redis degrades to cache misses; errors are logged,
// never returned to callers.
type RedisCacheService struct {
	client *redis.Client
}

var _ CacheInterface = (*RedisCacheService)(nil)

func NewRedisCacheService(client *redis.Client) *RedisCacheService {
	return &RedisCacheService{client: client}
}

func (r *RedisCacheService) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}

func (r *RedisCacheService) Set(key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("[RedisCache] Cannot encode value", "key", key, "error", err)
		return
	}

	ctx, cancel := r.opContext()
	defer cancel()
	if err := r.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		logging.Warn("[RedisCache] SET failed", "key", key, "error", err)
	}
}

func (r *RedisCacheService) Get(key string) (interface{}, bool) {
	ctx, cancel := r.opContext()
	defer cancel()

	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		logging.Warn("[RedisCache] GET failed", "key", key, "error", err)
		return nil, false
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		logging.Warn("[RedisCache] Cannot decode value", "key", key, "error", err)
		return nil, false
	}
	return v, true
}

func (r *RedisCacheService) Delete(key string) {
	ctx, cancel := r.opContext()
	defer cancel()
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		logging.Warn("[RedisCache] DEL failed", "key", key, "error", err)
	}
}

func (r *RedisCacheService) GetOrSet(key string, ttl time.Duration, load func() (any, error)) (interface{}, error) {
	if v, ok := r.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	r.Set(key, v, ttl)
	return v, nil
}

func (r *RedisCacheService) Backend() string { return "redis" }

// Ping is used by the health check.
func (r *RedisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCacheService) Close() error {
	return r.client.Close()
}
