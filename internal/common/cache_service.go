package common

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// CacheService is the in-process cache used when Redis is disabled or
// unreachable. Values come back exactly as stored.
type CacheService struct {
	items *cache.Cache
}

var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(defaultTTL, cleanupInterval time.Duration) *CacheService {
	return &CacheService{items: cache.New(defaultTTL, cleanupInterval)}
}

func (cs *CacheService) Set(key string, value interface{}, ttl time.Duration) {
	cs.items.Set(key, value, ttl)
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	return cs.items.Get(key)
}

func (cs *CacheService) Delete(key string) {
	cs.items.Delete(key)
}

func (cs *CacheService) GetOrSet(key string, ttl time.Duration, load func() (any, error)) (interface{}, error) {
	if v, ok := cs.items.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	cs.items.Set(key, v, ttl)
	return v, nil
}

// ItemCount includes expired entries until the next cleanup.
func (cs *CacheService) ItemCount() int {
	return cs.items.ItemCount()
}

func (cs *CacheService) Backend() string { return "memory" }

func (cs *CacheService) Close() error { return nil }
