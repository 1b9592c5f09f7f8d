package common

import "time"

// CacheInterface is the key/value cache shared by the category feed and the
// token signer. Values read back from a remote backend are generic JSON; use
// DecodeCached to restore the stored type.
type CacheInterface interface {
	Set(key string, value interface{}, ttl time.Duration)
	Get(key string) (interface{}, bool)
	Delete(key string)

	// GetOrSet returns the cached value for key, calling load on a miss.
	// Load errors are returned and nothing is stored.
	GetOrSet(key string, ttl time.Duration, load func() (any, error)) (interface{}, error)

	// Backend is "memory" or "redis".
	Backend() string
	Close() error
}
