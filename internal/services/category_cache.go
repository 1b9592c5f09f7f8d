package services

import (
	"context"
	"strings"
	"time"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/noise"
)

// cachedCategory also records misses so unknown designators are not looked
// up on every request.
type cachedCategory struct {
	Found    bool                    `json:"found"`
	Category *noise.AircraftCategory `json:"category,omitempty"`
}

// CachedCategoryFeed puts a cache in front of an AircraftCategoryFeed.
type CachedCategoryFeed struct {
	Source  AircraftCategoryFeed
	Cache   common.CacheInterface
	TTL     time.Duration
	Metrics *metrics.MetricsRegistry
}

var _ AircraftCategoryFeed = (*CachedCategoryFeed)(nil)

func NewCachedCategoryFeed(source AircraftCategoryFeed, cache common.CacheInterface, ttl time.Duration) *CachedCategoryFeed {
	return &CachedCategoryFeed{Source: source, Cache: cache, TTL: ttl}
}

func (c *CachedCategoryFeed) FindByDesignator(ctx context.Context, tdesig string) (*noise.AircraftCategory, error) {
	loaded := false
	v, err := c.Cache.GetOrSet(categoryKey(tdesig), c.TTL, func() (any, error) {
		loaded = true
		category, err := c.Source.FindByDesignator(ctx, tdesig)
		if err != nil {
			return nil, err
		}
		return cachedCategory{Found: category != nil, Category: category}, nil
	})
	c.hit(!loaded)
	if err != nil {
		return nil, err
	}

	entry, ok := common.DecodeCached[cachedCategory](v)
	if !ok {
		// unreadable entry, go to the store
		c.Invalidate(tdesig)
		return c.Source.FindByDesignator(ctx, tdesig)
	}
	return entry.Category, nil
}

// Warm loads designators into the cache and returns how many resolved.
func (c *CachedCategoryFeed) Warm(ctx context.Context, designators []string) (int, error) {
	resolved := 0
	for _, d := range designators {
		if err := ctx.Err(); err != nil {
			return resolved, err
		}
		category, err := c.Source.FindByDesignator(ctx, d)
		if err != nil {
			return resolved, err
		}
		c.Cache.Set(categoryKey(d), cachedCategory{Found: category != nil, Category: category}, c.TTL)
		if category != nil {
			resolved++
		}
	}
	return resolved, nil
}

// Invalidate drops a designator so the next lookup reads the store.
func (c *CachedCategoryFeed) Invalidate(tdesig string) {
	c.Cache.Delete(categoryKey(tdesig))
}

func (c *CachedCategoryFeed) hit(found bool) {
	if c.Metrics == nil {
		return
	}
	pattern := string(constants.CachePrefixAircraftCategory)
	if found {
		c.Metrics.CacheHitsTotal.WithLabelValues(pattern).Inc()
	} else {
		c.Metrics.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}
}

func categoryKey(tdesig string) string {
	return string(constants.CachePrefixAircraftCategory) + strings.ToUpper(strings.TrimSpace(tdesig))
}
