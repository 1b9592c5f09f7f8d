package workers

import (
	"context"
	"time"

	"planes-utils/flightnoise/internal/logging"
)

// DesignatorSource lists every known aircraft type designator.
type DesignatorSource interface {
	ListDesignators(ctx context.Context) ([]string, error)
}

// CategoryWarmer preloads aircraft categories into the cache.
type CategoryWarmer interface {
	Warm(ctx context.Context, designators []string) (int, error)
}

// CategoryCacheWorker refills the aircraft category cache before entries
// expire, so noise requests rarely hit the database for lookups.
type CategoryCacheWorker struct {
	source DesignatorSource
	warmer CategoryWarmer
}

func NewCategoryCacheWorker(source DesignatorSource, warmer CategoryWarmer) *CategoryCacheWorker {
	return &CategoryCacheWorker{source: source, warmer: warmer}
}

// Start refills immediately and then every interval until ctx is done.
func (w *CategoryCacheWorker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.Refill(ctx)

	for {
		select {
		case <-ticker.C:
			w.Refill(ctx)
		case <-ctx.Done():
			logging.Info("[CategoryCacheWorker] Shutting down")
			return
		}
	}
}

// Refill warms every stored designator and returns how many resolved.
func (w *CategoryCacheWorker) Refill(ctx context.Context) int {
	designators, err := w.source.ListDesignators(ctx)
	if err != nil {
		logging.Warn("[CategoryCacheWorker] Failed to list designators", "error", err)
		return 0
	}
	if len(designators) == 0 {
		return 0
	}

	resolved, err := w.warmer.Warm(ctx, designators)
	if err != nil {
		logging.Warn("[CategoryCacheWorker] Refill interrupted", "resolved", resolved, "error", err)
		return resolved
	}

	logging.Debug("[CategoryCacheWorker] Cache refilled", "designators", len(designators), "resolved", resolved)
	return resolved
}
