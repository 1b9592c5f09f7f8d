package workers

import (
	"context"
	"time"

	"planes-utils/flightnoise/internal/metrics"
)

// WorkersContainer holds the background workers started with the server.
type WorkersContainer struct {
	CategoryCache *CategoryCacheWorker
	Usage         *UsageMonitor
}

// InitWorkers starts the category cache refiller and, when usage is non-nil,
// the FR24 usage monitor. Both stop when ctx is cancelled.
func InitWorkers(
	ctx context.Context,
	designators DesignatorSource,
	warmer CategoryWarmer,
	usage UsageClient,
	metricsReg *metrics.MetricsRegistry,
	cacheInterval time.Duration,
	usageInterval time.Duration,
) *WorkersContainer {
	c := &WorkersContainer{
		CategoryCache: NewCategoryCacheWorker(designators, warmer),
	}
	go c.CategoryCache.Start(ctx, cacheInterval)

	if usage != nil {
		c.Usage = NewUsageMonitor(usage, metricsReg)
		go c.Usage.Start(ctx, usageInterval)
	}

	return c
}
