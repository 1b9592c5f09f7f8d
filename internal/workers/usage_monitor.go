package workers

import (
	"context"
	"time"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/models/dtos"
)

// UsageClient reports FR24 API credit consumption.
type UsageClient interface {
	GetUsage(ctx context.Context, period constants.UsagePeriod) (*dtos.UsageResponse, int, error)
}

// UsageMonitor polls FR24 credit usage and exports it as a gauge.
type UsageMonitor struct {
	client  UsageClient
	metrics *metrics.MetricsRegistry
	periods []constants.UsagePeriod
}

// NewUsageMonitor tracks the given periods, or the last 24h and 30d when
// none are given.
func NewUsageMonitor(client UsageClient, m *metrics.MetricsRegistry, periods ...constants.UsagePeriod) *UsageMonitor {
	if len(periods) == 0 {
		periods = []constants.UsagePeriod{constants.UsagePeriod24h, constants.UsagePeriod30d}
	}
	return &UsageMonitor{client: client, metrics: m, periods: periods}
}

// Start begins polling usage
func (m *UsageMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("[UsageMonitor] Starting usage monitoring", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.Check(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("[UsageMonitor] Shutting down")
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check fetches usage for every period. It returns credits by period for
// the periods that could be fetched.
func (m *UsageMonitor) Check(ctx context.Context) map[constants.UsagePeriod]int {
	credits := make(map[constants.UsagePeriod]int, len(m.periods))

	for _, period := range m.periods {
		usage, _, err := m.client.GetUsage(ctx, period)
		if err != nil {
			logging.Warn("[UsageMonitor] Failed to fetch usage", "period", string(period), "error", err)
			continue
		}

		total := usage.TotalCredits()
		credits[period] = total
		if m.metrics != nil {
			m.metrics.FR24CreditsUsed.WithLabelValues(string(period)).Set(float64(total))
		}

		logging.Info("[UsageMonitor] FR24 usage",
			"period", string(period),
			"credits", total,
			"endpoints", len(usage.Data),
		)
	}

	return credits
}
