package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/models/dtos"
)

type staticDesignators struct {
	list []string
	err  error
}

func (s staticDesignators) ListDesignators(context.Context) ([]string, error) { return s.list, s.err }

type countingWarmer struct {
	calls chan []string
}

func (w *countingWarmer) Warm(_ context.Context, designators []string) (int, error) {
	w.calls <- designators
	return len(designators) - 1, nil
}

func TestCategoryCacheWorkerRefill(t *testing.T) {
	warmer := &countingWarmer{calls: make(chan []string, 1)}
	w := NewCategoryCacheWorker(staticDesignators{list: []string{"A320", "B748", "ZZZZ"}}, warmer)

	assert.Equal(t, 2, w.Refill(context.Background()))
	assert.Equal(t, []string{"A320", "B748", "ZZZZ"}, <-warmer.calls)

	failing := NewCategoryCacheWorker(staticDesignators{err: errors.New("db down")}, warmer)
	assert.Equal(t, 0, failing.Refill(context.Background()))
	assert.Empty(t, warmer.calls)
}

func TestCategoryCacheWorkerStartStops(t *testing.T) {
	warmer := &countingWarmer{calls: make(chan []string, 10)}
	w := NewCategoryCacheWorker(staticDesignators{list: []string{"A320"}}, warmer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx, time.Hour)
		close(done)
	}()

	select {
	case <-warmer.calls:
	case <-time.After(time.Second):
		t.Fatal("initial refill did not run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

type fakeUsage map[constants.UsagePeriod]*dtos.UsageResponse

func (f fakeUsage) GetUsage(_ context.Context, period constants.UsagePeriod) (*dtos.UsageResponse, int, error) {
	if u, ok := f[period]; ok {
		return u, 200, nil
	}
	return nil, 500, errors.New("unavailable")
}

func TestUsageMonitorCheck(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	client := fakeUsage{
		constants.UsagePeriod24h: {Data: []dtos.UsageEntry{
			{Endpoint: "flight-summary/full", RequestCount: 4, Credits: 240},
			{Endpoint: "flight-tracks", RequestCount: 2, Credits: 80},
		}},
	}

	monitor := NewUsageMonitor(client, m)
	credits := monitor.Check(context.Background())

	require.Len(t, credits, 1)
	assert.Equal(t, 320, credits[constants.UsagePeriod24h])
	assert.Equal(t, 320.0, testutil.ToFloat64(m.FR24CreditsUsed.WithLabelValues("24h")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FR24CreditsUsed))
}

func TestInitWorkersWithoutUsage(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	warmer := &countingWarmer{calls: make(chan []string, 1)}
	c := InitWorkers(ctx, staticDesignators{list: []string{"A320"}}, warmer, nil, nil, time.Hour, time.Hour)

	assert.NotNil(t, c.CategoryCache)
	assert.Nil(t, c.Usage)

	select {
	case <-warmer.calls:
	case <-time.After(time.Second):
		t.Fatal("category cache worker did not start")
	}
}
