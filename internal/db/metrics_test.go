package db_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planes-utils/flightnoise/internal/db"
	"planes-utils/flightnoise/internal/db/dbtest"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/metrics"
	gormModels "planes-utils/flightnoise/internal/models/gorm"
)

func TestRegisterMetrics(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	require.NoError(t, db.RegisterMetrics(gdb, m))

	ctx := context.Background()
	flights := repositories.NewFlightRepository(gdb)

	_, _, err := flights.InsertIgnore(ctx, []gormModels.Flight{{FR24ID: "m-1", FirstSeen: "2025-08-11T06:00:00Z"}})
	require.NoError(t, err)
	_, err = flights.FindByID(ctx, "m-1")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueriesTotal.WithLabelValues("select")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.DBQueryDuration, "flightnoise_db_query_duration_seconds"))
}
