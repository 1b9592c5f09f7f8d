package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/db/dbtest"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/geometry"
	"planes-utils/flightnoise/internal/metrics"
	gormModels "planes-utils/flightnoise/internal/models/gorm"
	"planes-utils/flightnoise/internal/noise"
)

var testPOI = geometry.POI{Latitude: 47.45, Longitude: 8.55, Altitude: 430}

type fakeTracks map[string][]geometry.TrackPoint

func (f fakeTracks) GetTrack(_ context.Context, id string) ([]geometry.TrackPoint, error) {
	if id == "broken" {
		return nil, errors.New("disk on fire")
	}
	return f[id], nil
}

type fakeTypes map[string]string

func (f fakeTypes) GetAircraftType(_ context.Context, id string) (string, error) {
	if id == "broken-type" {
		return "", errors.New("flights table locked")
	}
	return f[id], nil
}

type fakeCategories struct {
	lookups int
	known   map[string]*noise.AircraftCategory
}

func (f *fakeCategories) FindByDesignator(_ context.Context, tdesig string) (*noise.AircraftCategory, error) {
	f.lookups++
	return f.known[tdesig], nil
}

// overflight crosses the POI's meridian 3 km north at 3000 ft.
func overflight() []geometry.TrackPoint {
	lat := testPOI.Latitude + 3000.0/111195.0
	return []geometry.TrackPoint{
		{Latitude: lat, Longitude: 8.50, Altitude: 3000, Timestamp: "2025-08-11T10:00:00Z"},
		{Latitude: lat, Longitude: 8.60, Altitude: 3000, Timestamp: "2025-08-11T10:01:00Z"},
	}
}

func newFakeService() (*NoiseService, *fakeCategories) {
	cats := &fakeCategories{known: map[string]*noise.AircraftCategory{
		"A320": {TypeDesignator: "A320", WakeCategory: "M", EngineType: "J"},
		"B748": {TypeDesignator: "B748", WakeCategory: "H", EngineType: "J"},
	}}
	tracks := fakeTracks{
		"f-a320":      overflight(),
		"f-b748":      overflight(),
		"f-unknown":   overflight(),
		"f-short":     overflight()[:1],
		"broken-type": overflight(),
	}
	types := fakeTypes{
		"f-a320":    "A320",
		"f-b748":    "B748",
		"f-unknown": "ZZZZ",
		"f-short":   "A320",
	}
	return NewNoiseService(tracks, types, cats, 100, 4), cats
}

func TestNoiseService_FlightNoise(t *testing.T) {
	svc, _ := newFakeService()
	ctx := context.Background()

	res, err := svc.FlightNoise(ctx, "f-a320", testPOI)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 95.0, res.Breakdown.BaselineNoise)
	assert.Equal(t, "A320", res.Breakdown.AircraftType)
	assert.InDelta(t, 3000, res.Breakdown.ClosestAltitude, 1e-9)
	assert.GreaterOrEqual(t, res.FinalNoise, noise.BackgroundFloor)

	for _, id := range []string{"f-unknown", "f-short", "missing", "broken-type"} {
		res, err := svc.FlightNoise(ctx, id, testPOI)
		require.NoError(t, err, id)
		assert.Nil(t, res, id)
	}

	_, err = svc.FlightNoise(ctx, "broken", testPOI)
	assert.Error(t, err)
}

func TestNoiseService_FlightDistance(t *testing.T) {
	svc, cats := newFakeService()
	ctx := context.Background()

	cp2, err := svc.FlightDistance(ctx, "f-unknown", testPOI, geometry.Metric2D)
	require.NoError(t, err)
	require.NotNil(t, cp2)
	assert.InDelta(t, 3000, cp2.Distance, 5)

	cp3, err := svc.FlightDistance(ctx, "f-unknown", testPOI, geometry.Metric3D)
	require.NoError(t, err)
	require.NotNil(t, cp3)
	vertical := 3000*geometry.FeetToMeters - testPOI.Altitude
	assert.InDelta(t, math.Hypot(cp2.Distance, vertical), cp3.Distance, 5)
	assert.Zero(t, cats.lookups, "distance needs no aircraft category")

	none, err := svc.FlightDistance(ctx, "f-short", testPOI, geometry.Metric2D)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestNoiseService_BatchNoise(t *testing.T) {
	svc, _ := newFakeService()
	svc.Metrics = metrics.NewMetricsRegistry(prometheus.NewRegistry())
	ctx := context.Background()

	ids := []string{"f-b748", "f-a320", "f-short", "f-unknown", "f-a320", " ", "missing"}

	seq, skippedSeq, err := svc.BatchNoise(ctx, ids, testPOI, false)
	require.NoError(t, err)
	par, skippedPar, err := svc.BatchNoise(ctx, ids, testPOI, true)
	require.NoError(t, err)

	assert.Len(t, seq, 2)
	assert.Equal(t, seq, par)
	assert.Equal(t, []string{"f-short", "f-unknown", "missing"}, skippedSeq)
	assert.Equal(t, skippedSeq, skippedPar)
	assert.Greater(t, seq["f-b748"].FinalNoise, seq["f-a320"].FinalNoise)

	assert.Equal(t, 4.0, testutil.ToFloat64(svc.Metrics.NoiseCalculationsTotal.WithLabelValues("computed")))
	assert.Equal(t, 6.0, testutil.ToFloat64(svc.Metrics.NoiseCalculationsTotal.WithLabelValues("no_result")))
}

func TestNoiseService_BatchNoiseSkipsFailedFlights(t *testing.T) {
	svc, _ := newFakeService()
	svc.Metrics = metrics.NewMetricsRegistry(prometheus.NewRegistry())
	ctx := context.Background()

	for _, parallel := range []bool{false, true} {
		results, skipped, err := svc.BatchNoise(ctx, []string{"f-a320", "f-b748", "broken", "broken-type"}, testPOI, parallel)
		require.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Contains(t, results, "f-a320")
		assert.Contains(t, results, "f-b748")
		assert.Equal(t, []string{"broken", "broken-type"}, skipped)
	}

	assert.Equal(t, 4.0, testutil.ToFloat64(svc.Metrics.NoiseCalculationsTotal.WithLabelValues("no_result")))
}

func TestNoiseService_BatchNoiseCancelled(t *testing.T) {
	svc, _ := newFakeService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := svc.BatchNoise(ctx, []string{"f-a320", "f-b748"}, testPOI, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNoiseService_BatchNoiseEmpty(t *testing.T) {
	svc, _ := newFakeService()
	results, skipped, err := svc.BatchNoise(context.Background(), nil, testPOI, true)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, skipped)
}

func TestCachedCategoryFeed(t *testing.T) {
	_, cats := newFakeService()
	feed := NewCachedCategoryFeed(cats, common.NewCacheService(time.Minute, time.Minute), time.Minute)
	feed.Metrics = metrics.NewMetricsRegistry(prometheus.NewRegistry())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		c, err := feed.FindByDesignator(ctx, "A320")
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "M", c.WakeCategory)

		missing, err := feed.FindByDesignator(ctx, "ZZZZ")
		require.NoError(t, err)
		assert.Nil(t, missing)
	}
	assert.Equal(t, 2, cats.lookups, "hits and misses are both cached")
	assert.Equal(t, 4.0, testutil.ToFloat64(feed.Metrics.CacheHitsTotal.WithLabelValues("ACFT_CAT_")))

	feed.Invalidate("a320")
	_, err := feed.FindByDesignator(ctx, "A320")
	require.NoError(t, err)
	assert.Equal(t, 3, cats.lookups)

	resolved, err := feed.Warm(ctx, []string{"A320", "B748", "ZZZZ"})
	require.NoError(t, err)
	assert.Equal(t, 2, resolved)
}

func TestNoiseService_WithRepositories(t *testing.T) {
	gdb, sdb := dbtest.Open(t)
	ctx := context.Background()

	flights := repositories.NewFlightRepository(gdb)
	tracks := repositories.NewTrackRepository(sdb)
	types := repositories.NewAircraftTypeRepository(gdb)

	a320 := "A320"
	_, _, err := flights.InsertIgnore(ctx, []gormModels.Flight{
		{FR24ID: "db-1", FirstSeen: "2025-08-11T10:00:00Z", Type: &a320, LastUpdated: "2025-08-11T12:00:00Z"},
	})
	require.NoError(t, err)

	modelName := "A320"
	_, err = types.InsertIgnore(ctx, &gormModels.AircraftType{
		ManufacturerCode: "AIRBUS", ModelNo: "A-320", ModelName: &modelName,
		EngineCount: 2, EngineType: "Jet", WTC: "M", TDesig: "A320",
	})
	require.NoError(t, err)

	points := make([]gormModels.TrackPoint, 0)
	for _, p := range overflight() {
		points = append(points, gormModels.TrackPoint{
			FR24ID: "db-1", Timestamp: p.Timestamp, Lat: p.Latitude, Lon: p.Longitude, Alt: p.Altitude,
		})
	}
	_, err = tracks.InsertIgnore(ctx, points)
	require.NoError(t, err)

	feed := NewCachedCategoryFeed(types, common.NewCacheService(time.Minute, time.Minute), time.Minute)
	svc := NewNoiseService(tracks, flights, feed, 100, 2)

	res, err := svc.FlightNoise(ctx, "db-1", testPOI)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "J", res.Breakdown.EngineType)
	assert.Equal(t, 95.0, res.Breakdown.BaselineNoise)

	fake, _ := newFakeService()
	want, err := fake.FlightNoise(ctx, "f-a320", testPOI)
	require.NoError(t, err)
	assert.InDelta(t, want.FinalNoise, res.FinalNoise, 1e-9)
}
