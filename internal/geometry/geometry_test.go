package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zurichPOI = POI{Latitude: 47.45, Longitude: 8.55, Altitude: 430}

func TestHaversineKnownDistances(t *testing.T) {
	assert.Equal(t, 0.0, Haversine(47.45, 8.55, 47.45, 8.55))

	// One degree of latitude on a 6371 km sphere.
	oneDegree := EarthRadiusMeters * math.Pi / 180
	assert.InDelta(t, oneDegree, Haversine(47.0, 8.55, 48.0, 8.55), 1e-6)

	// Symmetric.
	assert.InDelta(t,
		Haversine(47.40, 8.50, 47.45, 8.60),
		Haversine(47.45, 8.60, 47.40, 8.50),
		1e-9)
}

func TestDistance3DCombinesVerticalSeparation(t *testing.T) {
	// Directly overhead: only the vertical component remains.
	d := Distance3D(zurichPOI, 47.45, 8.55, 1000)
	assert.InDelta(t, math.Abs(430-1000*FeetToMeters), d, 1e-9)

	horizontal := Haversine(47.45, 8.55, 47.46, 8.55)
	vertical := math.Abs(430 - 3000*FeetToMeters)
	assert.InDelta(t, math.Hypot(horizontal, vertical), Distance3D(zurichPOI, 47.46, 8.55, 3000), 1e-6)
}

func TestMetricDistanceDispatch(t *testing.T) {
	d2 := Metric2D.Distance(zurichPOI, 47.45, 8.55, 5000)
	d3 := Metric3D.Distance(zurichPOI, 47.45, 8.55, 5000)

	assert.Equal(t, 0.0, d2)
	assert.Greater(t, d3, 0.0)
}

func TestParseMetric(t *testing.T) {
	m, ok := ParseMetric("2d")
	require.True(t, ok)
	assert.Equal(t, Metric2D, m)

	m, ok = ParseMetric("3d")
	require.True(t, ok)
	assert.Equal(t, Metric3D, m)
	assert.Equal(t, "3d", m.String())

	_, ok = ParseMetric("4d")
	assert.False(t, ok)
	assert.Equal(t, "unknown", Metric(9).String())
}

func TestMetricDistanceUnknown(t *testing.T) {
	assert.True(t, math.IsInf(Metric(9).Distance(zurichPOI, 47.46, 8.55, 3000), 1))
	assert.Equal(t, Distance3D(zurichPOI, 47.46, 8.55, 3000), Metric3D.Distance(zurichPOI, 47.46, 8.55, 3000))
}
