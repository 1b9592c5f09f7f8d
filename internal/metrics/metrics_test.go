package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistryIsolatedRegistries(t *testing.T) {
	first := NewMetricsRegistry(prometheus.NewRegistry())
	second := NewMetricsRegistry(prometheus.NewRegistry())

	first.FlightsImportedTotal.Add(3)
	second.FlightsImportedTotal.Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(first.FlightsImportedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.FlightsImportedTotal))
}

func TestNewMetricsRegistryDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { NewMetricsRegistry(reg) })
	assert.Panics(t, func() { NewMetricsRegistry(reg) })
}

func TestNoiseOutcomeLabels(t *testing.T) {
	m := NewMetricsRegistry(prometheus.NewRegistry())
	m.NoiseCalculationsTotal.WithLabelValues("computed").Inc()
	m.NoiseCalculationsTotal.WithLabelValues("computed").Inc()
	m.NoiseCalculationsTotal.WithLabelValues("no_result").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.NoiseCalculationsTotal.WithLabelValues("computed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NoiseCalculationsTotal.WithLabelValues("no_result")))
}
