package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for flightnoise
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Database Metrics
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// FR24 Metrics
	FR24RequestsTotal   *prometheus.CounterVec
	FR24RequestDuration *prometheus.HistogramVec
	FR24CreditsUsed     *prometheus.GaugeVec

	// Business Metrics
	FlightsImportedTotal     prometheus.Counter
	TrackPointsInsertedTotal prometheus.Counter
	NoiseCalculationsTotal   *prometheus.CounterVec
	JobDuration              *prometheus.HistogramVec
}

// NewMetricsRegistry registers every metric on reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightnoise_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightnoise_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightnoise_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Database Metrics
		DBQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightnoise_db_queries_total",
				Help: "Total database queries by operation type",
			},
			[]string{"query_type"},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightnoise_db_query_duration_seconds",
				Help:    "Database query execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"query_type"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightnoise_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightnoise_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// FR24 Metrics
		FR24RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightnoise_fr24_requests_total",
				Help: "Total FlightRadar24 API requests by endpoint and status code",
			},
			[]string{"endpoint", "status_code"},
		),
		FR24RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightnoise_fr24_request_duration_seconds",
				Help:    "FlightRadar24 API latency in seconds, pacing delay excluded",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		FR24CreditsUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightnoise_fr24_credits_used",
				Help: "FlightRadar24 API credits consumed over the reporting period",
			},
			[]string{"period"},
		),

		// Business Metrics
		FlightsImportedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flightnoise_flights_imported_total",
				Help: "Total flight summaries inserted",
			},
		),
		TrackPointsInsertedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flightnoise_track_points_inserted_total",
				Help: "Total track points inserted",
			},
		),
		NoiseCalculationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightnoise_noise_calculations_total",
				Help: "Noise calculations by outcome (computed or no_result)",
			},
			[]string{"outcome"},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightnoise_job_duration_seconds",
				Help:    "Import job execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"job_name"},
		),
	}
}
