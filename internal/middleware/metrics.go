package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"planes-utils/flightnoise/internal/auth"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/metrics"
)

// MetricsMiddleware counts and times requests by chi route pattern, so
// /noise/flight/{fr24_id} is one series no matter the flight. It also
// writes one access log line per request.
func MetricsMiddleware(m *metrics.MetricsRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// mounted on the root router, the pattern is only known after routing
			gauge := m.HTTPRequestsInFlight.WithLabelValues(routePattern(r, "all"))
			gauge.Inc()
			defer gauge.Dec()

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			endpoint := routePattern(r, "unknown")
			m.HTTPRequestsTotal.WithLabelValues(endpoint, r.Method, strconv.Itoa(rec.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(endpoint, r.Method).Observe(elapsed.Seconds())

			logging.WithRequest(auth.GetRequestID(r.Context()), endpoint).Infow("Request served",
				"method", r.Method,
				"status_code", rec.statusCode,
				"duration_ms", elapsed.Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

func routePattern(r *http.Request, fallback string) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePattern() == "" {
		return fallback
	}
	return rctx.RoutePattern()
}

// statusRecorder remembers the first status written.
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.wroteHeader {
		return
	}
	s.statusCode, s.wroteHeader = code, true
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if !s.wroteHeader {
		s.WriteHeader(http.StatusOK)
	}
	return s.ResponseWriter.Write(b)
}
