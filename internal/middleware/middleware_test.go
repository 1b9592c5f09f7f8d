package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planes-utils/flightnoise/internal/auth"
	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/metrics"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestRequireScope(t *testing.T) {
	signer := common.NewTokenSignerService([]byte("test-secret"), common.NewCacheService(time.Minute, time.Minute))
	adminToken, adminTok, err := signer.Issue("ops", common.ScopeAdmin, time.Hour)
	require.NoError(t, err)
	readToken, _, err := signer.Issue("dashboard", common.ScopeRead, time.Hour)
	require.NoError(t, err)

	var seen *auth.Claims
	handler := AdminAuth(signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetClaims(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(header string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/jobs/import-flights", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer not-a-jwt"))
	assert.Equal(t, http.StatusForbidden, do("Bearer "+readToken))

	assert.Equal(t, http.StatusNoContent, do("Bearer "+adminToken))
	require.NotNil(t, seen)
	assert.Equal(t, "ops", seen.Subject)

	signer.Revoke(adminTok)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+adminToken))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, "10.0.0.9")
	handler := rl.Middleware(http.HandlerFunc(okHandler))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/aircraft/A320", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"))

	// limits are per IP
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1000"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, do("10.0.0.9:1000"))
	}
	assert.Equal(t, 2, rl.Tracked(), "whitelisted clients get no limiter")
}

func TestRateLimiterDisabled(t *testing.T) {
	handler := NewRateLimiter(0, 1).Middleware(http.HandlerFunc(okHandler))
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestMetricsAndRequestID(t *testing.T) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	var requestID string
	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(m))
	r.Get("/api/v1/aircraft/{tdesig}", func(w http.ResponseWriter, r *http.Request) {
		requestID = auth.GetRequestID(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/aircraft/ZZZZ", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("/api/v1/aircraft/{tdesig}", http.MethodGet, "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight.WithLabelValues("all")))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/aircraft/A320", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-id", requestID)
}
