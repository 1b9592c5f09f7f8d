package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"

	"planes-utils/flightnoise/internal/api"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/middleware"
)

// RegisterRoutes builds the HTTP router. metricsHandler serves /metrics and
// may be nil. Responses are gzip-compressed for clients that accept it.
func RegisterRoutes(deps *api.Dependencies, upSince time.Time, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	if deps.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(deps.Metrics))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	logging.Info("Router initialized", "allowed_origins", deps.Config.Server.AllowedOrigins)

	r.Get("/healthCheck", api.HealthCheckHandler(deps.DB, deps.Services.Cache, upSince))
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	handlers := api.NewHandlers(deps)

	schedule := "Manual"
	if deps.Config.Import.Schedule {
		schedule = "Every " + deps.Config.Import.Interval.String()
	}
	jobsHandler := api.NewJobsHandler(deps.Jobs, deps.Repo.Runs, deps.Config.Import.Airports, schedule)

	limiter := middleware.NewRateLimiter(deps.Config.Server.RateLimitRPS, deps.Config.Server.RateLimitBurst, "127.0.0.1")

	RegisterAPIRoutes(r, deps, handlers, jobsHandler, limiter)

	return gzhttp.GzipHandler(r)
}
