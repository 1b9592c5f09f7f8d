package routes

import (
	"github.com/go-chi/chi/v5"

	"planes-utils/flightnoise/internal/api"
	"planes-utils/flightnoise/internal/middleware"
)

// RegisterAPIRoutes mounts /api/v1. Public routes share the per-IP limiter;
// /admin routes need an admin-scoped bearer token.
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers, jobsHandler *api.JobsHandler, limiter *middleware.RateLimiter) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)

		// Public
		v1.Post("/noise/flight/{fr24_id}", handlers.FlightNoiseHandler())
		v1.Post("/noise/batch", handlers.BatchNoiseHandler())
		v1.Post("/distance/flight/{fr24_id}", handlers.FlightDistanceHandler())
		v1.Get("/aircraft/{tdesig}", handlers.AircraftTypeHandler())

		// Admin-only group
		v1.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminAuth(deps.Services.Signer))

			// Import jobs
			admin.Post("/admin/jobs/import-flights", jobsHandler.TriggerImportFlights())
			admin.Post("/admin/jobs/update-flights", jobsHandler.TriggerUpdateFlights())
			admin.Post("/admin/jobs/populate-tracks", jobsHandler.TriggerPopulateTracks())
			admin.Post("/admin/jobs/load-aircraft-types", jobsHandler.TriggerLoadAircraftTypes())
			admin.Get("/admin/jobs/status", jobsHandler.GetJobStatus())

			admin.Get("/admin/usage", handlers.UsageHandler())

			// Airport data management
			admin.Post("/admin/data/sync-airports", api.SyncAirportsHandler(deps.Services.AirportLoader, deps.Repo.Airports))
		})
	})
}
