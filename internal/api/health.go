package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/models/dtos"
)

// pinger is implemented by caches backed by a remote server.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Verifies the server and its database are reachable.
// @Tags Misc
// @Success 200 {object} dtos.HealthCheckResponse
// @Failure 503 {object} dtos.HealthCheckResponse
// @Router /healthCheck [get]
func HealthCheckHandler(db *sqlx.DB, cache common.CacheInterface, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		services := make(map[string]dtos.ServiceStatus)

		dbStatus := "ok"
		dbDetails := db.DriverName() + " connected"
		if err := db.PingContext(r.Context()); err != nil {
			dbStatus = "down"
			dbDetails = err.Error()
		}
		services["database"] = dtos.ServiceStatus{
			Status:  dbStatus,
			Details: dbDetails,
		}

		if cache != nil {
			cacheStatus := dtos.ServiceStatus{Status: "ok", Details: cache.Backend()}
			if p, ok := cache.(pinger); ok {
				if err := p.Ping(r.Context()); err != nil {
					cacheStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
				}
			}
			services["cache"] = cacheStatus
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		now := time.Now()
		uptime := now.Sub(upSince).Round(time.Second).String()

		resp := dtos.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince.UTC(),
			Uptime:   uptime,
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
