package dtos

import (
	"time"

	"planes-utils/flightnoise/internal/geometry"
	"planes-utils/flightnoise/internal/models/gorm"
	"planes-utils/flightnoise/internal/noise"
)

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

// POIRequest is a point of interest in a request body. Altitude is meters.
type POIRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  float64  `json:"altitude"`
}

// ToPOI reports false when a coordinate is missing.
func (p *POIRequest) ToPOI() (geometry.POI, bool) {
	if p == nil || p.Latitude == nil || p.Longitude == nil {
		return geometry.POI{}, false
	}
	return geometry.POI{Latitude: *p.Latitude, Longitude: *p.Longitude, Altitude: p.Altitude}, true
}

type BatchNoiseRequest struct {
	FlightIDs []string    `json:"flight_ids"`
	POI       *POIRequest `json:"poi"`
	Parallel  bool        `json:"parallel"`
}

type BatchNoiseResponse struct {
	Results map[string]noise.Result `json:"results"`
	Skipped []string                `json:"skipped"`
}

type FlightNoiseResponse struct {
	FlightID string `json:"fr24_id"`
	noise.Result
}

type FlightDistanceResponse struct {
	FlightID string `json:"fr24_id"`
	Metric   string `json:"metric"`
	geometry.ClosestPoint
}

// TimeWindowRequest carries RFC 3339 bounds for import jobs. Track imports
// treat both bounds as optional.
type TimeWindowRequest struct {
	Start    string   `json:"start"`
	End      string   `json:"end"`
	Airports []string `json:"airports,omitempty"`
}

type LoadAircraftTypesRequest struct {
	Dir string `json:"dir,omitempty"`
}

type JobResult struct {
	RunID       string      `json:"run_id"`
	Event       string      `json:"event"`
	TriggeredAt string      `json:"triggered_at"`
	CompletedAt string      `json:"completed_at"`
	DurationMs  int         `json:"duration_ms"`
	Summary     interface{} `json:"summary"`
}

type JobInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Schedule    string     `json:"schedule"`
	Status      string     `json:"status"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	Summary     string     `json:"summary,omitempty"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}

type AircraftTypeResponse struct {
	Record        *gorm.AircraftType      `json:"record"`
	Category      *noise.AircraftCategory `json:"category"`
	BaselineNoise float64                 `json:"baseline_noise"`
}

type UsageSummaryResponse struct {
	Period       string       `json:"period"`
	TotalCredits int          `json:"total_credits"`
	Endpoints    []UsageEntry `json:"endpoints"`
}
