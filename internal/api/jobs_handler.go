package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"planes-utils/flightnoise/internal/auth"
	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/jobs"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/models/dtos"
	"planes-utils/flightnoise/internal/providers"
)

// JobsHandler handles manual job triggering endpoints
type JobsHandler struct {
	jobs     *jobs.Jobs
	runs     *repositories.ImportRunRepo
	airports []string
	schedule string
}

// NewJobsHandler creates a new jobs handler. airports is the default for
// flight imports; schedule describes the scheduled run for status output.
func NewJobsHandler(j *jobs.Jobs, runs *repositories.ImportRunRepo, airports []string, schedule string) *JobsHandler {
	return &JobsHandler{
		jobs:     j,
		runs:     runs,
		airports: airports,
		schedule: schedule,
	}
}

func parseWindow(req dtos.TimeWindowRequest) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end = start.UTC(), end.UTC()
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start must be before end")
	}
	return start, end, nil
}

// trigger runs fn and responds with its summary and the recorded run ID.
func (h *JobsHandler) trigger(w http.ResponseWriter, r *http.Request, event string, fn func(ctx context.Context) (interface{}, error)) {
	start := time.Now()

	triggeredBy := ""
	if claims := auth.GetClaims(r.Context()); claims != nil {
		triggeredBy = claims.Subject
	}
	logging.Info("[JobsHandler] Job manually triggered", "job", event, "by", triggeredBy)

	summary, err := fn(r.Context())
	if err != nil {
		logging.Error("[JobsHandler] Job failed", "job", event, "error", err)
		code := http.StatusInternalServerError
		if providers.ErrorCode(err) != "" {
			code = http.StatusBadGateway
		}
		common.RespondError(w, start, fmt.Errorf("failed to run %s: %w", event, err), "", code)
		return
	}

	runID := ""
	if run, err := h.runs.LastRun(r.Context(), event); err == nil && run != nil {
		runID = run.ID
	}

	duration := time.Since(start)
	common.RespondSuccess(w, start, constants.MsgJobCompleted, dtos.JobResult{
		RunID:       runID,
		Event:       event,
		TriggeredAt: start.UTC().Format(time.RFC3339),
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
		DurationMs:  int(duration.Milliseconds()),
		Summary:     summary,
	})
}

// TriggerImportFlights handles POST /api/v1/admin/jobs/import-flights
func (h *JobsHandler) TriggerImportFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.TimeWindowRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, time.Now(), nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}
		start, end, err := parseWindow(req)
		if err != nil {
			common.RespondError(w, time.Now(), nil, constants.MsgInvalidTimeWindow, http.StatusBadRequest)
			return
		}

		airports := common.NormalizeCodes(req.Airports)
		if len(airports) == 0 {
			airports = h.airports
		}

		h.trigger(w, r, constants.JobEventImportFlights, func(ctx context.Context) (interface{}, error) {
			return h.jobs.Flights.ImportFlights(ctx, airports, start, end)
		})
	}
}

// TriggerUpdateFlights handles POST /api/v1/admin/jobs/update-flights
func (h *JobsHandler) TriggerUpdateFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.TimeWindowRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, time.Now(), nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}
		start, end, err := parseWindow(req)
		if err != nil {
			common.RespondError(w, time.Now(), nil, constants.MsgInvalidTimeWindow, http.StatusBadRequest)
			return
		}

		h.trigger(w, r, constants.JobEventUpdateFlights, func(ctx context.Context) (interface{}, error) {
			return h.jobs.Flights.UpdateFlights(ctx, start, end)
		})
	}
}

// TriggerPopulateTracks handles POST /api/v1/admin/jobs/populate-tracks
func (h *JobsHandler) TriggerPopulateTracks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.TimeWindowRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, time.Now(), nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		opts := h.jobs.Tracks.Defaults()
		for _, bound := range []struct {
			value string
			dst   **time.Time
		}{{req.Start, &opts.From}, {req.End, &opts.To}} {
			if bound.value == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, bound.value)
			if err != nil {
				common.RespondError(w, time.Now(), nil, constants.MsgInvalidTimeWindow, http.StatusBadRequest)
				return
			}
			t = t.UTC()
			*bound.dst = &t
		}

		h.trigger(w, r, constants.JobEventPopulateTracks, func(ctx context.Context) (interface{}, error) {
			return h.jobs.Tracks.PopulateTracks(ctx, opts)
		})
	}
}

// TriggerLoadAircraftTypes handles POST /api/v1/admin/jobs/load-aircraft-types
func (h *JobsHandler) TriggerLoadAircraftTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LoadAircraftTypesRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, time.Now(), nil, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		h.trigger(w, r, constants.JobEventLoadAircraftTypes, func(ctx context.Context) (interface{}, error) {
			return h.jobs.AircraftTypes.Load(ctx, req.Dir)
		})
	}
}

var jobDescriptions = []struct {
	event       string
	name        string
	description string
	scheduled   bool
}{
	{constants.JobEventImportFlights, "import_flights", "Imports FR24 flight summaries for the configured airports", true},
	{constants.JobEventUpdateFlights, "update_flights", "Refreshes flights still missing takeoff or landing data", true},
	{constants.JobEventPopulateTracks, "populate_tracks", "Fetches tracks for complete flights without one", true},
	{constants.JobEventLoadAircraftTypes, "load_aircraft_types", "Loads ICAO Doc 8643 aircraft type files", false},
}

// GetJobStatus handles GET /api/v1/admin/jobs/status
func (h *JobsHandler) GetJobStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		infos := make([]dtos.JobInfo, 0, len(jobDescriptions))
		for _, d := range jobDescriptions {
			info := dtos.JobInfo{
				Name:        d.name,
				Description: d.description,
				Schedule:    "Manual",
				Status:      "never_run",
			}
			if d.scheduled && h.schedule != "" {
				info.Schedule = h.schedule
			}

			run, err := h.runs.LastRun(r.Context(), d.event)
			if err != nil {
				common.RespondError(w, start, nil, "Failed to read job history", http.StatusInternalServerError)
				return
			}
			if run != nil {
				startedAt := run.StartedAt
				info.Status = run.Status
				info.LastRun = &startedAt
				info.Summary = run.Summary
				if run.Error != nil {
					info.LastError = *run.Error
				}
			}
			infos = append(infos, info)
		}

		common.RespondSuccess(w, start, constants.MsgJobStatus, map[string]interface{}{"jobs": infos})
	}
}
