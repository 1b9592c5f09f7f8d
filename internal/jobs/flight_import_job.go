package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/models/dtos"
	gormModels "planes-utils/flightnoise/internal/models/gorm"
	"planes-utils/flightnoise/internal/providers"
)

// UpdateBatchSize is the most flight IDs FR24 accepts per summary request.
const UpdateBatchSize = 15

// staleAfter is the age after which an incomplete flight stops being
// refreshed unless FR24 still returns new movement data for it.
const staleAfter = 24 * time.Hour

// SummaryClient is the part of the FR24 API the flight jobs use.
type SummaryClient interface {
	GetFlightSummaries(ctx context.Context, q providers.SummaryQuery) (*dtos.FlightSummaryResponse, int, error)
}

// ImportSummary reports an ImportFlights run.
type ImportSummary struct {
	Windows    int      `json:"windows"`
	Fetched    int      `json:"flights_fetched_from_api"`
	Inserted   int      `json:"flights_inserted"`
	Ignored    int      `json:"flights_ignored_duplicates"`
	IgnoredIDs []string `json:"ignored_flight_ids,omitempty"`
}

// UpdateSummary reports an UpdateFlights run.
type UpdateSummary struct {
	Windows     int      `json:"windows"`
	Incomplete  int      `json:"incomplete_flights"`
	Fetched     int      `json:"flights_fetched_from_api"`
	Updated     int      `json:"flights_updated"`
	NotFound    int      `json:"flights_not_found"`
	NotFoundIDs []string `json:"not_found_flight_ids,omitempty"`
}

// FlightImportJob imports FR24 flight summaries for a set of airports and
// refreshes flights that were still missing takeoff or landing data.
type FlightImportJob struct {
	flights     *repositories.FlightRepository
	fr24        SummaryClient
	recorder    recorder
	windowHours int
	airports    []string
	lookback    time.Duration
	now         func() time.Time
}

// NewFlightImportJob creates a new flight import job instance. airports and
// lookback drive the scheduled Run.
func NewFlightImportJob(
	flights *repositories.FlightRepository,
	runs *repositories.ImportRunRepo,
	fr24 SummaryClient,
	plan constants.SubscriptionPlan,
	metricsReg *metrics.MetricsRegistry,
	windowHours int,
	airports []string,
	lookback time.Duration,
) *FlightImportJob {
	if windowHours < 1 {
		windowHours = 6
	}
	return &FlightImportJob{
		flights:     flights,
		fr24:        fr24,
		recorder:    recorder{runs: runs, plan: plan, metrics: metricsReg},
		windowHours: windowHours,
		airports:    airports,
		lookback:    lookback,
		now:         time.Now,
	}
}

// ImportFlights fetches summaries of flights touching airports with
// first_seen in [start, end). Spans already covered by stored flights for
// these airports are not requested again.
func (j *FlightImportJob) ImportFlights(ctx context.Context, airports []string, start, end time.Time) (*ImportSummary, error) {
	if len(airports) == 0 {
		return nil, fmt.Errorf("at least one airport is required")
	}
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	_, err := j.recorder.record(ctx, constants.JobEventImportFlights, func(log *zap.SugaredLogger) (interface{}, error) {
		return summary, j.importFlights(ctx, log, airports, start, end, summary)
	})
	return summary, err
}

func (j *FlightImportJob) importFlights(ctx context.Context, log *zap.SugaredLogger, airports []string, start, end time.Time, summary *ImportSummary) error {
	earliest, latest, err := j.flights.GetFirstSeenRange(ctx, airports)
	if err != nil {
		return err
	}

	var windows []Window
	for _, span := range missingSpans(start, end, earliest, latest) {
		windows = append(windows, TimeWindows(span.Start, span.End, j.windowHours)...)
	}
	summary.Windows = len(windows)

	if len(windows) == 0 {
		log.Infow("[FlightImportJob] Requested range already stored",
			"start", start, "end", end, "earliest", earliest, "latest", latest)
		return nil
	}

	limits, limited := j.recorder.plan.Limits()

	for _, w := range windows {
		log.Infow("[FlightImportJob] Fetching flights", "from", w.Start, "to", w.End)

		resp, _, err := j.fr24.GetFlightSummaries(ctx, providers.SummaryQuery{
			Airports: airports,
			From:     w.Start,
			To:       w.End,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch flights %s to %s: %w",
				w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339), err)
		}
		if resp == nil || len(resp.Data) == 0 {
			continue
		}

		if limited && limits.ResponseLimit > 0 && len(resp.Data) >= limits.ResponseLimit {
			log.Warnw("[FlightImportJob] Response hit the plan limit, window may be truncated",
				"from", w.Start, "limit", limits.ResponseLimit)
		}

		summary.Fetched += len(resp.Data)

		now := j.now().UTC()
		rows := make([]gormModels.Flight, 0, len(resp.Data))
		for _, s := range resp.Data {
			row, err := flightFromSummary(s, now)
			if err != nil {
				log.Warnw("[FlightImportJob] Skipping flight", "fr24_id", s.FR24ID, "error", err)
				continue
			}
			rows = append(rows, row)
		}

		inserted, ignored, err := j.flights.InsertIgnore(ctx, rows)
		summary.Inserted += inserted
		summary.Ignored += len(ignored)
		summary.IgnoredIDs = append(summary.IgnoredIDs, ignored...)
		if j.recorder.metrics != nil {
			j.recorder.metrics.FlightsImportedTotal.Add(float64(inserted))
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// UpdateFlights refreshes flights flagged requires_update with first_seen
// in [start, end).
func (j *FlightImportJob) UpdateFlights(ctx context.Context, start, end time.Time) (*UpdateSummary, error) {
	if err := validateRange(start, end); err != nil {
		return nil, err
	}

	summary := &UpdateSummary{}
	_, err := j.recorder.record(ctx, constants.JobEventUpdateFlights, func(log *zap.SugaredLogger) (interface{}, error) {
		return summary, j.updateFlights(ctx, log, start, end, summary)
	})
	return summary, err
}

func (j *FlightImportJob) updateFlights(ctx context.Context, log *zap.SugaredLogger, start, end time.Time, summary *UpdateSummary) error {
	windows := TimeWindows(start, end, j.windowHours)
	summary.Windows = len(windows)

	incomplete := make(map[string]struct{})
	found := make(map[string]struct{})

	for _, w := range windows {
		ids, err := j.flights.ListRequiringUpdate(ctx, w.Start, w.End)
		if err != nil {
			return fmt.Errorf("failed to list incomplete flights: %w", err)
		}
		if len(ids) == 0 {
			continue
		}
		for _, id := range ids {
			incomplete[id] = struct{}{}
		}
		log.Infow("[FlightImportJob] Incomplete flights in window", "from", w.Start, "count", len(ids))

		for i := 0; i < len(ids); i += UpdateBatchSize {
			batch := ids[i:min(i+UpdateBatchSize, len(ids))]

			resp, _, err := j.fr24.GetFlightSummaries(ctx, providers.SummaryQuery{
				FlightIDs: batch,
				From:      w.Start,
				To:        w.End,
			})
			if err != nil {
				return fmt.Errorf("failed to fetch flight batch: %w", err)
			}
			if resp == nil || len(resp.Data) == 0 {
				continue
			}
			summary.Fetched += len(resp.Data)

			for _, s := range resp.Data {
				found[s.FR24ID] = struct{}{}

				updated, err := j.applyUpdate(ctx, s)
				if err != nil {
					return err
				}
				if updated {
					summary.Updated++
				}
			}
		}
	}

	for id := range incomplete {
		if _, ok := found[id]; !ok {
			summary.NotFoundIDs = append(summary.NotFoundIDs, id)
		}
	}
	sort.Strings(summary.NotFoundIDs)
	summary.Incomplete = len(incomplete)
	summary.NotFound = len(summary.NotFoundIDs)

	return nil
}

// applyUpdate writes a fresh summary over the stored flight. It reports
// true only when the summary filled a missing takeoff or landing time.
func (j *FlightImportJob) applyUpdate(ctx context.Context, s dtos.FlightSummary) (bool, error) {
	current, err := j.flights.FindByID(ctx, s.FR24ID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}

	now := j.now().UTC()
	fresh, err := flightFromSummary(s, now)
	if err != nil {
		// An unparseable first_seen still updates the row; age is unknown.
		fresh = summaryToFlight(s)
	}

	providesTakeoff := current.DatetimeTakeoff == nil && fresh.DatetimeTakeoff != nil
	providesLanding := current.DatetimeLanded == nil && fresh.DatetimeLanded != nil

	completeAfter := (current.DatetimeTakeoff != nil || fresh.DatetimeTakeoff != nil) &&
		(current.DatetimeLanded != nil || fresh.DatetimeLanded != nil)

	old := isOld(s.FirstSeen, now)
	stop := completeAfter || (old && !(providesTakeoff || providesLanding))

	rows, err := j.flights.ApplyUpdate(ctx, &fresh, stop)
	if err != nil {
		return false, fmt.Errorf("failed to update flight %s: %w", s.FR24ID, err)
	}
	return rows > 0 && (providesTakeoff || providesLanding), nil
}

// Run imports and then refreshes the configured airports over the
// lookback period ending now.
func (j *FlightImportJob) Run(ctx context.Context) error {
	end := j.now().UTC().Truncate(time.Hour)
	start := end.Add(-j.lookback)

	logging.Info("[FlightImportJob] Starting scheduled import",
		"airports", strings.Join(j.airports, ","), "start", start, "end", end)

	var errs []error
	if _, err := j.ImportFlights(ctx, j.airports, start, end); err != nil {
		errs = append(errs, err)
	}
	if _, err := j.UpdateFlights(ctx, start, end); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RunScheduled runs the flight import job on a schedule
func (j *FlightImportJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		logging.Error("[FlightImportJob] Error in initial run", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Error("[FlightImportJob] Error in scheduled run", "error", err)
			}
		case <-ctx.Done():
			logging.Info("[FlightImportJob] Shutting down scheduled import")
			return
		}
	}
}

// flightFromSummary builds a row for a new flight. requires_update is set
// for recent flights that still lack takeoff or landing.
func flightFromSummary(s dtos.FlightSummary, now time.Time) (gormModels.Flight, error) {
	if s.FR24ID == "" {
		return gormModels.Flight{}, fmt.Errorf("missing fr24_id")
	}
	if _, err := repositories.ParseTimestamp(s.FirstSeen); err != nil {
		return gormModels.Flight{}, fmt.Errorf("invalid first_seen %q: %w", s.FirstSeen, err)
	}

	f := summaryToFlight(s)
	f.LastUpdated = now.Format(time.RFC3339Nano)
	f.RequiresUpdate = !(isOld(s.FirstSeen, now) || f.HasTakeoffAndLanding())
	return f, nil
}

func summaryToFlight(s dtos.FlightSummary) gormModels.Flight {
	var hex *string
	if s.Hex != nil {
		lower := strings.ToLower(*s.Hex)
		hex = &lower
	}

	return gormModels.Flight{
		FR24ID:          s.FR24ID,
		Hex:             hex,
		FirstSeen:       s.FirstSeen,
		LastSeen:        s.LastSeen,
		Callsign:        s.Flight,
		Type:            s.Type,
		OperatingAs:     s.OperatingAs,
		OrigICAO:        s.OrigICAO,
		OrigIATA:        s.OrigIATA,
		DatetimeTakeoff: s.DatetimeTakeoff,
		RunwayTakeoff:   s.RunwayTakeoff,
		DestICAO:        s.DestICAO,
		DestIATA:        s.DestIATA,
		DatetimeLanded:  s.DatetimeLanded,
		RunwayLanded:    s.RunwayLanded,
		FlightTime:      s.FlightTime,
		ActualDistance:  s.ActualDistance,
	}
}

func isOld(firstSeen string, now time.Time) bool {
	t, err := repositories.ParseTimestamp(firstSeen)
	if err != nil {
		return false
	}
	return now.Sub(t) > staleAfter
}
