package jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"planes-utils/flightnoise/internal/config"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/models/dtos"
	gormModels "planes-utils/flightnoise/internal/models/gorm"
	"planes-utils/flightnoise/internal/providers"
)

// taxiSpeedKnots is the ground speed at or below which a point at altitude
// 0 is treated as taxiing and dropped.
const taxiSpeedKnots = 20

// TrackClient is the part of the FR24 API the track job uses.
type TrackClient interface {
	GetFlightTracks(ctx context.Context, fr24ID string) (*dtos.FlightTracksResponse, int, error)
}

// AirportResolver completes an airport filter given only one of its codes.
type AirportResolver interface {
	ResolveFilter(ctx context.Context, f *repositories.AirportFilter) error
}

// TrackImportOptions selects which flights get tracks and which points are
// kept.
type TrackImportOptions struct {
	BoundingBox config.BoundingBox
	Origin      *repositories.AirportFilter
	Destination *repositories.AirportFilter
	From        *time.Time
	To          *time.Time
}

// TrackSummary reports a PopulateTracks run.
type TrackSummary struct {
	Candidates      int `json:"candidate_flights"`
	Processed       int `json:"flights_processed"`
	PointsFetched   int `json:"track_points_fetched"`
	PointsInserted  int `json:"track_points_inserted"`
	FlightsNotFound int `json:"flights_not_found"`
	Errors          int `json:"flights_failed"`
}

// TrackImportJob fetches tracks for complete flights that have none yet.
type TrackImportJob struct {
	flights  *repositories.FlightRepository
	tracks   *repositories.TrackRepository
	fr24     TrackClient
	airports AirportResolver
	recorder recorder
	defaults TrackImportOptions
}

// NewTrackImportJob creates a new track import job. defaults are used by
// the scheduled Run.
func NewTrackImportJob(
	flights *repositories.FlightRepository,
	tracks *repositories.TrackRepository,
	runs *repositories.ImportRunRepo,
	fr24 TrackClient,
	airports AirportResolver,
	plan constants.SubscriptionPlan,
	metricsReg *metrics.MetricsRegistry,
	defaults TrackImportOptions,
) *TrackImportJob {
	return &TrackImportJob{
		flights:  flights,
		tracks:   tracks,
		fr24:     fr24,
		airports: airports,
		recorder: recorder{runs: runs, plan: plan, metrics: metricsReg},
		defaults: defaults,
	}
}

// TrackOptionsFromConfig builds the scheduled-run options from the import
// config.
func TrackOptionsFromConfig(cfg config.ImportConfig) TrackImportOptions {
	opts := TrackImportOptions{BoundingBox: cfg.BoundingBox}
	if o := cfg.Origin; o != nil {
		opts.Origin = &repositories.AirportFilter{ICAO: o.ICAO, IATA: o.IATA, Runways: o.Runways}
	}
	if d := cfg.Destination; d != nil {
		opts.Destination = &repositories.AirportFilter{ICAO: d.ICAO, IATA: d.IATA, Runways: d.Runways}
	}
	return opts
}

// PopulateTracks fetches and stores tracks for every candidate flight. A
// flight whose track request fails for a reason other than "not found" is
// logged and skipped; rate limiting and authentication failures abort the
// run.
func (j *TrackImportJob) PopulateTracks(ctx context.Context, opts TrackImportOptions) (*TrackSummary, error) {
	summary := &TrackSummary{}
	_, err := j.recorder.record(ctx, constants.JobEventPopulateTracks, func(log *zap.SugaredLogger) (interface{}, error) {
		return summary, j.populateTracks(ctx, log, opts, summary)
	})
	return summary, err
}

func (j *TrackImportJob) populateTracks(ctx context.Context, log *zap.SugaredLogger, opts TrackImportOptions, summary *TrackSummary) error {
	if j.airports != nil {
		for _, f := range []*repositories.AirportFilter{opts.Origin, opts.Destination} {
			if err := j.airports.ResolveFilter(ctx, f); err != nil {
				return fmt.Errorf("failed to resolve airport filter: %w", err)
			}
		}
	}

	ids, err := j.flights.ListTrackCandidates(ctx, repositories.TrackCandidateFilter{
		Origin:      opts.Origin,
		Destination: opts.Destination,
		From:        opts.From,
		To:          opts.To,
	})
	if err != nil {
		return fmt.Errorf("failed to list track candidates: %w", err)
	}
	summary.Candidates = len(ids)

	if len(ids) == 0 {
		log.Infow("[TrackImportJob] No complete flights without tracks found")
		return nil
	}
	log.Infow("[TrackImportJob] Fetching tracks", "flights", len(ids))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, _, err := j.fr24.GetFlightTracks(ctx, id)
		if err != nil {
			switch providers.ErrorCode(err) {
			case constants.ErrCodeResourceNotFound:
				summary.FlightsNotFound++
				continue
			case constants.ErrCodeRateLimited, constants.ErrCodeInvalidAPIKey:
				return fmt.Errorf("failed to fetch track for %s: %w", id, err)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warnw("[TrackImportJob] Error processing flight", "fr24_id", id, "error", err)
			summary.Errors++
			continue
		}

		if resp == nil || len(resp.Data) == 0 || len(resp.Data[0].Tracks) == 0 {
			summary.FlightsNotFound++
			continue
		}

		fetched := resp.Data[0].Tracks
		summary.PointsFetched += len(fetched)

		points := FilterTrackPoints(id, fetched, opts.BoundingBox)
		if len(points) > 0 {
			inserted, err := j.tracks.InsertIgnore(ctx, points)
			if err != nil {
				return fmt.Errorf("failed to store track for %s: %w", id, err)
			}
			summary.PointsInserted += int(inserted)
			if j.recorder.metrics != nil {
				j.recorder.metrics.TrackPointsInsertedTotal.Add(float64(inserted))
			}
		}

		log.Debugw("[TrackImportJob] Processed flight",
			"index", i+1, "total", len(ids), "fr24_id", id, "fetched", len(fetched), "kept", len(points))
		summary.Processed++
	}

	return nil
}

// FilterTrackPoints keeps points inside box and drops taxiing points
// (altitude 0 at or below taxi speed).
func FilterTrackPoints(fr24ID string, points []dtos.TrackPoint, box config.BoundingBox) []gormModels.TrackPoint {
	kept := make([]gormModels.TrackPoint, 0, len(points))
	for _, p := range points {
		if !inBox(box, p.Lat, p.Lon) {
			continue
		}
		if p.Alt == 0 && p.GSpeed <= taxiSpeedKnots {
			continue
		}
		kept = append(kept, gormModels.TrackPoint{
			FR24ID:    fr24ID,
			Timestamp: p.Timestamp,
			Lat:       p.Lat,
			Lon:       p.Lon,
			Alt:       p.Alt,
			GSpeed:    p.GSpeed,
			VSpeed:    p.VSpeed,
		})
	}
	return kept
}

func inBox(b config.BoundingBox, lat, lon float64) bool {
	return b.LatitudeMin <= lat && lat <= b.LatitudeMax &&
		b.LongitudeMin <= lon && lon <= b.LongitudeMax
}

// Defaults returns a copy of the configured options. Filters are resolved
// in place, so each run needs its own copy.
func (j *TrackImportJob) Defaults() TrackImportOptions {
	opts := j.defaults
	opts.Origin = copyFilter(opts.Origin)
	opts.Destination = copyFilter(opts.Destination)
	return opts
}

// Run populates tracks with the configured defaults.
func (j *TrackImportJob) Run(ctx context.Context) error {
	_, err := j.PopulateTracks(ctx, j.Defaults())
	return err
}

// RunScheduled runs the track import job on a schedule
func (j *TrackImportJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		logging.Error("[TrackImportJob] Error in initial run", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Error("[TrackImportJob] Error in scheduled run", "error", err)
			}
		case <-ctx.Done():
			logging.Info("[TrackImportJob] Shutting down scheduled track import")
			return
		}
	}
}

func copyFilter(f *repositories.AirportFilter) *repositories.AirportFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Runways = append([]string(nil), f.Runways...)
	return &c
}
