package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"planes-utils/flightnoise/internal/geometry"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/noise"
)

// TrackFeed returns a flight's positions ordered by timestamp.
type TrackFeed interface {
	GetTrack(ctx context.Context, flightID string) ([]geometry.TrackPoint, error)
}

// FlightTypeFeed returns a flight's ICAO type designator, or "" when unknown.
type FlightTypeFeed interface {
	GetAircraftType(ctx context.Context, flightID string) (string, error)
}

// AircraftCategoryFeed resolves a type designator, or nil when unknown.
type AircraftCategoryFeed interface {
	FindByDesignator(ctx context.Context, tdesig string) (*noise.AircraftCategory, error)
}

// NoiseService loads flights from the store and runs the noise model.
type NoiseService struct {
	Tracks     TrackFeed
	Types      FlightTypeFeed
	Categories AircraftCategoryFeed
	Model      *noise.Model
	Steps      int
	Workers    int
	Metrics    *metrics.MetricsRegistry
}

func NewNoiseService(tracks TrackFeed, types FlightTypeFeed, categories AircraftCategoryFeed, steps, workers int) *NoiseService {
	if workers < 1 {
		workers = 1
	}
	return &NoiseService{
		Tracks:     tracks,
		Types:      types,
		Categories: categories,
		Model:      noise.NewModel(steps),
		Steps:      steps,
		Workers:    workers,
	}
}

// FlightNoise estimates one flight's noise at poi. A nil result with a nil
// error means the flight has no usable track or its aircraft category could
// not be resolved. Only track storage faults are returned as errors.
func (s *NoiseService) FlightNoise(ctx context.Context, flightID string, poi geometry.POI) (*noise.Result, error) {
	flight, err := s.loadFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}

	result, ok := s.Model.Calculate(flight.Track, poi, flight.Category)
	s.observe(ok)
	if !ok {
		return nil, nil
	}
	return result, nil
}

// FlightDistance finds the closest approach of a flight's track to poi. It
// needs no aircraft category.
func (s *NoiseService) FlightDistance(ctx context.Context, flightID string, poi geometry.POI, metric geometry.Metric) (*geometry.ClosestPoint, error) {
	track, err := s.Tracks.GetTrack(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to load track for %s: %w", flightID, err)
	}

	cp, ok := geometry.NewInterpolator(s.Steps).Track(track, poi, metric)
	if !ok {
		return nil, nil
	}
	return &cp, nil
}

// BatchNoise estimates every flight in flightIDs. Flights without a result
// are listed in skipped, sorted. Duplicate IDs are computed once. A flight
// whose data cannot be loaded is logged and skipped; only a cancelled ctx
// fails the batch.
func (s *NoiseService) BatchNoise(ctx context.Context, flightIDs []string, poi geometry.POI, parallel bool) (map[string]noise.Result, []string, error) {
	ids := uniqueIDs(flightIDs)
	flights := make([]noise.Flight, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			f, err := s.loadFlight(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logging.Warn("[NoiseService] Skipping flight in batch", "fr24_id", id, "error", err)
				flights[i] = noise.Flight{ID: id}
				return nil
			}
			flights[i] = *f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		results map[string]noise.Result
		err     error
	)
	if parallel {
		results, err = s.Model.CalculateBatchParallel(ctx, flights, poi, s.Workers)
		if err != nil {
			return nil, nil, err
		}
	} else {
		results = s.Model.CalculateBatch(flights, poi)
	}

	skipped := make([]string, 0)
	for _, id := range ids {
		_, ok := results[id]
		s.observe(ok)
		if !ok {
			skipped = append(skipped, id)
		}
	}
	sort.Strings(skipped)

	return results, skipped, nil
}

func (s *NoiseService) loadFlight(ctx context.Context, flightID string) (*noise.Flight, error) {
	track, err := s.Tracks.GetTrack(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to load track for %s: %w", flightID, err)
	}

	flight := &noise.Flight{ID: flightID, Track: track}
	if len(track) < 2 {
		return flight, nil
	}

	tdesig, err := s.Types.GetAircraftType(ctx, flightID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.Warn("[NoiseService] Aircraft type lookup failed", "fr24_id", flightID, "error", err)
		return flight, nil
	}
	if tdesig == "" {
		return flight, nil
	}

	category, err := s.Categories.FindByDesignator(ctx, tdesig)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.Warn("[NoiseService] Aircraft category lookup failed", "fr24_id", flightID, "tdesig", tdesig, "error", err)
		return flight, nil
	}
	flight.Category = category
	return flight, nil
}

func (s *NoiseService) observe(computed bool) {
	if s.Metrics == nil {
		return
	}
	outcome := "no_result"
	if computed {
		outcome = "computed"
	}
	s.Metrics.NoiseCalculationsTotal.WithLabelValues(outcome).Inc()
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
