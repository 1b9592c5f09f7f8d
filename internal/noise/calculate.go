package noise

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"planes-utils/flightnoise/internal/geometry"
)

// AircraftCategory is the resolved ICAO 8643 data for a type designator.
type AircraftCategory struct {
	TypeDesignator string `json:"aircraft_type"`
	Manufacturer   string `json:"manufacturer"`
	Model          string `json:"model"`
	WakeCategory   string `json:"wake_category"` // L, M, H, J
	EngineType     string `json:"engine_type"`   // P, T, J
}

// Breakdown exposes every term of a noise estimate.
type Breakdown struct {
	AircraftType        string  `json:"aircraft_type"`
	Manufacturer        string  `json:"manufacturer"`
	Model               string  `json:"model"`
	WakeCategory        string  `json:"wake_category"`
	EngineType          string  `json:"engine_type"`
	MinDistance         float64 `json:"min_distance"`
	ClosestLatitude     float64 `json:"closest_latitude"`
	ClosestLongitude    float64 `json:"closest_longitude"`
	ClosestAltitude     float64 `json:"closest_altitude"`
	BaselineNoise       float64 `json:"baseline_noise"`
	DistanceAttenuation float64 `json:"distance_attenuation"`
	AltitudeCorrection  float64 `json:"altitude_correction"`
	FinalNoise          float64 `json:"final_noise"`
}

// Result is the estimated noise (EPNdB) at a POI for one flight.
type Result struct {
	FinalNoise float64   `json:"final_noise"`
	Breakdown  Breakdown `json:"breakdown"`
}

// Flight bundles the inputs for one flight. A nil Category or a track with
// fewer than two points produces no result.
type Flight struct {
	ID       string
	Track    []geometry.TrackPoint
	Category *AircraftCategory
}

// Model computes noise estimates with a configurable interpolation density.
// The zero value uses geometry.DefaultSteps.
type Model struct {
	interp geometry.Interpolator
}

// NewModel returns a Model sampling each track segment steps times.
func NewModel(steps int) *Model {
	return &Model{interp: geometry.NewInterpolator(steps)}
}

// Calculate estimates the noise of a flight at the POI. It returns false
// when the category is unknown or the track has no computable 3D minimum.
func (m *Model) Calculate(track []geometry.TrackPoint, poi geometry.POI, category *AircraftCategory) (*Result, bool) {
	if category == nil {
		return nil, false
	}

	cp, ok := m.interp.Track(track, poi, geometry.Metric3D)
	if !ok {
		return nil, false
	}

	baseline := BaselineNoise(category.WakeCategory, category.EngineType)
	attenuation := DistanceAttenuation(cp.Distance)
	altCorrection := AltitudeCorrection(cp.Altitude, poi.Altitude)

	final := math.Max(baseline-attenuation-altCorrection, BackgroundFloor)

	return &Result{
		FinalNoise: final,
		Breakdown: Breakdown{
			AircraftType:        category.TypeDesignator,
			Manufacturer:        category.Manufacturer,
			Model:               category.Model,
			WakeCategory:        category.WakeCategory,
			EngineType:          category.EngineType,
			MinDistance:         cp.Distance,
			ClosestLatitude:     cp.Latitude,
			ClosestLongitude:    cp.Longitude,
			ClosestAltitude:     cp.Altitude,
			BaselineNoise:       baseline,
			DistanceAttenuation: attenuation,
			AltitudeCorrection:  altCorrection,
			FinalNoise:          final,
		},
	}, true
}

// CalculateBatch runs Calculate for every flight. Flights without a result
// are absent from the returned map.
func (m *Model) CalculateBatch(flights []Flight, poi geometry.POI) map[string]Result {
	results := make(map[string]Result, len(flights))
	for _, f := range flights {
		if r, ok := m.Calculate(f.Track, poi, f.Category); ok {
			results[f.ID] = *r
		}
	}
	return results
}

// CalculateBatchParallel is CalculateBatch spread over at most workers
// goroutines. Each flight writes only its own slot, so nothing is shared
// until the merge. It returns ctx.Err() if the context is cancelled before
// all flights are scheduled.
func (m *Model) CalculateBatchParallel(ctx context.Context, flights []Flight, poi geometry.POI, workers int) (map[string]Result, error) {
	if workers < 1 {
		workers = 1
	}

	slots := make([]*Result, len(flights))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range flights {
		if err := gctx.Err(); err != nil {
			break
		}
		i := i
		g.Go(func() error {
			if r, ok := m.Calculate(flights[i].Track, poi, flights[i].Category); ok {
				slots[i] = r
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make(map[string]Result, len(flights))
	for i, r := range slots {
		if r != nil {
			results[flights[i].ID] = *r
		}
	}
	return results, nil
}

var defaultModel = &Model{}

// Calculate uses the default interpolation density.
func Calculate(track []geometry.TrackPoint, poi geometry.POI, category *AircraftCategory) (*Result, bool) {
	return defaultModel.Calculate(track, poi, category)
}

// CalculateBatch uses the default interpolation density.
func CalculateBatch(flights []Flight, poi geometry.POI) map[string]Result {
	return defaultModel.CalculateBatch(flights, poi)
}
