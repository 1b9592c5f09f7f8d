// Package noise estimates the perceived noise level of a flight at a point of
// interest from its closest approach.
//
// The model is deliberately coarse. Baselines are approximations by ICAO
// wake/engine category and are not sourced from certified acoustic data.
package noise

import (
	"math"

	"planes-utils/flightnoise/internal/geometry"
)

const (
	// FallbackBaseline is used for wake/engine pairs missing from the table.
	FallbackBaseline = 90.0

	// BackgroundFloor is the ambient level; estimates never go below it.
	BackgroundFloor = 30.0

	// ReferenceDistance is the flyover reference distance in meters.
	ReferenceDistance = 1000.0

	// absorptionPer100m is the simplified mid-frequency atmospheric
	// absorption in dB per 100 m beyond the reference distance.
	absorptionPer100m = 0.005

	// altitudeDBPerKm is the extra attenuation per 1000 m of vertical
	// separation.
	altitudeDBPerKm = 2.0
)

// profile is a (wake category, engine type) pair.
type profile struct {
	wake   string
	engine string
}

// baselineTable holds EPNdB at reference conditions.
var baselineTable = map[profile]float64{
	// Jets
	{"L", "J"}: 85,
	{"M", "J"}: 95,
	{"H", "J"}: 105,
	{"J", "J"}: 110,

	// Turboprops
	{"L", "T"}: 80,
	{"M", "T"}: 88,
	{"H", "T"}: 92,

	// Pistons
	{"L", "P"}: 75,
	{"M", "P"}: 78,
}

// BaselineNoise returns the reference noise level for a wake category
// (L, M, H, J) and engine type (P, T, J).
func BaselineNoise(wakeCategory, engineType string) float64 {
	if v, ok := baselineTable[profile{wakeCategory, engineType}]; ok {
		return v
	}
	return FallbackBaseline
}

// DistanceAttenuation returns spherical spreading loss relative to
// ReferenceDistance plus a linear absorption term. Non-positive distances
// yield 0.
//
// Below the reference distance the result is negative, which adds noise back
// compared with the reference flyover. This is a known quirk of the model and
// is kept as is.
func DistanceAttenuation(distanceMeters float64) float64 {
	if distanceMeters <= 0 {
		return 0
	}

	spreading := 20 * math.Log10(distanceMeters/ReferenceDistance)
	absorption := absorptionPer100m * (distanceMeters - ReferenceDistance) / 100

	return spreading + absorption
}

// AltitudeCorrection returns 2 dB per 1000 m of separation between the
// aircraft (feet) and the POI (meters).
func AltitudeCorrection(aircraftAltFeet, poiAltMeters float64) float64 {
	diff := math.Abs(aircraftAltFeet*geometry.FeetToMeters - poiAltMeters)
	return diff / 1000 * altitudeDBPerKm
}
