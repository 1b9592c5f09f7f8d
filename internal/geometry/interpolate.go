package geometry

import "math"

// DefaultSteps is the number of subdivisions used per track segment.
const DefaultSteps = 100

// ClosestPoint is the sampled point of a segment or track nearest to a POI.
// Altitude is in feet and is reported for both metrics.
type ClosestPoint struct {
	Distance  float64 `json:"min_distance"`
	Latitude  float64 `json:"closest_latitude"`
	Longitude float64 `json:"closest_longitude"`
	Altitude  float64 `json:"closest_altitude"`
}

// Interpolator finds closest points by sampling each segment at Steps+1
// evenly spaced positions. The zero value uses DefaultSteps.
type Interpolator struct {
	Steps int
}

// NewInterpolator returns an Interpolator with the given step count.
// Non-positive values fall back to DefaultSteps.
func NewInterpolator(steps int) Interpolator {
	if steps <= 0 {
		steps = DefaultSteps
	}
	return Interpolator{Steps: steps}
}

func (ip Interpolator) steps() int {
	if ip.Steps <= 0 {
		return DefaultSteps
	}
	return ip.Steps
}

// Segment samples the straight line between p1 and p2 in lat/lon/alt space
// and returns the sample nearest to the POI. Samples are visited from p1
// (t=0) to p2 (t=1); on ties the earliest sample wins.
func (ip Interpolator) Segment(p1, p2 TrackPoint, poi POI, metric Metric) ClosestPoint {
	n := ip.steps()
	best := ClosestPoint{Distance: math.Inf(1)}

	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)

		lat := p1.Latitude + t*(p2.Latitude-p1.Latitude)
		lon := p1.Longitude + t*(p2.Longitude-p1.Longitude)
		alt := p1.Altitude + t*(p2.Altitude-p1.Altitude)

		d := metric.Distance(poi, lat, lon, alt)
		if d < best.Distance {
			best = ClosestPoint{Distance: d, Latitude: lat, Longitude: lon, Altitude: alt}
		}
	}

	return best
}

// InterpolateSegment is Segment with an explicit step count
// (steps <= 0 selects DefaultSteps).
func InterpolateSegment(p1, p2 TrackPoint, poi POI, metric Metric, steps int) ClosestPoint {
	return NewInterpolator(steps).Segment(p1, p2, poi, metric)
}
