package geometry

import "math"

// Track scans every consecutive pair of an ordered track and returns the
// global closest point. It reports false when the track has fewer than two
// points. Ties across segments keep the first one found.
//
// Cost is len(track)-1 segments times Steps+1 distance evaluations.
func (ip Interpolator) Track(track []TrackPoint, poi POI, metric Metric) (ClosestPoint, bool) {
	if len(track) < 2 {
		return ClosestPoint{}, false
	}

	best := ClosestPoint{Distance: math.Inf(1)}
	for i := 0; i < len(track)-1; i++ {
		cp := ip.Segment(track[i], track[i+1], poi, metric)
		if cp.Distance < best.Distance {
			best = cp
		}
	}

	// NaN coordinates never compare less than +Inf.
	if math.IsInf(best.Distance, 1) {
		return ClosestPoint{}, false
	}
	return best, true
}

// MinDistanceOverTrack uses DefaultSteps per segment.
func MinDistanceOverTrack(track []TrackPoint, poi POI, metric Metric) (ClosestPoint, bool) {
	return Interpolator{}.Track(track, poi, metric)
}

// MinDistance returns only the scalar distance of MinDistanceOverTrack.
func MinDistance(track []TrackPoint, poi POI, metric Metric) (float64, bool) {
	cp, ok := MinDistanceOverTrack(track, poi, metric)
	if !ok {
		return 0, false
	}
	return cp.Distance, true
}
