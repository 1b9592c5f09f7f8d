package geometry

import "math"

const (
	// EarthRadiusMeters is the mean Earth radius used by Haversine.
	EarthRadiusMeters = 6371000.0

	// FeetToMeters converts FR24 altitudes (feet) to meters.
	FeetToMeters = 0.3048
)

// POI is a fixed ground location whose noise exposure is estimated.
// Altitude is in meters above sea level.
type POI struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// TrackPoint is one GPS fix of an aircraft. Altitude is in feet, as reported
// by FR24. Timestamp is only used for ordering and is never parsed here.
type TrackPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
	Timestamp string  `json:"timestamp"`
}

// Metric selects the distance function used during interpolation.
type Metric uint8

const (
	Metric2D Metric = iota // horizontal only
	Metric3D               // horizontal + vertical
	metricCount
)

var metricNames = [metricCount]string{
	Metric2D: "2d",
	Metric3D: "3d",
}

func (m Metric) String() string {
	if m < metricCount {
		return metricNames[m]
	}
	return "unknown"
}

// ParseMetric converts "2d" or "3d" to its Metric constant.
func ParseMetric(s string) (Metric, bool) {
	for i, name := range metricNames {
		if name == s {
			return Metric(i), true
		}
	}
	return 0, false
}

// Distance returns the distance in meters between the POI and a point whose
// altitude is given in feet. Metric2D ignores altitude entirely. An unknown
// metric yields +Inf so it never wins a closest-point search.
func (m Metric) Distance(poi POI, lat, lon, altFeet float64) float64 {
	switch m {
	case Metric2D:
		return Haversine(poi.Latitude, poi.Longitude, lat, lon)
	case Metric3D:
		return Distance3D(poi, lat, lon, altFeet)
	}
	return math.Inf(1)
}

// Haversine returns the great-circle distance in meters between two points
// given in degrees. Inputs are not validated.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lon1r := lon1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	lon2r := lon2 * math.Pi / 180

	dLat := lat2r - lat1r
	dLon := lon2r - lon1r

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Pow(math.Sin(dLon/2), 2)
	c := 2 * math.Asin(math.Sqrt(a))

	return c * EarthRadiusMeters
}

// Distance3D combines the horizontal haversine distance with the vertical
// separation between the POI (meters) and a point at altFeet.
func Distance3D(poi POI, lat, lon, altFeet float64) float64 {
	horizontal := Haversine(poi.Latitude, poi.Longitude, lat, lon)
	vertical := math.Abs(poi.Altitude - altFeet*FeetToMeters)

	return math.Sqrt(horizontal*horizontal + vertical*vertical)
}
