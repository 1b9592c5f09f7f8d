package dtos

import (
	"bytes"
	"encoding/json"
)

// FlightSummary is one entry of GET /flight-summary/full.
type FlightSummary struct {
	FR24ID          string   `json:"fr24_id"`
	Flight          *string  `json:"flight"`
	Callsign        *string  `json:"callsign"`
	OperatingAs     *string  `json:"operating_as"`
	PaintedAs       *string  `json:"painted_as"`
	Type            *string  `json:"type"`
	Reg             *string  `json:"reg"`
	OrigICAO        *string  `json:"orig_icao"`
	OrigIATA        *string  `json:"orig_iata"`
	DatetimeTakeoff *string  `json:"datetime_takeoff"`
	RunwayTakeoff   *string  `json:"runway_takeoff"`
	DestICAO        *string  `json:"dest_icao"`
	DestIATA        *string  `json:"dest_iata"`
	DatetimeLanded  *string  `json:"datetime_landed"`
	RunwayLanded    *string  `json:"runway_landed"`
	FlightTime      *float64 `json:"flight_time"`
	ActualDistance  *float64 `json:"actual_distance"`
	Hex             *string  `json:"hex"`
	FirstSeen       string   `json:"first_seen"`
	LastSeen        *string  `json:"last_seen"`
	FlightEnded     *bool    `json:"flight_ended"`
}

type FlightSummaryResponse struct {
	Data []FlightSummary `json:"data"`
}

// TrackPoint is one position of GET /flight-tracks. Altitude in feet,
// ground speed in knots, vertical speed in feet per minute.
type TrackPoint struct {
	Timestamp string  `json:"timestamp"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Alt       float64 `json:"alt"`
	GSpeed    float64 `json:"gspeed"`
	VSpeed    float64 `json:"vspeed"`
	Track     float64 `json:"track"`
	Squawk    string  `json:"squawk"`
	Callsign  string  `json:"callsign"`
	Source    string  `json:"source"`
}

type FlightTracks struct {
	FR24ID string       `json:"fr24_id"`
	Tracks []TrackPoint `json:"tracks"`
}

// FlightTracksResponse accepts both the bare array the API returns and a
// {"data": [...]} envelope.
type FlightTracksResponse struct {
	Data []FlightTracks `json:"data"`
}

func (r *FlightTracksResponse) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		return json.Unmarshal(b, &r.Data)
	}

	var envelope struct {
		Data []FlightTracks `json:"data"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return err
	}
	r.Data = envelope.Data
	return nil
}

type UsageEntry struct {
	Endpoint     string `json:"endpoint"`
	RequestCount int    `json:"request_count"`
	Credits      int    `json:"credits"`
}

type UsageResponse struct {
	Data []UsageEntry `json:"data"`
}

// TotalCredits sums credits across endpoints.
func (u *UsageResponse) TotalCredits() int {
	total := 0
	for _, e := range u.Data {
		total += e.Credits
	}
	return total
}
