package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"planes-utils/flightnoise/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TimestampLayout is the UTC ISO 8601 form FR24 uses and flights are stored in.
const TimestampLayout = "2006-01-02T15:04:05Z"

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout and RFC 3339 with offsets or
// fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// AirportFilter restricts flights to an airport (either code) and, when
// Runways is non-empty, to those runways.
type AirportFilter struct {
	ICAO    string
	IATA    string
	Runways []string
}

// TrackCandidateFilter narrows the flights selected for track import.
// Origin and Destination are OR'ed together.
type TrackCandidateFilter struct {
	Origin      *AirportFilter
	Destination *AirportFilter
	From        *time.Time
	To          *time.Time
}

// FlightRepository handles flights table operations
type FlightRepository struct {
	db *gormlib.DB
}

// NewFlightRepository creates a new flight repository
func NewFlightRepository(db *gormlib.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// FindByID returns nil when the flight is unknown.
func (r *FlightRepository) FindByID(ctx context.Context, fr24ID string) (*gorm.Flight, error) {
	var flight gorm.Flight

	err := r.db.WithContext(ctx).
		Where("fr24_id = ?", fr24ID).
		First(&flight).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &flight, nil
}

// GetAircraftType returns the ICAO type designator of a flight, or "" when
// the flight or its type is unknown.
func (r *FlightRepository) GetAircraftType(ctx context.Context, fr24ID string) (string, error) {
	flight, err := r.FindByID(ctx, fr24ID)
	if err != nil || flight == nil || flight.Type == nil {
		return "", err
	}
	return strings.TrimSpace(*flight.Type), nil
}

// GetFirstSeenRange returns the earliest and latest first_seen of flights
// touching any of the airports, or nils when there are none.
func (r *FlightRepository) GetFirstSeenRange(ctx context.Context, airports []string) (*time.Time, *time.Time, error) {
	if len(airports) == 0 {
		return nil, nil, nil
	}

	var row struct {
		Earliest *string
		Latest   *string
	}

	err := r.db.WithContext(ctx).
		Model(&gorm.Flight{}).
		Select("MIN(first_seen) AS earliest, MAX(first_seen) AS latest").
		Where("orig_icao IN ? OR orig_iata IN ? OR dest_icao IN ? OR dest_iata IN ?",
			airports, airports, airports, airports).
		Scan(&row).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query first_seen range: %w", err)
	}

	if row.Earliest == nil || row.Latest == nil || *row.Earliest == "" || *row.Latest == "" {
		return nil, nil, nil
	}

	earliest, err := ParseTimestamp(*row.Earliest)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid first_seen %q: %w", *row.Earliest, err)
	}
	latest, err := ParseTimestamp(*row.Latest)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid first_seen %q: %w", *row.Latest, err)
	}

	return &earliest, &latest, nil
}

// InsertIgnore inserts flights one by one, skipping existing fr24_ids.
// It returns the number inserted and the IDs that were already present.
func (r *FlightRepository) InsertIgnore(ctx context.Context, flights []gorm.Flight) (int, []string, error) {
	inserted := 0
	var ignored []string

	for i := range flights {
		res := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&flights[i])
		if res.Error != nil {
			return inserted, ignored, fmt.Errorf("failed to insert flight %s: %w", flights[i].FR24ID, res.Error)
		}
		if res.RowsAffected == 0 {
			ignored = append(ignored, flights[i].FR24ID)
			continue
		}
		inserted++
	}

	return inserted, ignored, nil
}

// ListRequiringUpdate returns IDs of flights flagged for update whose
// first_seen lies in [from, to].
func (r *FlightRepository) ListRequiringUpdate(ctx context.Context, from, to time.Time) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&gorm.Flight{}).
		Where("requires_update = ?", true).
		Where("first_seen >= ? AND first_seen <= ?", FormatTimestamp(from), FormatTimestamp(to)).
		Order("first_seen").
		Pluck("fr24_id", &ids).Error

	return ids, err
}

// ApplyUpdate overwrites the summary fields of an existing flight. When
// stopUpdating is set the flight is also marked complete.
func (r *FlightRepository) ApplyUpdate(ctx context.Context, f *gorm.Flight, stopUpdating bool) (int64, error) {
	updates := map[string]interface{}{
		"hex":              f.Hex,
		"first_seen":       f.FirstSeen,
		"last_seen":        f.LastSeen,
		"flight":           f.Callsign,
		"type":             f.Type,
		"operating_as":     f.OperatingAs,
		"orig_icao":        f.OrigICAO,
		"orig_iata":        f.OrigIATA,
		"datetime_takeoff": f.DatetimeTakeoff,
		"runway_takeoff":   f.RunwayTakeoff,
		"dest_icao":        f.DestICAO,
		"dest_iata":        f.DestIATA,
		"datetime_landed":  f.DatetimeLanded,
		"runway_landed":    f.RunwayLanded,
		"flight_time":      f.FlightTime,
		"actual_distance":  f.ActualDistance,
	}
	if stopUpdating {
		updates["last_updated"] = time.Now().UTC().Format(time.RFC3339Nano)
		updates["requires_update"] = false
	}

	res := r.db.WithContext(ctx).
		Model(&gorm.Flight{}).
		Where("fr24_id = ?", f.FR24ID).
		Updates(updates)

	return res.RowsAffected, res.Error
}

// ListTrackCandidates returns complete flights with no stored track.
func (r *FlightRepository) ListTrackCandidates(ctx context.Context, filter TrackCandidateFilter) ([]string, error) {
	tracked := r.db.Model(&gorm.TrackPoint{}).Select("DISTINCT fr24_id")

	q := r.db.WithContext(ctx).
		Model(&gorm.Flight{}).
		Where("requires_update = ?", false).
		Where("fr24_id NOT IN (?)", tracked)

	var conds []string
	var args []interface{}
	if o := filter.Origin; o != nil {
		cond, a := airportCondition("orig_icao", "orig_iata", "runway_takeoff", o)
		conds = append(conds, cond)
		args = append(args, a...)
	}
	if d := filter.Destination; d != nil {
		cond, a := airportCondition("dest_icao", "dest_iata", "runway_landed", d)
		conds = append(conds, cond)
		args = append(args, a...)
	}
	if len(conds) > 0 {
		q = q.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	if filter.From != nil {
		q = q.Where("first_seen >= ?", FormatTimestamp(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("first_seen <= ?", FormatTimestamp(*filter.To))
	}

	var ids []string
	err := q.Order("first_seen").Pluck("fr24_id", &ids).Error
	return ids, err
}

func airportCondition(icaoCol, iataCol, runwayCol string, a *AirportFilter) (string, []interface{}) {
	cond := fmt.Sprintf("(%s = ? OR %s = ?)", icaoCol, iataCol)
	args := []interface{}{a.ICAO, a.IATA}
	if len(a.Runways) > 0 {
		cond = fmt.Sprintf("(%s AND %s IN ?)", cond, runwayCol)
		args = append(args, a.Runways)
	}
	return cond, args
}

// Count returns total number of flights
func (r *FlightRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Flight{}).Count(&count).Error
	return count, err
}
