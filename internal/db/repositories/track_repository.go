package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/geometry"
	"planes-utils/flightnoise/internal/models/gorm"
)

// TrackRepository reads and bulk-writes the tracks table through sqlx.
type TrackRepository struct {
	db *sqlx.DB
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *sqlx.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

type trackRow struct {
	Lat       float64 `db:"lat"`
	Lon       float64 `db:"lon"`
	Alt       float64 `db:"alt"`
	Timestamp string  `db:"timestamp"`
}

// GetTrack returns the stored points of a flight in ascending timestamp
// order. An unknown flight yields an empty track.
func (r *TrackRepository) GetTrack(ctx context.Context, fr24ID string) ([]geometry.TrackPoint, error) {
	var rows []trackRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(constants.SelectTrackByFlight), fr24ID); err != nil {
		return nil, fmt.Errorf("failed to load track for %s: %w", fr24ID, err)
	}

	track := make([]geometry.TrackPoint, len(rows))
	for i, row := range rows {
		track[i] = geometry.TrackPoint{
			Latitude:  row.Lat,
			Longitude: row.Lon,
			Altitude:  row.Alt,
			Timestamp: row.Timestamp,
		}
	}
	return track, nil
}

// CountByFlight returns the number of stored points for a flight.
func (r *TrackRepository) CountByFlight(ctx context.Context, fr24ID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, r.db.Rebind(constants.CountTrackPointsByFlight), fr24ID)
	return n, err
}

// InsertIgnore writes points in one transaction, skipping any that collide
// on (fr24_id, timestamp). It returns how many rows were inserted.
func (r *TrackRepository) InsertIgnore(ctx context.Context, points []gorm.TrackPoint) (int64, error) {
	if len(points) == 0 {
		return 0, nil
	}

	query := constants.InsertTrackPointSQLite
	if r.db.DriverName() == "postgres" {
		query = constants.InsertTrackPointPostgres
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin track insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare track insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, p := range points {
		res, err := stmt.ExecContext(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("failed to insert track point %s@%s: %w", p.FR24ID, p.Timestamp, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit track insert: %w", err)
	}
	return inserted, nil
}
