package repositories

import (
	"context"
	"errors"
	"strings"

	"planes-utils/flightnoise/internal/models/gorm"
	"planes-utils/flightnoise/internal/noise"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AircraftTypeRepository handles icao_8643 table operations
type AircraftTypeRepository struct {
	db *gormlib.DB
}

// NewAircraftTypeRepository creates a new aircraft type repository
func NewAircraftTypeRepository(db *gormlib.DB) *AircraftTypeRepository {
	return &AircraftTypeRepository{db: db}
}

// GetRecord finds a type designator record (case-insensitive)
func (r *AircraftTypeRepository) GetRecord(ctx context.Context, tdesig string) (*gorm.AircraftType, error) {
	var rec gorm.AircraftType

	err := r.db.WithContext(ctx).
		Where("UPPER(tdesig) = UPPER(?)", strings.TrimSpace(tdesig)).
		First(&rec).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rec, nil
}

// FindByDesignator resolves the noise category for a type designator, or
// nil when it is not in the table.
func (r *AircraftTypeRepository) FindByDesignator(ctx context.Context, tdesig string) (*noise.AircraftCategory, error) {
	if strings.TrimSpace(tdesig) == "" {
		return nil, nil
	}

	rec, err := r.GetRecord(ctx, tdesig)
	if err != nil || rec == nil {
		return nil, err
	}

	return CategoryFromRecord(rec), nil
}

// CategoryFromRecord maps an icao_8643 row to the fields the noise model
// reads. Long engine names ("Jet", "Piston", "Turboprop/Turboshaft") are
// reduced to their P/T/J letter. Model is always the model_no column.
func CategoryFromRecord(rec *gorm.AircraftType) *noise.AircraftCategory {
	return &noise.AircraftCategory{
		TypeDesignator: rec.TDesig,
		Manufacturer:   rec.ManufacturerCode,
		Model:          rec.ModelNo,
		WakeCategory:   strings.ToUpper(strings.TrimSpace(rec.WTC)),
		EngineType:     normalizeEngineType(rec.EngineType),
	}
}

func normalizeEngineType(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) > 1 {
		return s[:1]
	}
	return s
}

// InsertIgnore inserts a record unless its tdesig already exists. It
// reports whether a row was written.
func (r *AircraftTypeRepository) InsertIgnore(ctx context.Context, rec *gorm.AircraftType) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tdesig"}}, DoNothing: true}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListDesignators returns every stored type designator.
func (r *AircraftTypeRepository) ListDesignators(ctx context.Context) ([]string, error) {
	var designators []string
	err := r.db.WithContext(ctx).
		Model(&gorm.AircraftType{}).
		Order("tdesig").
		Pluck("tdesig", &designators).Error
	return designators, err
}

// Count returns total number of aircraft types
func (r *AircraftTypeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.AircraftType{}).Count(&count).Error
	return count, err
}
