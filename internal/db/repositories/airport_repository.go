package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gormlib "gorm.io/gorm"

	"planes-utils/flightnoise/internal/models/gorm"
)

const airportInsertBatch = 500

// AirportRepository reads and replaces the airports reference table.
type AirportRepository struct {
	db *gormlib.DB
}

func NewAirportRepository(db *gormlib.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// FindByCode looks a code up as IATA when it has three letters and as ICAO
// otherwise, ignoring case. Unknown codes return nil.
func (r *AirportRepository) FindByCode(ctx context.Context, code string) (*gorm.Airport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	column := "icao"
	if len(code) == 3 {
		column = "iata"
	}

	var airport gorm.Airport
	err := r.db.WithContext(ctx).Where("UPPER("+column+") = ?", code).First(&airport).Error
	if errors.Is(err, gormlib.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &airport, nil
}

// Replace swaps the whole table for airports in one transaction, so readers
// never see a half-loaded dataset.
func (r *AirportRepository) Replace(ctx context.Context, airports []gorm.Airport) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gormlib.DB) error {
		if err := tx.Session(&gormlib.Session{AllowGlobalUpdate: true}).Delete(&gorm.Airport{}).Error; err != nil {
			return fmt.Errorf("failed to clear airports: %w", err)
		}
		if len(airports) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(airports, airportInsertBatch).Error; err != nil {
			return fmt.Errorf("failed to insert airports: %w", err)
		}
		return nil
	})
}

func (r *AirportRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&gorm.Airport{}).Count(&n).Error
	return n, err
}
