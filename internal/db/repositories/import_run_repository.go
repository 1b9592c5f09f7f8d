package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

// ImportRunRepo records import job executions
type ImportRunRepo struct {
	db *gormlib.DB
}

// NewImportRunRepo creates a new import run repository
func NewImportRunRepo(db *gormlib.DB) *ImportRunRepo {
	return &ImportRunRepo{db: db}
}

// Start inserts a running record for event and returns it.
func (r *ImportRunRepo) Start(ctx context.Context, event string, plan constants.SubscriptionPlan) (*gorm.ImportRun, error) {
	run := &gorm.ImportRun{
		ID:        uuid.New().String(),
		Event:     event,
		Status:    constants.JobStatusRunning,
		Plan:      plan,
		StartedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// Finish stores the outcome of a run. summary is serialized as JSON.
func (r *ImportRunRepo) Finish(ctx context.Context, run *gorm.ImportRun, summary interface{}, runErr error) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = constants.JobStatusSucceeded

	if summary != nil {
		if data, err := json.Marshal(summary); err == nil {
			run.Summary = string(data)
		}
	}
	if runErr != nil {
		msg := runErr.Error()
		run.Status = constants.JobStatusFailed
		run.Error = &msg
	}

	return r.db.WithContext(ctx).Save(run).Error
}

// LastRun returns the most recent run for event, or nil if it never ran.
func (r *ImportRunRepo) LastRun(ctx context.Context, event string) (*gorm.ImportRun, error) {
	var run gorm.ImportRun

	err := r.db.WithContext(ctx).
		Where("event = ?", event).
		Order("started_at DESC").
		First(&run).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &run, nil
}

// LastSuccessTime returns when event last finished successfully.
// Used to decide whether a scheduled job should run at startup.
func (r *ImportRunRepo) LastSuccessTime(ctx context.Context, event string) (*time.Time, error) {
	var run gorm.ImportRun

	err := r.db.WithContext(ctx).
		Where("event = ? AND status = ?", event, constants.JobStatusSucceeded).
		Order("finished_at DESC").
		First(&run).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return run.FinishedAt, nil
}
