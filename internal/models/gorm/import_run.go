package gorm

import (
	"time"

	"planes-utils/flightnoise/internal/constants"
)

// ImportRun tracks one execution of an import job
type ImportRun struct {
	ID         string                     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Event      string                     `gorm:"column:event;type:varchar(50);not null;index" json:"event"`
	Status     string                     `gorm:"column:status;type:varchar(16);not null" json:"status"`
	Plan       constants.SubscriptionPlan `gorm:"column:plan;type:varchar(16)" json:"plan"`
	Summary    string                     `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Error      *string                    `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt  time.Time                  `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt *time.Time                 `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

// TableName specifies the table name for GORM
func (ImportRun) TableName() string {
	return "import_runs"
}
