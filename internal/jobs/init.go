package jobs

import (
	"context"
	"time"

	"planes-utils/flightnoise/internal/logging"
)

// Jobs groups the import jobs the API can trigger.
type Jobs struct {
	Flights       *FlightImportJob
	Tracks        *TrackImportJob
	AircraftTypes *AircraftTypeJob
}

// StartScheduled runs flight import then track import every interval until
// ctx is cancelled. Track import waits for the flight run so it sees the
// flights that just completed.
func (j *Jobs) StartScheduled(ctx context.Context, interval time.Duration) {
	logging.Info("[Jobs] Starting scheduled imports", "interval", interval.String())

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		j.runOnce(ctx)
		for {
			select {
			case <-ticker.C:
				j.runOnce(ctx)
			case <-ctx.Done():
				logging.Info("[Jobs] Shutting down scheduled imports")
				return
			}
		}
	}()
}

func (j *Jobs) runOnce(ctx context.Context) {
	if j.Flights != nil {
		if err := j.Flights.Run(ctx); err != nil {
			logging.Error("[Jobs] Flight import failed", "error", err)
		}
	}
	if j.Tracks != nil && ctx.Err() == nil {
		if err := j.Tracks.Run(ctx); err != nil {
			logging.Error("[Jobs] Track import failed", "error", err)
		}
	}
}
