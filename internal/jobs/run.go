package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/metrics"
)

// recorder wraps job executions with an import_runs row, a duration
// metric and a job-scoped logger.
type recorder struct {
	runs    *repositories.ImportRunRepo
	plan    constants.SubscriptionPlan
	metrics *metrics.MetricsRegistry
}

// record runs fn and stores its summary and error. It returns the run ID,
// or "" if the run could not be recorded.
func (r recorder) record(ctx context.Context, event string, fn func(log *zap.SugaredLogger) (interface{}, error)) (string, error) {
	start := time.Now()

	runID := ""
	run, err := r.runs.Start(ctx, event, r.plan)
	if err != nil {
		logging.Warn("Failed to record job start", "job", event, "error", err)
	} else {
		runID = run.ID
	}

	log := logging.WithJob(event, runID)
	log.Infow("Job started", "plan", r.plan.String())

	summary, runErr := fn(log)

	if r.metrics != nil {
		r.metrics.JobDuration.WithLabelValues(event).Observe(time.Since(start).Seconds())
	}

	if run != nil {
		// The job context may be cancelled; the outcome is still stored.
		if err := r.runs.Finish(context.WithoutCancel(ctx), run, summary, runErr); err != nil {
			log.Warnw("Failed to record job finish", "error", err)
		}
	}

	if runErr != nil {
		log.Errorw("Job failed", "error", runErr, "duration_ms", time.Since(start).Milliseconds())
	} else {
		log.Infow("Job completed", "summary", summary, "duration_ms", time.Since(start).Milliseconds())
	}
	return runID, runErr
}
