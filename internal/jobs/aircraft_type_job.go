package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/metrics"
)

// CategoryWarmer refreshes cached aircraft categories after a load.
type CategoryWarmer interface {
	Warm(ctx context.Context, designators []string) (int, error)
}

// AircraftTypeJob loads ICAO Doc 8643 files from a directory.
type AircraftTypeJob struct {
	loader   *common.AircraftTypeLoaderService
	types    *repositories.AircraftTypeRepository
	warmer   CategoryWarmer
	recorder recorder
	dir      string
}

func NewAircraftTypeJob(
	loader *common.AircraftTypeLoaderService,
	types *repositories.AircraftTypeRepository,
	runs *repositories.ImportRunRepo,
	warmer CategoryWarmer,
	metricsReg *metrics.MetricsRegistry,
	dir string,
) *AircraftTypeJob {
	return &AircraftTypeJob{
		loader:   loader,
		types:    types,
		warmer:   warmer,
		recorder: recorder{runs: runs, metrics: metricsReg},
		dir:      dir,
	}
}

// Load imports every JSON file in dir, or the configured directory when
// dir is empty.
func (j *AircraftTypeJob) Load(ctx context.Context, dir string) (*common.LoadStats, error) {
	if dir == "" {
		dir = j.dir
	}
	if dir == "" {
		return nil, fmt.Errorf("no aircraft types directory configured")
	}

	stats := &common.LoadStats{}
	_, err := j.recorder.record(ctx, constants.JobEventLoadAircraftTypes, func(log *zap.SugaredLogger) (interface{}, error) {
		s, err := j.loader.LoadFromDir(ctx, dir)
		*stats = s
		if err != nil || j.warmer == nil || s.Inserted == 0 {
			return stats, err
		}

		designators, err := j.types.ListDesignators(ctx)
		if err != nil {
			return stats, err
		}
		resolved, err := j.warmer.Warm(ctx, designators)
		log.Infow("[AircraftTypeJob] Warmed category cache", "resolved", resolved)
		return stats, err
	})
	return stats, err
}
