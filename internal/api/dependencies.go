package api

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/config"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/jobs"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/providers"
	"planes-utils/flightnoise/internal/services"
)

type Repositories struct {
	Flights       *repositories.FlightRepository
	Tracks        *repositories.TrackRepository
	AircraftTypes *repositories.AircraftTypeRepository
	Airports      *repositories.AirportRepository
	Runs          *repositories.ImportRunRepo
}

type Services struct {
	Cache          common.CacheInterface
	Noise          *services.NoiseService
	Categories     *services.CachedCategoryFeed
	Signer         *common.TokenSignerService
	AircraftLoader *common.AircraftTypeLoaderService
	AirportLoader  *common.AirportLoaderService
	FR24           *providers.FR24Provider
}

type Dependencies struct {
	Config   *config.Config
	DB       *sqlx.DB
	Repo     *Repositories
	Services *Services
	Jobs     *jobs.Jobs
	Metrics  *metrics.MetricsRegistry
}

// InitDependencies wires repositories, services and jobs over the given
// stores. metricsReg may be nil.
func InitDependencies(
	cfg *config.Config,
	orm *gorm.DB,
	sdb *sqlx.DB,
	cache common.CacheInterface,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	plan, err := constants.ParseSubscriptionPlan(cfg.FR24.Plan)
	if err != nil {
		return nil, fmt.Errorf("invalid fr24 plan: %w", err)
	}

	repos := &Repositories{
		Flights:       repositories.NewFlightRepository(orm),
		Tracks:        repositories.NewTrackRepository(sdb),
		AircraftTypes: repositories.NewAircraftTypeRepository(orm),
		Airports:      repositories.NewAirportRepository(orm),
		Runs:          repositories.NewImportRunRepo(orm),
	}

	fr24 := providers.NewFR24Provider(cfg.FR24.BaseURL, cfg.FR24.APIToken, plan, cfg.FR24.Timeout)
	fr24.Metrics = metricsReg

	categories := services.NewCachedCategoryFeed(repos.AircraftTypes, cache, cfg.Noise.CategoryCacheTTL)
	categories.Metrics = metricsReg

	noiseSvc := services.NewNoiseService(repos.Tracks, repos.Flights, categories,
		cfg.Noise.InterpolationSteps, cfg.Noise.Workers)
	noiseSvc.Metrics = metricsReg

	svcs := &Services{
		Cache:          cache,
		Noise:          noiseSvc,
		Categories:     categories,
		Signer:         common.NewTokenSignerService([]byte(cfg.Auth.JWTSecret), cache),
		AircraftLoader: common.NewAircraftTypeLoaderService(orm),
		AirportLoader:  common.NewAirportLoaderService(orm),
		FR24:           fr24,
	}

	importJobs := &jobs.Jobs{
		Flights: jobs.NewFlightImportJob(repos.Flights, repos.Runs, fr24, plan, metricsReg,
			cfg.Import.WindowHours, cfg.Import.Airports, cfg.Import.Lookback),
		Tracks: jobs.NewTrackImportJob(repos.Flights, repos.Tracks, repos.Runs, fr24, svcs.AirportLoader,
			plan, metricsReg, jobs.TrackOptionsFromConfig(cfg.Import)),
		AircraftTypes: jobs.NewAircraftTypeJob(svcs.AircraftLoader, repos.AircraftTypes, repos.Runs,
			categories, metricsReg, cfg.Import.AircraftTypes),
	}

	return &Dependencies{
		Config:   cfg,
		DB:       sdb,
		Repo:     repos,
		Services: svcs,
		Jobs:     importJobs,
		Metrics:  metricsReg,
	}, nil
}
