package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"planes-utils/flightnoise/internal/api"
	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/config"
	"planes-utils/flightnoise/internal/db"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/metrics"
	"planes-utils/flightnoise/internal/routes"
	"planes-utils/flightnoise/internal/workers"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", os.Getenv("FLIGHTNOISE_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.AppEnv, logging.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Flightnoise starting up",
		"environment", cfg.AppEnv,
		"database", cfg.Database.Driver,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	orm, err := db.InitORM(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logging.Fatal("Failed to open database (GORM)", "error", err.Error())
	}
	sdb, err := db.InitSQLX(orm, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logging.Fatal("Failed to open database (sqlx)", "error", err.Error())
	}
	logging.Info("Connected to database", "driver", cfg.Database.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)
	if err := db.RegisterMetrics(orm, metricsReg); err != nil {
		logging.Warn("Failed to register database metrics", "error", err)
	}

	cache := common.NewCache(ctx, cfg.Redis, cfg.Noise.CategoryCacheTTL)
	logging.Info("Cache ready", "backend", cache.Backend())

	deps, err := api.InitDependencies(cfg, orm, sdb, cache, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	var usage workers.UsageClient
	if cfg.FR24.APIToken != "" && cfg.FR24.UsageInterval > 0 {
		usage = deps.Services.FR24
	}
	workers.InitWorkers(ctx, deps.Repo.AircraftTypes, deps.Services.Categories, usage, metricsReg,
		cfg.Noise.CategoryCacheTTL, cfg.FR24.UsageInterval)

	if cfg.Import.Schedule {
		deps.Jobs.StartScheduled(ctx, cfg.Import.Interval)
	}

	upSince := time.Now()
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      routes.RegisterRoutes(deps, upSince, promhttp.Handler()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Server.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err.Error())
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
	if closer, ok := cache.(interface{ Close() error }); ok {
		closer.Close()
	}
}
