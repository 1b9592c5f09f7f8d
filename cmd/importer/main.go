// Command importer runs one import job from the command line, or repeats it
// on an interval with -every.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"planes-utils/flightnoise/internal/api"
	"planes-utils/flightnoise/internal/common"
	"planes-utils/flightnoise/internal/config"
	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db"
	"planes-utils/flightnoise/internal/logging"
)

const usage = `usage: importer -mode <flights|update|tracks|icao8643|airports|usage> [flags]

  flights   import flight summaries for -airports between -start and -end
  update    refresh incomplete flights between -start and -end
  tracks    fetch tracks for flights without one (optional -start/-end)
  icao8643  load ICAO Doc 8643 JSON files from -dir
  airports  load the airport dataset from -url
  usage     print FR24 credit usage for -period
`

type options struct {
	mode     string
	start    string
	end      string
	airports string
	dir      string
	url      string
	period   string
	every    time.Duration
}

func main() {
	log.SetOutput(os.Stdout)

	var opts options
	configPath := flag.String("config", os.Getenv("FLIGHTNOISE_CONFIG"), "path to YAML config file")
	flag.StringVar(&opts.mode, "mode", "", "job to run")
	flag.StringVar(&opts.start, "start", "", "window start (RFC 3339)")
	flag.StringVar(&opts.end, "end", "", "window end (RFC 3339)")
	flag.StringVar(&opts.airports, "airports", "", "comma-separated IATA/ICAO codes, defaults to config")
	flag.StringVar(&opts.dir, "dir", "", "ICAO 8643 directory, defaults to config")
	flag.StringVar(&opts.url, "url", common.DefaultAirportsURL, "airport dataset URL")
	flag.StringVar(&opts.period, "period", string(constants.UsagePeriod24h), "usage period (24h, 7d, 30d, 1y)")
	flag.DurationVar(&opts.every, "every", 0, "repeat the scheduled flight and track import on this interval")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if opts.mode == "" && opts.every == 0 {
		flag.Usage()
		os.Exit(2)
	}

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

	orm, err := db.InitORM(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logging.Fatal("Failed to open database (GORM)", "error", err.Error())
	}
	sdb, err := db.InitSQLX(orm, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logging.Fatal("Failed to open database (sqlx)", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache := common.NewCache(ctx, cfg.Redis, cfg.Noise.CategoryCacheTTL)
	deps, err := api.InitDependencies(cfg, orm, sdb, cache, nil)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	if opts.every > 0 {
		logging.Info("Running scheduled imports", "every", opts.every.String())
		deps.Jobs.StartScheduled(ctx, opts.every)
		<-ctx.Done()
		return
	}

	result, err := run(ctx, deps, opts)
	if err != nil {
		logging.Fatal("Import failed", "mode", opts.mode, "error", err.Error())
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(result)
}

func run(ctx context.Context, deps *api.Dependencies, opts options) (interface{}, error) {
	switch opts.mode {
	case "flights", "update":
		start, end, err := parseWindow(opts.start, opts.end, true)
		if err != nil {
			return nil, err
		}
		if opts.mode == "update" {
			return deps.Jobs.Flights.UpdateFlights(ctx, *start, *end)
		}
		airports := deps.Config.Import.Airports
		if opts.airports != "" {
			airports = common.NormalizeCodes(strings.Split(opts.airports, ","))
		}
		return deps.Jobs.Flights.ImportFlights(ctx, airports, *start, *end)

	case "tracks":
		start, end, err := parseWindow(opts.start, opts.end, false)
		if err != nil {
			return nil, err
		}
		topts := deps.Jobs.Tracks.Defaults()
		topts.From, topts.To = start, end
		return deps.Jobs.Tracks.PopulateTracks(ctx, topts)

	case "icao8643":
		return deps.Jobs.AircraftTypes.Load(ctx, opts.dir)

	case "airports":
		n, err := deps.Services.AirportLoader.LoadFromURL(ctx, opts.url)
		if err != nil {
			return nil, err
		}
		total, err := deps.Repo.Airports.Count(ctx)
		return map[string]int64{"imported": int64(n), "total": total}, err

	case "usage":
		period, ok := constants.ParseUsagePeriod(opts.period)
		if !ok {
			return nil, fmt.Errorf("invalid usage period %q", opts.period)
		}
		resp, _, err := deps.Services.FR24.GetUsage(ctx, period)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"period": period, "total_credits": resp.TotalCredits(), "endpoints": resp.Data}, nil
	}
	return nil, fmt.Errorf("unknown mode %q", opts.mode)
}

// parseWindow parses RFC 3339 bounds. When required is false either bound
// may be empty.
func parseWindow(start, end string, required bool) (*time.Time, *time.Time, error) {
	if required && (start == "" || end == "") {
		return nil, nil, fmt.Errorf("-start and -end are required")
	}
	parse := func(name, v string) (*time.Time, error) {
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", name, err)
		}
		t = t.UTC()
		return &t, nil
	}
	s, err := parse("-start", start)
	if err != nil {
		return nil, nil, err
	}
	e, err := parse("-end", end)
	if err != nil {
		return nil, nil, err
	}
	return s, e, nil
}
