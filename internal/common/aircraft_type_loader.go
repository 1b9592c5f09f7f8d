package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	gormlib "gorm.io/gorm"

	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/models/gorm"
)

// AircraftTypeLoaderService imports ICAO Doc 8643 JSON exports into the
// icao_8643 table.
type AircraftTypeLoaderService struct {
	repo *repositories.AircraftTypeRepository
}

// LoadStats summarizes an import. Skipped counts duplicates of an already
// stored designator.
type LoadStats struct {
	Files     int `json:"files"`
	Processed int `json:"processed"`
	Inserted  int `json:"inserted"`
	Skipped   int `json:"skipped"`
	Total     int `json:"total"`
}

func NewAircraftTypeLoaderService(db *gormlib.DB) *AircraftTypeLoaderService {
	return &AircraftTypeLoaderService{
		repo: repositories.NewAircraftTypeRepository(db),
	}
}

// LoadFromJSON reads an array of raw ICAO records.
func (s *AircraftTypeLoaderService) LoadFromJSON(ctx context.Context, reader io.Reader) (LoadStats, error) {
	var stats LoadStats

	var raw []map[string]interface{}
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return stats, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for _, record := range raw {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rec := PrepareAircraftType(record)
		stats.Processed++

		inserted, err := s.repo.InsertIgnore(ctx, rec)
		if err != nil {
			return stats, fmt.Errorf("failed to insert %q: %w", rec.TDesig, err)
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Skipped++
		}
	}

	return stats, nil
}

// LoadFromDir imports every *.json and zstd-compressed *.json.zst file in
// dir. A file that fails to parse is logged and skipped.
func (s *AircraftTypeLoaderService) LoadFromDir(ctx context.Context, dir string) (LoadStats, error) {
	var stats LoadStats

	var files []string
	for _, pattern := range []string{"*.json", "*.json.zst"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return stats, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	if len(files) == 0 {
		logging.Warn("[AircraftTypeLoader] No JSON files found", "dir", dir)
		return stats, nil
	}

	for _, path := range files {
		fileStats, err := s.loadFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			logging.Warn("[AircraftTypeLoader] Skipping file", "file", path, "error", err)
			continue
		}

		stats.Files++
		stats.Processed += fileStats.Processed
		stats.Inserted += fileStats.Inserted
		stats.Skipped += fileStats.Skipped

		logging.Info("[AircraftTypeLoader] Processed file",
			"file", path,
			"inserted", fileStats.Inserted,
			"skipped", fileStats.Skipped,
		)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return stats, err
	}
	stats.Total = int(total)

	return stats, nil
}

func (s *AircraftTypeLoaderService) loadFile(ctx context.Context, path string) (LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadStats{}, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		return s.LoadFromJSON(ctx, f)
	}

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to open zstd stream: %w", err)
	}
	defer zr.Close()
	return s.LoadFromJSON(ctx, zr)
}

// PrepareAircraftType cleans one raw record. model_no and model_name fall
// back to each other; empty model_name, model_version and wtg become NULL,
// other empty text fields become "".
func PrepareAircraftType(record map[string]interface{}) *gorm.AircraftType {
	modelNo := rawString(record["model_no"])
	modelName := rawString(record["model_name"])
	if modelNo == "" {
		modelNo = modelName
	}
	if modelName == "" {
		modelName = modelNo
	}

	return &gorm.AircraftType{
		ManufacturerCode: rawString(record["manufacturer_code"]),
		ModelNo:          modelNo,
		ModelName:        nullable(modelName),
		ModelVersion:     nullable(rawString(record["model_version"])),
		EngineCount:      parseEngineCount(record["engine_count"]),
		EngineType:       rawString(record["engine_type"]),
		AircraftDesc:     rawString(record["aircraft_desc"]),
		Description:      rawString(record["description"]),
		WTC:              rawString(record["wtc"]),
		TDesig:           rawString(record["tdesig"]),
		WTG:              nullable(rawString(record["wtg"])),
	}
}

func rawString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseEngineCount truncates numbers and parses integer strings. Anything
// else is 0.
func parseEngineCount(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}
