package common

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	gormlib "gorm.io/gorm"

	"planes-utils/flightnoise/internal/db/repositories"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/models/gorm"
)

// DefaultAirportsURL is the mwgg/Airports dataset, keyed by ICAO code.
const DefaultAirportsURL = "https://raw.githubusercontent.com/mwgg/Airports/refs/heads/master/airports.json"

// AirportLoaderService loads the ICAO/IATA airport table used to complete
// origin and destination filters.
type AirportLoaderService struct {
	repo   *repositories.AirportRepository
	client *http.Client
}

// RawAirportData represents the structure of airport data from JSON
type RawAirportData struct {
	ICAO      string  `json:"icao"`
	IATA      string  `json:"iata"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Country   string  `json:"country"`
	Elevation int     `json:"elevation"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TZ        string  `json:"tz"`
}

func NewAirportLoaderService(db *gormlib.DB) *AirportLoaderService {
	return &AirportLoaderService{
		repo:   repositories.NewAirportRepository(db),
		client: http.DefaultClient,
	}
}

// LoadFromJSON replaces the airports table with the records in reader.
// Expected format: {"LSZH": {"icao": "LSZH", "iata": "ZRH", ...}}
func (s *AirportLoaderService) LoadFromJSON(ctx context.Context, reader io.Reader) (int, error) {
	var rawData map[string]RawAirportData
	if err := json.NewDecoder(reader).Decode(&rawData); err != nil {
		return 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	if len(rawData) == 0 {
		return 0, fmt.Errorf("no airport data found in JSON")
	}

	airports := make([]gorm.Airport, 0, len(rawData))
	for _, raw := range rawData {
		timezone := raw.TZ
		if timezone == "" {
			timezone = raw.State
		}

		var elevation sql.NullInt64
		if raw.Elevation != 0 {
			elevation = sql.NullInt64{Int64: int64(raw.Elevation), Valid: true}
		}

		airport := gorm.Airport{
			ICAO:      strings.ToUpper(strings.TrimSpace(raw.ICAO)),
			IATA:      strings.ToUpper(strings.TrimSpace(raw.IATA)),
			Name:      strings.TrimSpace(raw.Name),
			City:      strings.TrimSpace(raw.City),
			Country:   strings.TrimSpace(raw.Country),
			Elevation: elevation,
			Latitude:  raw.Lat,
			Longitude: raw.Lon,
			Timezone:  timezone,
		}

		if airport.ICAO == "" || airport.Name == "" {
			continue
		}

		airports = append(airports, airport)
	}

	if len(airports) == 0 {
		return 0, fmt.Errorf("no valid airports found after parsing")
	}

	if err := s.repo.Replace(ctx, airports); err != nil {
		return 0, err
	}

	logging.Info("[AirportLoader] Imported airports", "count", len(airports))
	return len(airports), nil
}

// LoadFromURL downloads and imports an airport dataset.
func (s *AirportLoaderService) LoadFromURL(ctx context.Context, url string) (int, error) {
	logging.Info("[AirportLoader] Fetching airports", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch airports: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("failed to fetch airports: HTTP %d", resp.StatusCode)
	}

	return s.LoadFromJSON(ctx, resp.Body)
}

// ResolveFilter fills the missing half of an ICAO/IATA pair from the
// airports table. Unknown codes are returned unchanged.
func (s *AirportLoaderService) ResolveFilter(ctx context.Context, f *repositories.AirportFilter) error {
	if f == nil || (f.ICAO != "" && f.IATA != "") {
		return nil
	}

	code := f.ICAO
	if code == "" {
		code = f.IATA
	}
	if code == "" {
		return nil
	}

	airport, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if airport == nil {
		return nil
	}

	if f.ICAO == "" {
		f.ICAO = airport.ICAO
	}
	if f.IATA == "" {
		f.IATA = airport.IATA
	}
	return nil
}
