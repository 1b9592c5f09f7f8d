package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlib "gorm.io/gorm"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/db/dbtest"
	"planes-utils/flightnoise/internal/models/gorm"
)

func setupTestDB(t *testing.T) (*gormlib.DB, *sqlx.DB) {
	return dbtest.Open(t)
}

func strPtr(s string) *string { return &s }

func testFlight(id, firstSeen string) gorm.Flight {
	return gorm.Flight{
		FR24ID:         id,
		FirstSeen:      firstSeen,
		Type:           strPtr("A320"),
		OrigIATA:       strPtr("ZRH"),
		OrigICAO:       strPtr("LSZH"),
		DestIATA:       strPtr("LHR"),
		DestICAO:       strPtr("EGLL"),
		RunwayTakeoff:  strPtr("28"),
		LastUpdated:    "2025-08-11T00:00:00Z",
		RequiresUpdate: false,
	}
}

func TestFlightRepository_InsertIgnoreAndFind(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewFlightRepository(gdb)
	ctx := context.Background()

	inserted, ignored, err := repo.InsertIgnore(ctx, []gorm.Flight{
		testFlight("3b1f0a2c", "2025-08-10T10:00:00Z"),
		testFlight("3b1f0a2d", "2025-08-10T11:00:00Z"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Empty(t, ignored)

	inserted, ignored, err = repo.InsertIgnore(ctx, []gorm.Flight{
		testFlight("3b1f0a2c", "2025-08-10T10:00:00Z"),
		testFlight("3b1f0a2e", "2025-08-10T12:00:00Z"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, []string{"3b1f0a2c"}, ignored)

	f, err := repo.FindByID(ctx, "3b1f0a2d")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "2025-08-10T11:00:00Z", f.FirstSeen)

	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	typ, err := repo.GetAircraftType(ctx, "3b1f0a2d")
	require.NoError(t, err)
	assert.Equal(t, "A320", typ)

	typ, err = repo.GetAircraftType(ctx, "nope")
	require.NoError(t, err)
	assert.Equal(t, "", typ)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestFlightRepository_FirstSeenRange(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewFlightRepository(gdb)
	ctx := context.Background()

	earliest, latest, err := repo.GetFirstSeenRange(ctx, []string{"ZRH"})
	require.NoError(t, err)
	assert.Nil(t, earliest)
	assert.Nil(t, latest)

	other := testFlight("c0ffee01", "2025-07-01T00:00:00Z")
	other.OrigIATA, other.OrigICAO = strPtr("GVA"), strPtr("LSGG")
	other.DestIATA, other.DestICAO = strPtr("CDG"), strPtr("LFPG")

	_, _, err = repo.InsertIgnore(ctx, []gorm.Flight{
		testFlight("3b1f0a2c", "2025-08-10T10:00:00Z"),
		testFlight("3b1f0a2d", "2025-08-12T06:30:00Z"),
		other,
	})
	require.NoError(t, err)

	earliest, latest, err = repo.GetFirstSeenRange(ctx, []string{"ZRH"})
	require.NoError(t, err)
	require.NotNil(t, earliest)
	require.NotNil(t, latest)
	assert.Equal(t, time.Date(2025, 8, 10, 10, 0, 0, 0, time.UTC), *earliest)
	assert.Equal(t, time.Date(2025, 8, 12, 6, 30, 0, 0, time.UTC), *latest)

	// Destination ICAO matches too.
	earliest, _, err = repo.GetFirstSeenRange(ctx, []string{"LFPG"})
	require.NoError(t, err)
	require.NotNil(t, earliest)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *earliest)
}

func TestFlightRepository_UpdateFlow(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewFlightRepository(gdb)
	ctx := context.Background()

	pending := testFlight("3b1f0a2c", "2025-08-10T10:00:00Z")
	pending.RequiresUpdate = true
	outside := testFlight("3b1f0a2d", "2025-08-11T10:00:00Z")
	outside.RequiresUpdate = true
	_, _, err := repo.InsertIgnore(ctx, []gorm.Flight{pending, outside, testFlight("3b1f0a2e", "2025-08-10T11:00:00Z")})
	require.NoError(t, err)

	ids, err := repo.ListRequiringUpdate(ctx,
		time.Date(2025, 8, 10, 6, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 10, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{"3b1f0a2c"}, ids)

	pending.DatetimeTakeoff = strPtr("2025-08-10T10:05:00Z")
	pending.DatetimeLanded = strPtr("2025-08-10T11:20:00Z")
	n, err := repo.ApplyUpdate(ctx, &pending, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	f, err := repo.FindByID(ctx, "3b1f0a2c")
	require.NoError(t, err)
	assert.False(t, f.RequiresUpdate)
	assert.True(t, f.HasTakeoffAndLanding())

	n, err = repo.ApplyUpdate(ctx, &gorm.Flight{FR24ID: "unknown"}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestFlightRepository_ListTrackCandidates(t *testing.T) {
	gdb, sdb := setupTestDB(t)
	repo := NewFlightRepository(gdb)
	tracks := NewTrackRepository(sdb)
	ctx := context.Background()

	tracked := testFlight("aa000001", "2025-08-10T08:00:00Z")
	incomplete := testFlight("aa000002", "2025-08-10T09:00:00Z")
	incomplete.RequiresUpdate = true
	wrongRunway := testFlight("aa000003", "2025-08-10T10:00:00Z")
	wrongRunway.RunwayTakeoff = strPtr("16")
	arrival := testFlight("aa000004", "2025-08-10T11:00:00Z")
	arrival.OrigIATA, arrival.OrigICAO = strPtr("LHR"), strPtr("EGLL")
	arrival.DestIATA, arrival.DestICAO = strPtr("ZRH"), strPtr("LSZH")
	arrival.RunwayTakeoff, arrival.RunwayLanded = strPtr("27L"), strPtr("14")
	departure := testFlight("aa000005", "2025-08-10T12:00:00Z")

	_, _, err := repo.InsertIgnore(ctx, []gorm.Flight{tracked, incomplete, wrongRunway, arrival, departure})
	require.NoError(t, err)
	_, err = tracks.InsertIgnore(ctx, []gorm.TrackPoint{{FR24ID: "aa000001", Timestamp: "2025-08-10T08:01:00Z"}})
	require.NoError(t, err)

	all, err := repo.ListTrackCandidates(ctx, TrackCandidateFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"aa000003", "aa000004", "aa000005"}, all)

	zrh := &AirportFilter{IATA: "ZRH", Runways: []string{"14", "28"}}
	filtered, err := repo.ListTrackCandidates(ctx, TrackCandidateFilter{Origin: zrh, Destination: zrh})
	require.NoError(t, err)
	assert.Equal(t, []string{"aa000004", "aa000005"}, filtered)

	from := time.Date(2025, 8, 10, 11, 30, 0, 0, time.UTC)
	windowed, err := repo.ListTrackCandidates(ctx, TrackCandidateFilter{Origin: zrh, Destination: zrh, From: &from})
	require.NoError(t, err)
	assert.Equal(t, []string{"aa000005"}, windowed)
}

func TestTrackRepository_InsertIgnoreAndGetTrack(t *testing.T) {
	_, sdb := setupTestDB(t)
	repo := NewTrackRepository(sdb)
	ctx := context.Background()

	points := []gorm.TrackPoint{
		{FR24ID: "3b1f0a2c", Timestamp: "2025-08-10T10:02:00Z", Lat: 47.46, Lon: 8.56, Alt: 1500, GSpeed: 150},
		{FR24ID: "3b1f0a2c", Timestamp: "2025-08-10T10:00:00Z", Lat: 47.44, Lon: 8.54, Alt: 500, GSpeed: 140},
		{FR24ID: "3b1f0a2c", Timestamp: "2025-08-10T10:01:00Z", Lat: 47.45, Lon: 8.55, Alt: 1000, GSpeed: 145},
	}

	n, err := repo.InsertIgnore(ctx, points)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	// Same (fr24_id, timestamp) again is ignored.
	n, err = repo.InsertIgnore(ctx, points[:2])
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	track, err := repo.GetTrack(ctx, "3b1f0a2c")
	require.NoError(t, err)
	require.Len(t, track, 3)
	assert.Equal(t, "2025-08-10T10:00:00Z", track[0].Timestamp)
	assert.Equal(t, 500.0, track[0].Altitude)
	assert.Equal(t, "2025-08-10T10:02:00Z", track[2].Timestamp)

	count, err := repo.CountByFlight(ctx, "3b1f0a2c")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	empty, err := repo.GetTrack(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)

	n, err = repo.InsertIgnore(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestAircraftTypeRepository(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewAircraftTypeRepository(gdb)
	ctx := context.Background()

	ok, err := repo.InsertIgnore(ctx, &gorm.AircraftType{
		ManufacturerCode: "BOEING", ModelNo: "777-300ER", ModelName: strPtr("777-300ER"),
		EngineCount: 2, EngineType: "Jet", AircraftDesc: "LandPlane", Description: "L2J",
		WTC: "H", TDesig: "B77W",
	})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.InsertIgnore(ctx, &gorm.AircraftType{
		ManufacturerCode: "OTHER", ModelNo: "X", EngineType: "J", AircraftDesc: "L", Description: "L2J",
		WTC: "M", TDesig: "B77W",
	})
	require.NoError(t, err)
	assert.False(t, ok)

	cat, err := repo.FindByDesignator(ctx, "b77w")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, "B77W", cat.TypeDesignator)
	assert.Equal(t, "BOEING", cat.Manufacturer)
	assert.Equal(t, "777-300ER", cat.Model)
	assert.Equal(t, "H", cat.WakeCategory)
	assert.Equal(t, "J", cat.EngineType)

	cat, err = repo.FindByDesignator(ctx, "ZZZZ")
	require.NoError(t, err)
	assert.Nil(t, cat)

	cat, err = repo.FindByDesignator(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, cat)

	designators, err := repo.ListDesignators(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"B77W"}, designators)
}

func TestCategoryFromRecordUsesModelNo(t *testing.T) {
	cat := CategoryFromRecord(&gorm.AircraftType{
		ManufacturerCode: "CESSNA", ModelNo: "172", ModelName: strPtr("Skyhawk"),
		EngineType: "Piston", WTC: "l", TDesig: "C172",
	})
	assert.Equal(t, "172", cat.Model)
	assert.Equal(t, "L", cat.WakeCategory)
	assert.Equal(t, "P", cat.EngineType)

	cat = CategoryFromRecord(&gorm.AircraftType{EngineType: "Turboprop/Turboshaft", TDesig: "AT76"})
	assert.Equal(t, "T", cat.EngineType)
}

func TestAirportRepository_FindByCode(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewAirportRepository(gdb)
	ctx := context.Background()

	require.NoError(t, repo.Replace(ctx, []gorm.Airport{
		{ICAO: "LSZH", IATA: "ZRH", Name: "Zurich Airport", Latitude: 47.4647, Longitude: 8.5492},
	}))

	a, err := repo.FindByCode(ctx, "zrh")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "LSZH", a.ICAO)

	a, err = repo.FindByCode(ctx, "LSZH")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "ZRH", a.IATA)

	a, err = repo.FindByCode(ctx, "XXX")
	require.NoError(t, err)
	assert.Nil(t, a)

	require.NoError(t, repo.Replace(ctx, nil))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestImportRunRepo(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewImportRunRepo(gdb)
	ctx := context.Background()

	last, err := repo.LastRun(ctx, constants.JobEventPopulateTracks)
	require.NoError(t, err)
	assert.Nil(t, last)

	run, err := repo.Start(ctx, constants.JobEventPopulateTracks, constants.PlanEssential)
	require.NoError(t, err)
	assert.Len(t, run.ID, 36)
	assert.Equal(t, constants.JobStatusRunning, run.Status)

	require.NoError(t, repo.Finish(ctx, run, map[string]int{"flights_processed": 2}, nil))

	last, err = repo.LastRun(ctx, constants.JobEventPopulateTracks)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, constants.JobStatusSucceeded, last.Status)
	assert.Equal(t, constants.PlanEssential, last.Plan)
	assert.JSONEq(t, `{"flights_processed":2}`, last.Summary)

	when, err := repo.LastSuccessTime(ctx, constants.JobEventPopulateTracks)
	require.NoError(t, err)
	require.NotNil(t, when)

	failed, err := repo.Start(ctx, constants.JobEventImportFlights, constants.PlanNone)
	require.NoError(t, err)
	require.NoError(t, repo.Finish(ctx, failed, nil, errors.New("boom")))

	last, err = repo.LastRun(ctx, constants.JobEventImportFlights)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, last.Status)
	require.NotNil(t, last.Error)
	assert.Equal(t, "boom", *last.Error)

	when, err = repo.LastSuccessTime(ctx, constants.JobEventImportFlights)
	require.NoError(t, err)
	assert.Nil(t, when)
}
