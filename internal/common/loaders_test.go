package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planes-utils/flightnoise/internal/db/dbtest"
	"planes-utils/flightnoise/internal/db/repositories"
)

const icaoFileA = `[
  {"manufacturer_code":"AIRBUS","model_no":"A-320","model_name":"A320","engine_count":"2","engine_type":"Jet","aircraft_desc":"LandPlane","description":"L2J","wtc":"M","tdesig":"A320","wtg":"D"},
  {"manufacturer_code":"CESSNA","model_no":"","model_name":"Skyhawk","engine_count":1,"engine_type":"Piston","aircraft_desc":"LandPlane","description":"L1P","wtc":"L","tdesig":"C172","wtg":""},
  {"manufacturer_code":"ROBIN","model_no":"DR-400","model_name":null,"engine_count":"one","engine_type":"Piston","aircraft_desc":"LandPlane","description":"L1P","wtc":"L","tdesig":"DR40"}
]`

const icaoFileB = `[
  {"manufacturer_code":"AIRBUS","model_no":"A-320 dup","engine_count":2,"engine_type":"Jet","wtc":"M","tdesig":"A320"},
  {"manufacturer_code":"BOEING","model_no":"747-8","model_name":"747-8","engine_count":4,"engine_type":"Jet","wtc":"H","tdesig":"B748","wtg":"E"}
]`

func TestPrepareAircraftType(t *testing.T) {
	rec := PrepareAircraftType(map[string]interface{}{
		"manufacturer_code": "ROBIN",
		"model_no":          "DR-400",
		"model_name":        nil,
		"engine_count":      "x",
		"tdesig":            "DR40",
		"wtg":               "",
	})

	assert.Equal(t, "DR-400", rec.ModelNo)
	require.NotNil(t, rec.ModelName)
	assert.Equal(t, "DR-400", *rec.ModelName)
	assert.Nil(t, rec.ModelVersion)
	assert.Nil(t, rec.WTG)
	assert.Equal(t, 0, rec.EngineCount)
	assert.Equal(t, "", rec.EngineType)

	rec = PrepareAircraftType(map[string]interface{}{"model_name": "Skyhawk", "engine_count": 1.0})
	assert.Equal(t, "Skyhawk", rec.ModelNo)
	assert.Equal(t, 1, rec.EngineCount)
}

func TestAircraftTypeLoaderLoadFromDir(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	loader := NewAircraftTypeLoaderService(gdb)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(icaoFileA), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(icaoFileB), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`[{`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o600))

	stats, err := loader.LoadFromDir(ctx, dir)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 5, stats.Processed)
	assert.Equal(t, 4, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 4, stats.Total)

	repo := repositories.NewAircraftTypeRepository(gdb)
	a320, err := repo.GetRecord(ctx, "a320")
	require.NoError(t, err)
	require.NotNil(t, a320)
	assert.Equal(t, "A-320", a320.ModelNo, "first file wins on duplicate designators")
	assert.Equal(t, 2, a320.EngineCount)

	again, err := loader.LoadFromDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Inserted)
	assert.Equal(t, 5, again.Skipped)
}

func TestAircraftTypeLoaderEmptyDir(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	stats, err := NewAircraftTypeLoaderService(gdb).LoadFromDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, stats.Files)
}

const airportsJSON = `{
  "LSZH": {"icao":"LSZH","iata":"ZRH","name":"Zurich Airport","city":"Zurich","country":"CH","elevation":1416,"lat":47.4647,"lon":8.5492,"tz":"Europe/Zurich"},
  "LSGG": {"icao":"lsgg","iata":"gva","name":"Geneva Airport","city":"Geneva","country":"CH","elevation":1411,"lat":46.2381,"lon":6.1089,"tz":"Europe/Zurich"},
  "XXXX": {"icao":"","name":"nameless"}
}`

func TestAirportLoaderAndResolveFilter(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	loader := NewAirportLoaderService(gdb)
	ctx := context.Background()

	n, err := loader.LoadFromJSON(ctx, strings.NewReader(airportsJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// reloading replaces rather than duplicates
	n, err = loader.LoadFromJSON(ctx, strings.NewReader(airportsJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	byIATA := &repositories.AirportFilter{IATA: "GVA"}
	require.NoError(t, loader.ResolveFilter(ctx, byIATA))
	assert.Equal(t, "LSGG", byIATA.ICAO)

	byICAO := &repositories.AirportFilter{ICAO: "LSZH", Runways: []string{"28"}}
	require.NoError(t, loader.ResolveFilter(ctx, byICAO))
	assert.Equal(t, "ZRH", byICAO.IATA)
	assert.Equal(t, []string{"28"}, byICAO.Runways)

	unknown := &repositories.AirportFilter{IATA: "QQQ"}
	require.NoError(t, loader.ResolveFilter(ctx, unknown))
	assert.Empty(t, unknown.ICAO)

	require.NoError(t, loader.ResolveFilter(ctx, nil))
}

func TestAirportLoaderLoadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(airportsJSON))
	}))
	defer server.Close()

	gdb, _ := dbtest.Open(t)
	loader := NewAirportLoaderService(gdb)

	n, err := loader.LoadFromURL(context.Background(), server.URL+"/airports.json")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = loader.LoadFromURL(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}

func TestAirportLoaderRejectsEmpty(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	_, err := NewAirportLoaderService(gdb).LoadFromJSON(context.Background(), strings.NewReader(`{}`))
	assert.Error(t, err)
}

func TestAircraftTypeLoaderReadsZstdFiles(t *testing.T) {
	gdb, _ := dbtest.Open(t)
	loader := NewAircraftTypeLoaderService(gdb)
	ctx := context.Background()

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte(`[
		{"manufacturer_code":"CESSNA","model_no":"172","engine_count":"1","engine_type":"Piston","aircraft_desc":"LandPlane","wtc":"L","tdesig":"C172"}
	]`), nil)
	require.NoError(t, enc.Close())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ga.json.zst"), compressed, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json.zst"), []byte("not zstd"), 0o600))

	stats, err := loader.LoadFromDir(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Files)
	assert.Equal(t, 1, stats.Inserted)

	rec, err := repositories.NewAircraftTypeRepository(gdb).GetRecord(ctx, "C172")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.EngineCount)
}
