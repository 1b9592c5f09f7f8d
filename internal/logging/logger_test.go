package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flightnoise.log")
	require.NoError(t, Init("production", FileOptions{Path: path, MaxSizeMB: 1}))
	t.Cleanup(func() { globalLogger = nil })

	WithJob("IMPORT_FLIGHTS", "run-1").Infow("[FlightImportJob] Window done", "inserted", 3)
	_ = Close() // stdout sync may fail on pipes

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"job":"IMPORT_FLIGHTS"`)
	assert.Contains(t, string(data), `"service":"flightnoise"`)
	assert.Contains(t, string(data), `"inserted":3`)
}

func TestGetLoggerWithoutInit(t *testing.T) {
	globalLogger = nil
	assert.NotNil(t, GetLogger())
}
