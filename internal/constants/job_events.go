package constants

// Job event types for the import_runs table
const (
	JobEventImportFlights     = "IMPORT_FLIGHTS"
	JobEventUpdateFlights     = "UPDATE_FLIGHTS"
	JobEventPopulateTracks    = "POPULATE_TRACKS"
	JobEventLoadAircraftTypes = "LOAD_AIRCRAFT_TYPES"
)

// Job run states
const (
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)
