package constants

const (
	MsgNoiseCalculated    = "Noise estimate calculated"
	MsgBatchCalculated    = "Batch noise estimates calculated"
	MsgDistanceCalculated = "Minimum distance calculated"
	MsgAircraftFound      = "Aircraft type found"
	MsgJobCompleted       = "Job completed"
	MsgJobStatus          = "Job status retrieved"
	MsgUsageRetrieved     = "FR24 usage retrieved"
)

const (
	MsgNoResult          = "No result: missing track, aircraft type or category for this flight"
	MsgAircraftNotFound  = "Aircraft type not found"
	MsgInvalidPOI        = "Invalid POI: latitude and longitude are required"
	MsgInvalidMetric     = "Invalid metric: expected 2d or 3d"
	MsgInvalidBody       = "Invalid request body"
	MsgEmptyFlightIDs    = "flight_ids cannot be empty"
	MsgInvalidTimeWindow = "Invalid time window: start and end must be RFC3339 and start before end"
	MsgInvalidPeriod     = "Invalid period: expected 24h, 7d, 30d or 1y"
)
