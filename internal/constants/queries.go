package constants

// Track queries use sqlx named/bind-var rebinding, so they are written with
// '?' placeholders and rebound per driver.
const (
	SelectTrackByFlight = `
	SELECT lat, lon, alt, timestamp FROM tracks WHERE fr24_id = ? ORDER BY timestamp
	`

	CountTrackPointsByFlight = `
	SELECT COUNT(*) FROM tracks WHERE fr24_id = ?
	`

	InsertTrackPointSQLite = `
	INSERT OR IGNORE INTO tracks (fr24_id, timestamp, lat, lon, alt, gspeed, vspeed)
	VALUES (:fr24_id, :timestamp, :lat, :lon, :alt, :gspeed, :vspeed)
	`

	InsertTrackPointPostgres = `
	INSERT INTO tracks (fr24_id, timestamp, lat, lon, alt, gspeed, vspeed)
	VALUES (:fr24_id, :timestamp, :lat, :lon, :alt, :gspeed, :vspeed)
	ON CONFLICT (fr24_id, timestamp) DO NOTHING
	`
)
