package gorm

// TrackPoint is one recorded FR24 position. Altitude is in feet, speeds in
// knots and feet per minute.
type TrackPoint struct {
	FR24ID    string  `gorm:"column:fr24_id;primaryKey;type:varchar(32)" db:"fr24_id"`
	Timestamp string  `gorm:"column:timestamp;primaryKey;type:varchar(32)" db:"timestamp"`
	Lat       float64 `gorm:"column:lat" db:"lat"`
	Lon       float64 `gorm:"column:lon" db:"lon"`
	Alt       float64 `gorm:"column:alt" db:"alt"`
	GSpeed    float64 `gorm:"column:gspeed" db:"gspeed"`
	VSpeed    float64 `gorm:"column:vspeed" db:"vspeed"`
}

// TableName specifies the table name for GORM
func (TrackPoint) TableName() string {
	return "tracks"
}
