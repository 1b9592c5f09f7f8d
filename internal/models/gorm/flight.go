package gorm

// Flight is an FR24 flight summary. Timestamps are kept as the ISO 8601
// strings FR24 returns so range filters compare lexicographically.
type Flight struct {
	FR24ID          string   `gorm:"column:fr24_id;primaryKey;type:varchar(32)" json:"fr24_id"`
	Hex             *string  `gorm:"column:hex;type:varchar(16)" json:"hex,omitempty"`
	FirstSeen       string   `gorm:"column:first_seen;type:varchar(32);index" json:"first_seen"`
	LastSeen        *string  `gorm:"column:last_seen;type:varchar(32)" json:"last_seen,omitempty"`
	Callsign        *string  `gorm:"column:flight;type:varchar(16)" json:"flight,omitempty"`
	Type            *string  `gorm:"column:type;type:varchar(8);index" json:"type,omitempty"`
	OperatingAs     *string  `gorm:"column:operating_as;type:varchar(8)" json:"operating_as,omitempty"`
	OrigICAO        *string  `gorm:"column:orig_icao;type:varchar(4)" json:"orig_icao,omitempty"`
	OrigIATA        *string  `gorm:"column:orig_iata;type:varchar(3)" json:"orig_iata,omitempty"`
	DatetimeTakeoff *string  `gorm:"column:datetime_takeoff;type:varchar(32)" json:"datetime_takeoff,omitempty"`
	RunwayTakeoff   *string  `gorm:"column:runway_takeoff;type:varchar(8)" json:"runway_takeoff,omitempty"`
	DestICAO        *string  `gorm:"column:dest_icao;type:varchar(4)" json:"dest_icao,omitempty"`
	DestIATA        *string  `gorm:"column:dest_iata;type:varchar(3)" json:"dest_iata,omitempty"`
	DatetimeLanded  *string  `gorm:"column:datetime_landed;type:varchar(32)" json:"datetime_landed,omitempty"`
	RunwayLanded    *string  `gorm:"column:runway_landed;type:varchar(8)" json:"runway_landed,omitempty"`
	FlightTime      *float64 `gorm:"column:flight_time" json:"flight_time,omitempty"`
	ActualDistance  *float64 `gorm:"column:actual_distance" json:"actual_distance,omitempty"`
	LastUpdated     string   `gorm:"column:last_updated;type:varchar(40)" json:"last_updated"`
	RequiresUpdate  bool     `gorm:"column:requires_update;not null;index" json:"requires_update"`
}

// TableName specifies the table name for GORM
func (Flight) TableName() string {
	return "flights"
}

// HasTakeoffAndLanding reports whether both movement timestamps are known.
func (f *Flight) HasTakeoffAndLanding() bool {
	return f.DatetimeTakeoff != nil && f.DatetimeLanded != nil
}
