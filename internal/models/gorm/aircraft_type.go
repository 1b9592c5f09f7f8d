package gorm

// AircraftType is an ICAO Doc 8643 aircraft type designator record.
type AircraftType struct {
	ID               uint    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	ManufacturerCode string  `gorm:"column:manufacturer_code;type:text;not null" json:"manufacturer_code"`
	ModelNo          string  `gorm:"column:model_no;type:text;not null" json:"model_no"`
	ModelName        *string `gorm:"column:model_name;type:text" json:"model_name,omitempty"`
	ModelVersion     *string `gorm:"column:model_version;type:text" json:"model_version,omitempty"`
	EngineCount      int     `gorm:"column:engine_count;not null" json:"engine_count"`
	EngineType       string  `gorm:"column:engine_type;type:text;not null" json:"engine_type"`
	AircraftDesc     string  `gorm:"column:aircraft_desc;type:text;not null" json:"aircraft_desc"`
	Description      string  `gorm:"column:description;type:text;not null" json:"description"`
	WTC              string  `gorm:"column:wtc;type:varchar(8);not null" json:"wtc"`
	TDesig           string  `gorm:"column:tdesig;type:varchar(8);not null;uniqueIndex:idx_icao_8643_unique" json:"tdesig"`
	WTG              *string `gorm:"column:wtg;type:varchar(8)" json:"wtg,omitempty"`
}

// TableName specifies the table name for GORM
func (AircraftType) TableName() string {
	return "icao_8643"
}
