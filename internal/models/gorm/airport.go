package gorm

import (
	"database/sql"
	"time"
)

// Airport maps between ICAO and IATA codes for flight filters
type Airport struct {
	ID        uint          `gorm:"column:id;primaryKey;autoIncrement"`
	ICAO      string        `gorm:"column:icao;type:varchar(4);not null;uniqueIndex"`
	IATA      string        `gorm:"column:iata;type:varchar(3);index"`
	Name      string        `gorm:"column:name;type:text;not null"`
	City      string        `gorm:"column:city;type:varchar(100)"`
	Country   string        `gorm:"column:country;type:varchar(100)"`
	Elevation sql.NullInt64 `gorm:"column:elevation"`
	Latitude  float64       `gorm:"column:latitude;not null"`
	Longitude float64       `gorm:"column:longitude;not null"`
	Timezone  string        `gorm:"column:timezone;type:varchar(50)"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Airport) TableName() string {
	return "airports"
}
