package gorm

// All returns every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Flight{},
		&TrackPoint{},
		&AircraftType{},
		&Airport{},
		&ImportRun{},
	}
}
