package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var DB *sqlx.DB

// InitSQLX returns the sqlx handle used for raw bulk SQL. Postgres gets its
// own lib/pq pool; SQLite reuses the GORM pool so writers stay serialized on
// one handle.
func InitSQLX(orm *gorm.DB, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case "postgres":
		var err error
		for i := 0; i < 10; i++ {
			DB, err = sqlx.Connect("postgres", dsn)
			if err == nil {
				return DB, nil
			}
			time.Sleep(500 * time.Millisecond)
		}
		return nil, fmt.Errorf("failed to connect to postgres (sqlx): %w", err)
	case "sqlite":
		sqlDB, err := orm.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
		}
		DB = sqlx.NewDb(sqlDB, "sqlite3")
		return DB, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}
