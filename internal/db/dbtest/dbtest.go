// Package dbtest opens migrated in-memory SQLite stores for tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"planes-utils/flightnoise/internal/db"
)

// Open returns a GORM handle and an sqlx handle over the same in-memory
// database. Both are closed when the test ends.
func Open(t testing.TB) (*gormlib.DB, *sqlx.DB) {
	t.Helper()

	gdb, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// One connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { sqlDB.Close() })

	return gdb, sqlx.NewDb(sqlDB, "sqlite3")
}
