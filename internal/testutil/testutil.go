// Package testutil provides migrated databases and fixtures for storage tests.
package testutil

import (
	"os"
	"testing"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/database"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func Logger(tb testing.TB) *zap.Logger {
	tb.Helper()
	return zaptest.NewLogger(tb, zaptest.Level(zap.WarnLevel))
}

// DB returns a private, migrated in-memory sqlite database with foreign keys
// enforced. It is closed when the test ends.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"}
	return open(tb, cfg)
}

// PostgresDB returns a migrated PostgreSQL database taken from TEST_POSTGRES_DSN,
// emptied before and after the test. The test is skipped when the variable is unset.
func PostgresDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run postgres integration tests")
	}
	db := open(tb, config.DatabaseConfig{Driver: config.DriverPostgres, URL: dsn, MaxOpenConns: 4, MaxIdleConns: 4})
	truncate(tb, db)
	tb.Cleanup(func() { truncate(tb, db) })
	return db
}

func open(tb testing.TB, cfg config.DatabaseConfig) *gorm.DB {
	tb.Helper()
	log := Logger(tb)
	db, err := database.Connect(cfg, log)
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db, log); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func truncate(tb testing.TB, db *gorm.DB) {
	tb.Helper()
	err := db.Exec(`TRUNCATE prescription_items, prescriptions, medications, patients, audit_logs RESTART IDENTITY CASCADE`).Error
	if err != nil {
		tb.Fatalf("failed to truncate test db: %v", err)
	}
}
