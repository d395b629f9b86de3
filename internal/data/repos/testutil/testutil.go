// Package testutil provides database helpers for repo integration tests.
// Tests that need Postgres are skipped unless TEST_POSTGRES_DSN is set.
package testutil

import (
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wanderly/wanderly-backend/internal/data/db"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

// DB opens the test database and runs migrations. Skips the test when
// TEST_POSTGRES_DSN is unset.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		t.Fatalf("create extension: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

// Tx begins a transaction that rolls back when the test ends, so tests
// never leak rows into the shared database.
func Tx(t *testing.T) *gorm.DB {
	t.Helper()
	gdb := DB(t)
	tx := gdb.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

// Log returns a logger suitable for constructing repos in tests.
func Log(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}
