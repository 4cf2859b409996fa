// Package storagetest provides migrated throwaway databases for tests.
package storagetest

import (
	"database/sql"
	"testing"

	"github.com/joao-fontenele/pos-receipts/internal/storage"
)

// NewSQLite returns a migrated in-memory SQLite database that is closed when
// the test ends.
func NewSQLite(tb testing.TB) *sql.DB {
	tb.Helper()

	db, err := storage.Open(storage.DriverSQLite, ":memory:")
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = db.Close() })

	if err := storage.Migrate(db, storage.DriverSQLite); err != nil {
		tb.Fatalf("failed to migrate sqlite: %v", err)
	}

	return db
}
