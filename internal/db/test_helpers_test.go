package db

import (
	"path/filepath"
	"testing"

	"github.com/banshee-data/reactordeck/internal/monitoring"
)

func init() {
	monitoring.SetLogger(nil)
}

// newTestDB opens a migrated database in a per-test directory.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
