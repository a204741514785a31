package api

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/reactordeck/internal/db"
	"github.com/banshee-data/reactordeck/internal/monitoring"
	"github.com/banshee-data/reactordeck/internal/testutil"
)

// templateDB is a migrated, checkpointed database that each test copies.
var templateDB string

func TestMain(m *testing.M) {
	monitoring.SetLogger(nil)

	dir, err := os.MkdirTemp("", "reactordeck-api-template-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create template directory: %v\n", err)
		os.Exit(1)
	}
	templateDB = filepath.Join(dir, "template.db")
	if err := migrateTemplate(templateDB); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = os.RemoveAll(dir)
		os.Exit(1)
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// migrateTemplate runs every migration once and folds the WAL back into the
// main file so a plain copy carries the whole schema.
func migrateTemplate(path string) error {
	d, err := db.NewDB(path)
	if err != nil {
		return fmt.Errorf("failed to initialize template DB: %w", err)
	}
	if _, err := d.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		_ = d.Close()
		return fmt.Errorf("failed to checkpoint template DB: %w", err)
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("failed to close template DB: %w", err)
	}
	return nil
}

func cloneAPITestDB(t *testing.T) string {
	t.Helper()
	if templateDB == "" {
		t.Fatal("template DB not initialized")
	}
	path := filepath.Join(t.TempDir(), "test.db")
	if err := testutil.CopyFile(templateDB, path); err != nil {
		t.Fatalf("failed to clone template DB: %v", err)
	}
	return path
}
