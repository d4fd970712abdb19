// Package testing provides test helpers shared across budgetopt packages.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/budgetopt/internal/database"
)

// NewTestDB creates a temporary file-backed SQLite database with the named
// schema applied ("budget"). Unknown names give an empty database.
// The returned cleanup function is idempotent; it is also registered with t.Cleanup.
func NewTestDB(t *testing.T, name string) (*database.DB, func()) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test_"+name+".db")
	db, err := database.New(database.Config{
		Path:    path,
		Profile: database.ProfileScratch,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}

	closed := false
	cleanup := func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	}
	t.Cleanup(cleanup)

	return db, cleanup
}

// NewBudgetDB is NewTestDB for the budget schema.
func NewBudgetDB(t *testing.T) *database.DB {
	t.Helper()
	db, _ := NewTestDB(t, "budget")
	return db
}
