package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createUsersTable creates a small table with integer, text, real and
// datetime columns.
func createUsersTable(t *testing.T, s *Store) {
	t.Helper()
	_, err := s.db.Exec(`
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score REAL,
			created_at DATETIME
		)
	`)
	if err != nil {
		t.Fatalf("create users table: %v", err)
	}
}
