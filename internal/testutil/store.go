package testutil

import (
	_ "embed"
	"path/filepath"
	"testing"

	"github.com/roach88/dynmodel/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// NewStore opens a fresh SQLite store in t.TempDir() with the fixture
// schema applied (users and personal_access_tokens).
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if _, err := s.DB().Exec(schemaSQL); err != nil {
		t.Fatalf("apply fixture schema: %v", err)
	}
	return s
}

// NewDatabase creates a SQLite file in t.TempDir() with the fixture schema
// applied, closes it and returns its path.
func NewDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := s.DB().Exec(schemaSQL); err != nil {
		t.Fatalf("apply fixture schema: %v", err)
	}
	return path
}

// Count returns the number of rows in table.
func Count(t *testing.T, s *store.Store, table string) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
