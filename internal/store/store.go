package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/dynmodel/internal/sqlbuild"
)

// Executor runs parameterized statements. It is the only way the query
// facade talks to the database.
type Executor interface {
	// Exec runs a statement that does not return rows.
	Exec(ctx context.Context, stmt sqlbuild.Statement) (Result, error)

	// Query runs a statement and buffers its rows into a Cursor.
	Query(ctx context.Context, stmt sqlbuild.Statement) (*Cursor, error)
}

// Result reports the outcome of Exec.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Store executes statements against a *sql.DB.
//
// The handle is shared: a Store created with New never closes it. Only a
// Store returned by Open owns its handle and closes it in Close.
type Store struct {
	db    *sql.DB
	owned bool
}

// New wraps an existing database handle owned by the caller.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return &Store{db: db, owned: true}, nil
}

// Close closes the database connection if this Store opened it.
func (s *Store) Close() error {
	if s.db == nil || !s.owned {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer Exec and Query.
func (s *Store) DB() *sql.DB {
	return s.db
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
