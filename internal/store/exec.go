package store

import (
	"context"
	"fmt"

	"github.com/roach88/dynmodel/internal/sqlbuild"
	"github.com/roach88/dynmodel/internal/value"
)

// Exec runs a statement and reports rows affected and the last insert id.
func (s *Store) Exec(ctx context.Context, stmt sqlbuild.Statement) (Result, error) {
	res, err := s.db.ExecContext(ctx, stmt.Text, stmt.Args()...)
	if err != nil {
		return Result{}, fmt.Errorf("exec: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return Result{}, fmt.Errorf("exec: rows affected: %w", err)
	}

	// Only meaningful after an INSERT; SQLite reports the previous rowid otherwise.
	lastID, err := res.LastInsertId()
	if err != nil {
		return Result{}, fmt.Errorf("exec: last insert id: %w", err)
	}

	return Result{RowsAffected: affected, LastInsertID: lastID}, nil
}

// Query runs a statement and reads every row into a Cursor.
//
// Rows are buffered and *sql.Rows is closed before returning. The pool is
// capped at one connection, so holding rows open would block the next
// statement issued on the same Store.
func (s *Store) Query(ctx context.Context, stmt sqlbuild.Statement) (*Cursor, error) {
	rows, err := s.db.QueryContext(ctx, stmt.Text, stmt.Args()...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query: columns: %w", err)
	}

	var records []value.Record
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("query: scan: %w", err)
		}

		rec := make(value.Record, len(columns))
		for i, col := range columns {
			rec[i] = value.Pair{Key: col, Value: value.FromDriver(raw[i])}
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: iterate: %w", err)
	}

	return NewCursor(columns, records), nil
}
