package store

import "github.com/roach88/dynmodel/internal/value"

// Cursor is a buffered result set read in database order.
type Cursor struct {
	columns []string
	rows    []value.Record
	pos     int
}

// NewCursor returns a cursor over rows. Useful for fake executors in tests.
func NewCursor(columns []string, rows []value.Record) *Cursor {
	if rows == nil {
		rows = []value.Record{}
	}
	return &Cursor{columns: columns, rows: rows}
}

// Columns returns the result column names.
func (c *Cursor) Columns() []string {
	return c.columns
}

// Len returns the total number of rows, fetched or not.
func (c *Cursor) Len() int {
	return len(c.rows)
}

// FetchOne returns the next row, or false when the cursor is exhausted.
func (c *Cursor) FetchOne() (value.Record, bool) {
	if c.pos >= len(c.rows) {
		return nil, false
	}
	row := c.rows[c.pos]
	c.pos++
	return row, true
}

// FetchAll returns all rows not yet fetched. Never nil.
func (c *Cursor) FetchAll() []value.Record {
	rest := make([]value.Record, len(c.rows)-c.pos)
	copy(rest, c.rows[c.pos:])
	c.pos = len(c.rows)
	return rest
}
