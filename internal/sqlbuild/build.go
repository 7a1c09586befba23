package sqlbuild

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/dynmodel/internal/value"
)

// CreatedAtColumn is the column stamped by StampCreated.
const CreatedAtColumn = "created_at"

// Select builds SELECT <cols> FROM <table>[ WHERE <chain>].
// An empty column list selects *.
func Select(table string, columns []string, where Chain) (Statement, error) {
	if err := CheckTable(table); err != nil {
		return Statement{}, err
	}
	cols, err := columnList(columns)
	if err != nil {
		return Statement{}, err
	}

	text := fmt.Sprintf("SELECT %s FROM %s", cols, quoteIdentifier(table))
	if where.Empty() {
		return Statement{Text: text}, nil
	}

	clause, params := where.compile(newPlaceholders())
	return Statement{
		Text:   text + " WHERE " + clause,
		Params: params,
	}, nil
}

// Insert builds INSERT INTO <table> (<cols>) VALUES (<placeholders>) with
// columns in the order of values. An empty record is rejected.
func Insert(table string, values value.Record) (Statement, error) {
	if err := CheckTable(table); err != nil {
		return Statement{}, err
	}
	if values.Len() == 0 {
		return Statement{}, ErrNoColumns
	}

	names := newPlaceholders()
	cols := make([]string, 0, values.Len())
	marks := make([]string, 0, values.Len())
	params := make([]Param, 0, values.Len())
	seen := make(map[string]struct{}, values.Len())

	for _, pair := range values {
		if err := checkColumn(pair.Key, seen); err != nil {
			return Statement{}, err
		}
		name := names.column(pair.Key)
		cols = append(cols, quoteIdentifier(pair.Key))
		marks = append(marks, ":"+name)
		params = append(params, Param{Name: name, Value: pair.Value})
	}

	return Statement{
		Text: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			quoteIdentifier(table), strings.Join(cols, ", "), strings.Join(marks, ", ")),
		Params: params,
	}, nil
}

// Update builds UPDATE <table> SET col = :col, ... WHERE <column> <op> :valueN.
// The WHERE placeholder never reuses a SET placeholder.
func Update(table string, values value.Record, where Predicate) (Statement, error) {
	if err := CheckTable(table); err != nil {
		return Statement{}, err
	}
	if values.Len() == 0 {
		return Statement{}, ErrNoColumns
	}
	if err := where.validate(); err != nil {
		return Statement{}, err
	}

	names := newPlaceholders()
	sets := make([]string, 0, values.Len())
	params := make([]Param, 0, values.Len()+1)
	seen := make(map[string]struct{}, values.Len())

	for _, pair := range values {
		if err := checkColumn(pair.Key, seen); err != nil {
			return Statement{}, err
		}
		name := names.column(pair.Key)
		sets = append(sets, fmt.Sprintf("%s = :%s", quoteIdentifier(pair.Key), name))
		params = append(params, Param{Name: name, Value: pair.Value})
	}

	whereName := names.indexed(0)
	params = append(params, Param{Name: whereName, Value: where.Value})

	return Statement{
		Text: fmt.Sprintf("UPDATE %s SET %s WHERE %s %s :%s",
			quoteIdentifier(table), strings.Join(sets, ", "), quoteIdentifier(where.Column), where.Operator, whereName),
		Params: params,
	}, nil
}

// Delete builds DELETE FROM <table> WHERE <column> <op> :value0.
func Delete(table string, where Predicate) (Statement, error) {
	if err := CheckTable(table); err != nil {
		return Statement{}, err
	}
	if err := where.validate(); err != nil {
		return Statement{}, err
	}

	name := newPlaceholders().indexed(0)
	return Statement{
		Text:   fmt.Sprintf("DELETE FROM %s WHERE %s %s :%s", quoteIdentifier(table), quoteIdentifier(where.Column), where.Operator, name),
		Params: []Param{{Name: name, Value: where.Value}},
	}, nil
}

// Raw wraps caller-supplied statement text. The text is not inspected; the
// caller is responsible for using placeholders rather than literal values.
func Raw(text string, params ...Param) (Statement, error) {
	if strings.TrimSpace(text) == "" {
		return Statement{}, ErrEmptyStatement
	}
	out := make([]Param, len(params))
	copy(out, params)
	return Statement{Text: text, Params: out}, nil
}

// StampCreated returns values with created_at set to now.
func StampCreated(values value.Record, now time.Time) value.Record {
	return values.With(CreatedAtColumn, value.Text(now.Format(value.TimestampLayout)))
}

func columnList(columns []string) (string, error) {
	if len(columns) == 0 {
		return "*", nil
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		if c == "*" {
			quoted[i] = c
			continue
		}
		if err := checkIdentifier(c); err != nil {
			return "", err
		}
		quoted[i] = quoteIdentifier(c)
	}
	return strings.Join(quoted, ", "), nil
}

// quoteIdentifier wraps a table or column name in double quotes so names
// that collide with SQL keywords (order, group, key) stay identifiers.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func checkColumn(col string, seen map[string]struct{}) error {
	if err := checkIdentifier(col); err != nil {
		return err
	}
	if _, dup := seen[col]; dup {
		return fmt.Errorf("%w: duplicate column %q", ErrInvalidIdentifier, col)
	}
	seen[col] = struct{}{}
	return nil
}
