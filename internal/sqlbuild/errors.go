package sqlbuild

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrEmptyTable is returned when no table name is given.
	ErrEmptyTable = errors.New("table name is empty")

	// ErrInvalidIdentifier is returned for table or column names that are
	// not plain identifiers. Identifiers are interpolated into the
	// statement text, so anything else is refused.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrNoColumns is returned when an INSERT or UPDATE has no values.
	ErrNoColumns = errors.New("no columns to write")

	// ErrUnsupportedOperator is returned for operators outside the allowed set.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrOrWithoutWhere is returned when OrWhere is called on an empty chain.
	ErrOrWithoutWhere = errors.New("orWhere requires a preceding where")

	// ErrEmptyStatement is returned for a raw statement without text.
	ErrEmptyStatement = errors.New("statement text is empty")
)

var identifierPattern = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// ValidIdentifier reports whether name may be used as a table or column name.
func ValidIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// CheckTable reports why table cannot be used as a table name, if at all.
func CheckTable(table string) error {
	if table == "" {
		return ErrEmptyTable
	}
	return checkIdentifier(table)
}

func checkIdentifier(name string) error {
	if !ValidIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}
