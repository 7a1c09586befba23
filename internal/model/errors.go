package model

import (
	"errors"
	"fmt"

	"github.com/roach88/dynmodel/internal/auth"
	"github.com/roach88/dynmodel/internal/sqlbuild"
)

// Error is returned by every Model operation that fails.
//
// Kind tells callers how to react:
//   - KindConfiguration: bad table or column name, unsupported operator,
//     empty value map
//   - KindUsage: operations called in the wrong order or with bad input
//   - KindNotFound: the row an update, delete or insert targeted is missing
//   - KindDatabase: the driver rejected or failed a statement
type Error struct {
	// Kind categorizes the failure.
	Kind Kind

	// Op names the Model operation, e.g. "update" or "orWhere".
	Op string

	// Table is the table the operation ran against.
	Table string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Kind categorizes Model errors.
type Kind string

const (
	KindConfiguration Kind = "CONFIGURATION"
	KindUsage         Kind = "USAGE"
	KindNotFound      Kind = "NOT_FOUND"
	KindDatabase      Kind = "DATABASE"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Table != "" {
		return fmt.Sprintf("dynmodel: %s %s: %s", e.Op, e.Table, msg)
	}
	return fmt.Sprintf("dynmodel: %s: %s", e.Op, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or "" if err is not a Model error.
func KindOf(err error) Kind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return ""
}

// IsConfigurationError reports whether err is a configuration error.
func IsConfigurationError(err error) bool { return KindOf(err) == KindConfiguration }

// IsUsageError reports whether err is a usage error.
func IsUsageError(err error) bool { return KindOf(err) == KindUsage }

// IsNotFound reports whether err reports a missing target row.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsDatabaseError reports whether err came from the driver.
func IsDatabaseError(err error) bool { return KindOf(err) == KindDatabase }

var (
	// ErrNothingExecuted is returned by First and Get before any query ran.
	ErrNothingExecuted = errors.New("no query has been executed")

	// ErrNoSubject is returned by token operations before a successful login.
	ErrNoSubject = errors.New("no authenticated subject; call Login first")

	// ErrRecordNotFound is the cause of KindNotFound errors.
	ErrRecordNotFound = errors.New("record not found")
)

func (m *Model) usageError(op string, err error) *Error {
	return &Error{Kind: KindUsage, Op: op, Table: m.table, Err: err}
}

func (m *Model) notFound(op string, format string, args ...any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      op,
		Table:   m.table,
		Message: fmt.Sprintf(format, args...),
		Err:     ErrRecordNotFound,
	}
}

func (m *Model) databaseError(op string, err error) *Error {
	return &Error{Kind: KindDatabase, Op: op, Table: m.table, Err: err}
}

// buildError classifies a statement construction failure. A dangling
// OR and malformed credentials are caller mistakes; everything else
// the builder rejects, empty value maps included, is a configuration
// problem.
func (m *Model) buildError(op string, err error) *Error {
	switch {
	case errors.Is(err, sqlbuild.ErrOrWithoutWhere),
		errors.Is(err, auth.ErrTooManyFields),
		errors.Is(err, auth.ErrNoPasswordField),
		errors.Is(err, auth.ErrMalformedCredentials),
		errors.Is(err, auth.ErrMalformedToken):
		return m.usageError(op, err)
	default:
		return &Error{Kind: KindConfiguration, Op: op, Table: m.table, Err: err}
	}
}
