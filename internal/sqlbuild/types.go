package sqlbuild

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/dynmodel/internal/value"
)

// Operator is a comparison operator allowed in a predicate.
type Operator string

const (
	OpEq      Operator = "="
	OpNeq     Operator = "!="
	OpLtGt    Operator = "<>"
	OpLt      Operator = "<"
	OpGt      Operator = ">"
	OpLte     Operator = "<="
	OpGte     Operator = ">="
	OpLike    Operator = "LIKE"
	OpNotLike Operator = "NOT LIKE"
)

var operators = map[Operator]struct{}{
	OpEq: {}, OpNeq: {}, OpLtGt: {}, OpLt: {}, OpGt: {},
	OpLte: {}, OpGte: {}, OpLike: {}, OpNotLike: {},
}

// ParseOperator normalises s (case and inner whitespace) and checks it
// against the supported set. An empty string means "=".
func ParseOperator(s string) (Operator, error) {
	norm := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if norm == "" {
		return OpEq, nil
	}
	op := Operator(norm)
	if _, ok := operators[op]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, s)
	}
	return op, nil
}

// Conjunction joins a predicate to the one before it.
type Conjunction string

const (
	ConjNone Conjunction = ""
	ConjAnd  Conjunction = "AND"
	ConjOr   Conjunction = "OR"
)

// Predicate is a single column/operator/value comparison.
// It always contributes exactly one bound parameter.
type Predicate struct {
	Column   string
	Operator Operator
	Value    value.Value
}

// Eq is a shorthand for an equality predicate.
func Eq(column string, v value.Value) Predicate {
	return Predicate{Column: column, Operator: OpEq, Value: v}
}

func (p Predicate) validate() error {
	if err := checkIdentifier(p.Column); err != nil {
		return err
	}
	if _, ok := operators[p.Operator]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedOperator, p.Operator)
	}
	return nil
}

// Param is a placeholder name (without the leading colon) and its value.
type Param struct {
	Name  string
	Value value.Value
}

// Statement is parameterized SQL text plus its ordered parameters.
// Values never appear in Text.
type Statement struct {
	Text   string
	Params []Param
}

// Args returns the parameters as named driver arguments, in order.
func (s Statement) Args() []any {
	args := make([]any, len(s.Params))
	for i, p := range s.Params {
		args[i] = sql.Named(p.Name, value.Param(p.Value))
	}
	return args
}

// Placeholders returns the placeholder names in parameter order.
func (s Statement) Placeholders() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// String renders the statement text followed by one line per parameter.
// Used for logs and golden files.
func (s Statement) String() string {
	var sb strings.Builder
	sb.WriteString(s.Text)
	for _, p := range s.Params {
		fmt.Fprintf(&sb, "\n:%s = %s", p.Name, value.Describe(p.Value))
	}
	return sb.String()
}
