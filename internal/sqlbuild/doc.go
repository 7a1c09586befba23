// Package sqlbuild turns (table, columns, predicates, values) into
// parameterized SQL text plus an ordered parameter list. It performs no I/O.
//
// Statements use named placeholders (:name). Predicates are numbered in the
// order they were added (:value0, :value1, ...); SET and VALUES entries use
// the column name. Names are unique within a statement.
//
// Table and column names are interpolated into the text and must therefore
// be plain identifiers; values are always bound, never interpolated.
//
// Chain accumulates WHERE predicates joined by AND/OR. It is immutable, and
// every compile renders the whole chain from scratch.
package sqlbuild
