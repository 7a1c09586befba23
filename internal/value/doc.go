// Package value provides the scalar column values and ordered records that
// flow between callers, the statement builder and the database.
//
// This package contains type definitions only and imports nothing internal.
//
// Key design constraints:
//   - Value is sealed: Null, Int, Float, Text, Bool
//   - Record preserves insertion order, because column order decides the
//     order of columns and placeholders in generated statements
//   - Only integers bind as integer parameters; every other scalar binds as
//     text (see Param)
package value
