// Package model provides Model, a table-scoped query facade.
//
// A Model binds one table and exposes All, Find, Where/OrWhere, Insert,
// Update, Delete and First/Get on top of internal/sqlbuild and a
// store.Executor. Every value reaches the database as a bound parameter.
//
// Where and OrWhere accumulate predicates; each call re-executes the full
// accumulated SELECT. Reset (or a new Model) starts an unrelated query.
//
//	m := model.New(st, "users")
//	if _, err := m.Where(ctx, "name", "LIKE", value.Text("A%")); err != nil {
//		return err
//	}
//	if _, err := m.OrWhere(ctx, "id", "", value.Int(7)); err != nil {
//		return err
//	}
//	rows, err := m.Get()
//
// The same Model also carries the login and token workflow (Login,
// GenerateToken, RevokeToken, RevokeAllTokens), delegating the
// database-free parts to internal/auth.
//
// Failures are *Error values with a Kind; see IsUsageError, IsNotFound
// and friends. Empty results are values, not errors.
package model
