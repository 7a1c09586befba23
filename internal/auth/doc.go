// Package auth holds the database-free half of credential login and
// personal access tokens.
//
// It validates the shape of a login request, checks passwords against
// bcrypt hashes, generates token secrets and builds the token row. The
// query facade in internal/model performs the lookups and writes.
//
// Tokens have the form "<subject id>|<64 hex characters>" and are stored
// whole in the token table.
package auth
