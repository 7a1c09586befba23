package model

import (
	"context"

	"github.com/roach88/dynmodel/internal/auth"
	"github.com/roach88/dynmodel/internal/value"
)

// Login checks credentials against the bound table.
//
// credentials must hold exactly two fields: one password field and one
// identifying column, e.g. {email, password}. The row is looked up by the
// identifying column, selecting only the password column and id. On
// success the row id becomes this Model's subject for GenerateToken.
//
// Malformed credentials are a usage error. An unknown subject or a wrong
// password is reported through the Outcome with a nil error.
func (m *Model) Login(ctx context.Context, credentials value.Record) (auth.Outcome, error) {
	creds, err := m.auth.ParseCredentials(credentials)
	if err != nil {
		return auth.UnknownSubject, m.buildError("login", err)
	}

	rows, _, err := m.lookup(ctx, "login", creds.IdentityField, "", creds.Identity,
		[]string{creds.PasswordField, IDColumn})
	if err != nil {
		return auth.UnknownSubject, err
	}
	if len(rows) == 0 {
		return auth.UnknownSubject, nil
	}
	row := rows[0]

	stored, _ := row.Get(creds.PasswordField)
	hash, ok := stored.(value.Text)
	if !ok {
		return auth.WrongPassword, nil
	}
	match, err := m.auth.Verify(string(hash), creds.Password)
	if err != nil {
		return auth.WrongPassword, &Error{
			Kind:    KindDatabase,
			Op:      "login",
			Table:   m.table,
			Message: "stored password is not a valid hash",
			Err:     err,
		}
	}
	if !match {
		return auth.WrongPassword, nil
	}

	id, _ := row.Get(IDColumn)
	m.subject = id
	m.logger.DebugContext(ctx, "login succeeded", "table", m.table, "session", m.session)
	return auth.Authenticated, nil
}

// Subject returns the id recorded by the last successful Login.
func (m *Model) Subject() (value.Value, bool) {
	if value.IsNull(m.subject) {
		return nil, false
	}
	return m.subject, true
}

// GenerateToken issues a bearer token for the logged-in subject and
// stores it in tokenTable. Empty name and tokenTable fall back to
// auth.DefaultTokenName and auth.DefaultTokenTable.
//
// It is a usage error to call GenerateToken before a successful Login.
// The bool is false when the token row was not written.
func (m *Model) GenerateToken(ctx context.Context, abilities []string, name, tokenTable string) (string, bool, error) {
	subject, ok := m.Subject()
	if !ok {
		return "", false, m.usageError("generateToken", ErrNoSubject)
	}

	tok, err := m.auth.IssueToken(subject)
	if err != nil {
		return "", false, m.usageError("generateToken", err)
	}
	rec, err := m.auth.TokenRecord(tok, auth.OwningType(m.table), name, abilities)
	if err != nil {
		return "", false, m.usageError("generateToken", err)
	}

	if _, err := m.tokens(tokenTable).Insert(ctx, rec, true); err != nil {
		if IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return tok.String(), true, nil
}

// RevokeToken deletes the row holding exactly token.
// The bool is false when no such token exists.
func (m *Model) RevokeToken(ctx context.Context, token, tokenTable string) (bool, error) {
	ok, err := m.tokens(tokenTable).DeleteBy(ctx, auth.ColumnToken, "", value.Text(token))
	if IsNotFound(err) {
		return false, nil
	}
	return ok, err
}

// RevokeAllTokens deletes every token belonging to the subject named in
// token's id portion. The bool is false when the subject has no tokens.
func (m *Model) RevokeAllTokens(ctx context.Context, token, tokenTable string) (bool, error) {
	subject, err := auth.SubjectOf(token)
	if err != nil {
		return false, m.buildError("revokeAllTokens", err)
	}
	ok, err := m.tokens(tokenTable).DeleteBy(ctx, auth.ColumnTokenableID, "", subject)
	if IsNotFound(err) {
		return false, nil
	}
	return ok, err
}

func (m *Model) tokens(table string) *Model {
	if table == "" {
		table = auth.DefaultTokenTable
	}
	return m.On(table)
}
