package model

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dynmodel/internal/auth"
	"github.com/roach88/dynmodel/internal/testutil"
	"github.com/roach88/dynmodel/internal/value"
)

var tokenPattern = regexp.MustCompile(`^\d+\|[0-9a-f]{64}$`)

func credentials(identityKey, identity, passwordKey, password string) value.Record {
	return value.NewRecord(
		value.P(identityKey, value.Text(identity)),
		value.P(passwordKey, value.Text(password)),
	)
}

func TestLogin_Authenticated(t *testing.T) {
	f := newFixture(t)
	id := f.seedUser(t, "Ana", "ana@x.io", "s3cret")
	m := f.model("users")

	outcome, err := m.Login(context.Background(), credentials("email", "ana@x.io", "password", "s3cret"))
	require.NoError(t, err)
	assert.Equal(t, auth.Authenticated, outcome)

	subject, ok := m.Subject()
	require.True(t, ok)
	assert.Equal(t, value.Int(id), subject)

	require.Len(t, f.exec.queries, 1)
	assert.Equal(t, `SELECT "password", "id" FROM "users" WHERE "email" = :value0`, f.exec.queries[0].Text)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "Ana", "ana@x.io", "s3cret")
	m := f.model("users")

	outcome, err := m.Login(context.Background(), credentials("email", "ana@x.io", "password", "nope"))
	require.NoError(t, err)
	assert.Equal(t, auth.WrongPassword, outcome)

	_, ok := m.Subject()
	assert.False(t, ok)
}

func TestLogin_UnknownSubject(t *testing.T) {
	f := newFixture(t)
	m := f.model("users")

	outcome, err := m.Login(context.Background(), credentials("email", "ghost@x.io", "password", "s3cret"))
	require.NoError(t, err)
	assert.Equal(t, auth.UnknownSubject, outcome)
}

func TestLogin_NullPasswordNeverMatches(t *testing.T) {
	f := newFixture(t)
	m := f.model("users")
	ctx := context.Background()

	_, err := m.Insert(ctx, value.NewRecord(
		value.P("name", value.Text("Ana")),
		value.P("email", value.Text("ana@x.io")),
	), false)
	require.NoError(t, err)

	outcome, err := m.Login(ctx, credentials("email", "ana@x.io", "password", ""))
	require.NoError(t, err)
	assert.Equal(t, auth.WrongPassword, outcome)
}

func TestLogin_MalformedCredentialsAreUsageErrors(t *testing.T) {
	tests := []struct {
		name  string
		creds value.Record
	}{
		{
			name: "three fields",
			creds: value.NewRecord(
				value.P("email", value.Text("a")),
				value.P("name", value.Text("b")),
				value.P("password", value.Text("c")),
			),
		},
		{
			name: "no password field",
			creds: value.NewRecord(
				value.P("email", value.Text("a")),
				value.P("name", value.Text("b")),
			),
		},
		{
			name:  "password alone",
			creds: value.NewRecord(value.P("password", value.Text("c"))),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			m := f.model("users")

			_, err := m.Login(context.Background(), tt.creds)
			require.Error(t, err)
			assert.True(t, IsUsageError(err), "got %v", err)
			assert.Zero(t, f.exec.total())
		})
	}
}

func TestLogin_SpanishPasswordColumn(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.DB().Exec(`CREATE TABLE usuarios (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		correo TEXT UNIQUE,
		contraseña TEXT
	)`)
	require.NoError(t, err)

	hash, err := f.auth.HashPassword("clave")
	require.NoError(t, err)

	m := f.model("usuarios")
	ctx := context.Background()
	_, err = m.Insert(ctx, value.NewRecord(
		value.P("correo", value.Text("ana@x.io")),
		value.P("contraseña", value.Text(hash)),
	), false)
	require.NoError(t, err)

	outcome, err := m.Login(ctx, credentials("correo", "ana@x.io", "contraseña", "clave"))
	require.NoError(t, err)
	assert.Equal(t, auth.Authenticated, outcome)
}

func TestLogin_LeavesChainAlone(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "Ana", "ana@x.io", "s3cret")
	m := f.model("users")
	ctx := context.Background()

	_, err := m.Where(ctx, "name", "", value.Text("Ana"))
	require.NoError(t, err)

	_, err = m.Login(ctx, credentials("email", "ana@x.io", "password", "s3cret"))
	require.NoError(t, err)

	assert.Equal(t, 1, m.Chain().Len())
	rows, err := m.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "email", "password", "created_at"}, rows[0].Keys())
}

func TestGenerateToken_RequiresLogin(t *testing.T) {
	f := newFixture(t)
	m := f.model("users")

	tok, ok, err := m.GenerateToken(context.Background(), nil, "", "")
	require.Error(t, err)
	assert.True(t, IsUsageError(err))
	assert.ErrorIs(t, err, ErrNoSubject)
	assert.False(t, ok)
	assert.Empty(t, tok)
	assert.Zero(t, f.exec.total())
}

func TestGenerateToken_WrongPasswordDoesNotAuthenticate(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "Ana", "ana@x.io", "s3cret")
	m := f.model("users")
	ctx := context.Background()

	_, err := m.Login(ctx, credentials("email", "ana@x.io", "password", "nope"))
	require.NoError(t, err)

	_, _, err = m.GenerateToken(ctx, nil, "", "")
	assert.True(t, IsUsageError(err))
}

func TestToken_RoundTrip(t *testing.T) {
	f := newFixture(t)
	id := f.seedUser(t, "Ana", "ana@x.io", "s3cret")
	m := f.model("users")
	ctx := context.Background()

	outcome, err := m.Login(ctx, credentials("email", "ana@x.io", "password", "s3cret"))
	require.NoError(t, err)
	require.Equal(t, auth.Authenticated, outcome)

	tok, ok, err := m.GenerateToken(ctx, nil, "", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Regexp(t, tokenPattern, tok)
	assert.Equal(t, "1|"+strings.Repeat("ab", auth.SecretBytes), tok)

	tokens := f.model("personal_access_tokens")
	row, found, err := tokens.FindBy(ctx, "token", "", value.Text(tok))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "User", text(t, row, "tokenable_type"))
	assert.Equal(t, value.String(value.Int(id)), text(t, row, "tokenable_id"))
	assert.Equal(t, auth.DefaultTokenName, text(t, row, "name"))
	assert.Equal(t, "[]", text(t, row, "abilities"))
	assert.NotEqual(t, "NULL", text(t, row, "created_at"))

	revoked, err := m.RevokeToken(ctx, tok, "")
	require.NoError(t, err)
	assert.True(t, revoked)

	_, found, err = tokens.FindBy(ctx, "token", "", value.Text(tok))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, testutil.Count(t, f.store, "personal_access_tokens"))
}

func TestGenerateToken_NameAbilitiesAndTable(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "Ana", "ana@x.io", "s3cret")
	_, err := f.store.DB().Exec(`CREATE TABLE api_tokens (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tokenable_type TEXT, tokenable_id INTEGER, name TEXT,
		token TEXT, abilities TEXT, created_at DATETIME
	)`)
	require.NoError(t, err)

	m := f.model("users")
	ctx := context.Background()
	_, err = m.Login(ctx, credentials("email", "ana@x.io", "password", "s3cret"))
	require.NoError(t, err)

	tok, ok, err := m.GenerateToken(ctx, []string{"read", "write"}, "cli", "api_tokens")
	require.NoError(t, err)
	require.True(t, ok)

	row, found, err := f.model("api_tokens").FindBy(ctx, "token", "", value.Text(tok))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "cli", text(t, row, "name"))
	assert.Equal(t, `["read","write"]`, text(t, row, "abilities"))
	assert.Zero(t, testutil.Count(t, f.store, "personal_access_tokens"))
}

func TestRevokeToken_UnknownIsFalse(t *testing.T) {
	f := newFixture(t)
	m := f.model("users")

	ok, err := m.RevokeToken(context.Background(), "9|deadbeef", "")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, f.exec.execs)
}

func TestRevokeAllTokens(t *testing.T) {
	f := newFixture(t)
	f.auth.Random = testutil.NewFixedRandom(1, 2, 3)
	f.seedUser(t, "Ana", "ana@x.io", "s3cret")
	bo := f.seedUser(t, "Bo", "bo@x.io", "hunter2")
	ctx := context.Background()

	ana := f.model("users")
	_, err := ana.Login(ctx, credentials("email", "ana@x.io", "password", "s3cret"))
	require.NoError(t, err)
	first, _, err := ana.GenerateToken(ctx, nil, "", "")
	require.NoError(t, err)
	second, _, err := ana.GenerateToken(ctx, nil, "phone", "")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	boModel := f.model("users")
	_, err = boModel.Login(ctx, credentials("email", "bo@x.io", "password", "hunter2"))
	require.NoError(t, err)
	boToken, _, err := boModel.GenerateToken(ctx, nil, "", "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(boToken, value.String(value.Int(bo))+"|"))

	ok, err := ana.RevokeAllTokens(ctx, second, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, testutil.Count(t, f.store, "personal_access_tokens"))

	ok, err = ana.RevokeAllTokens(ctx, first, "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRevokeAllTokens_MalformedToken(t *testing.T) {
	f := newFixture(t)
	m := f.model("users")

	_, err := m.RevokeAllTokens(context.Background(), "no-separator", "")
	assert.True(t, IsUsageError(err))
	assert.ErrorIs(t, err, auth.ErrMalformedToken)
}
