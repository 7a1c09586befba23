package model

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/roach88/dynmodel/internal/auth"
	"github.com/roach88/dynmodel/internal/sqlbuild"
	"github.com/roach88/dynmodel/internal/store"
	"github.com/roach88/dynmodel/internal/testutil"
	"github.com/roach88/dynmodel/internal/value"
)

// recordingExecutor forwards to a real store and keeps every statement
// it was asked to run.
type recordingExecutor struct {
	inner   store.Executor
	queries []sqlbuild.Statement
	execs   []sqlbuild.Statement
}

func (r *recordingExecutor) Exec(ctx context.Context, stmt sqlbuild.Statement) (store.Result, error) {
	r.execs = append(r.execs, stmt)
	return r.inner.Exec(ctx, stmt)
}

func (r *recordingExecutor) Query(ctx context.Context, stmt sqlbuild.Statement) (*store.Cursor, error) {
	r.queries = append(r.queries, stmt)
	return r.inner.Query(ctx, stmt)
}

func (r *recordingExecutor) total() int {
	return len(r.queries) + len(r.execs)
}

func (r *recordingExecutor) reset() {
	r.queries = nil
	r.execs = nil
}

type fixture struct {
	store *store.Store
	exec  *recordingExecutor
	clock *testutil.DeterministicClock
	auth  *auth.Authenticator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := testutil.NewStore(t)

	a := auth.New()
	a.Cost = bcrypt.MinCost
	a.Random = testutil.NewFixedRandom()

	return &fixture{
		store: st,
		exec:  &recordingExecutor{inner: st},
		clock: testutil.NewDeterministicClock(),
		auth:  a,
	}
}

func (f *fixture) model(table string, opts ...Option) *Model {
	base := []Option{
		WithClock(f.clock),
		WithAuthenticator(f.auth),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithSession("test-session"),
	}
	return New(f.exec, table, append(base, opts...)...)
}

// seedUser inserts a user with a bcrypt-hashed password and returns its id.
func (f *fixture) seedUser(t *testing.T, name, email, password string) int64 {
	t.Helper()
	hash, err := f.auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	m := f.model("users")
	id, err := m.Insert(context.Background(), value.NewRecord(
		value.P("name", value.Text(name)),
		value.P("email", value.Text(email)),
		value.P("password", value.Text(hash)),
	), true)
	if err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	f.exec.reset()
	return id
}

func text(t *testing.T, rec value.Record, key string) string {
	t.Helper()
	v, ok := rec.Get(key)
	if !ok {
		t.Fatalf("record has no %q: %v", key, rec.Keys())
	}
	return value.String(v)
}
