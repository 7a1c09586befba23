package model

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/dynmodel/internal/auth"
	"github.com/roach88/dynmodel/internal/clock"
	"github.com/roach88/dynmodel/internal/sqlbuild"
	"github.com/roach88/dynmodel/internal/store"
	"github.com/roach88/dynmodel/internal/value"
)

// IDColumn is the identifier column used by Find, Update and Delete.
const IDColumn = "id"

// Model is a table-scoped query facade.
//
// It holds the active table, the accumulated where chain and the result
// of the most recently executed query. The database handle behind the
// Executor is shared and never closed here.
//
// Thread-safety: a Model is request-scoped and must not be shared
// between goroutines. Use On to derive an independent Model for another
// caller or table.
type Model struct {
	exec    store.Executor
	table   string
	columns []string
	chain   sqlbuild.Chain

	last     sqlbuild.Statement
	result   []value.Record
	executed bool

	subject value.Value

	auth    *auth.Authenticator
	clock   clock.Clock
	logger  *slog.Logger
	session string
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger used for statement tracing.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// WithClock sets the clock used for created_at stamps.
func WithClock(c clock.Clock) Option {
	return func(m *Model) {
		m.clock = c
	}
}

// WithAuthenticator replaces the default Authenticator.
func WithAuthenticator(a *auth.Authenticator) Option {
	return func(m *Model) {
		m.auth = a
	}
}

// WithSession sets the session id attached to log records.
// By default each Model gets a fresh UUIDv7.
func WithSession(id string) Option {
	return func(m *Model) {
		m.session = id
	}
}

// New creates a Model bound to table. The table is validated lazily: an
// empty or malformed name fails the first operation with a configuration
// error.
func New(exec store.Executor, table string, opts ...Option) *Model {
	m := &Model{
		exec:   exec,
		table:  table,
		auth:   auth.New(),
		clock:  clock.System{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.session == "" {
		m.session = newSessionID()
	}
	return m
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// On returns a fresh Model for table that shares this Model's executor,
// authenticator, clock, logger and session. Chain, result and subject
// are not carried over.
func (m *Model) On(table string) *Model {
	return &Model{
		exec:    m.exec,
		table:   table,
		auth:    m.auth,
		clock:   m.clock,
		logger:  m.logger,
		session: m.session,
	}
}

// Table returns the bound table name.
func (m *Model) Table() string {
	return m.table
}

// Session returns the id attached to this Model's log records.
func (m *Model) Session() string {
	return m.session
}

// SetTable binds the Model to another table and clears the where chain
// and the last result.
func (m *Model) SetTable(name string) error {
	if err := sqlbuild.CheckTable(name); err != nil {
		return m.buildError("setTable", err)
	}
	m.table = name
	m.Reset()
	m.result = nil
	m.executed = false
	m.last = sqlbuild.Statement{}
	return nil
}

// Reset clears the where chain so an unrelated query can start.
// The last result stays available to First and Get.
func (m *Model) Reset() {
	m.chain = sqlbuild.Chain{}
	m.columns = nil
}

// Chain returns the accumulated where chain.
func (m *Model) Chain() sqlbuild.Chain {
	return m.chain
}

// LastStatement returns the most recently executed statement.
func (m *Model) LastStatement() sqlbuild.Statement {
	return m.last
}

// All selects every row of the table. Zero rows is an empty slice.
func (m *Model) All(ctx context.Context, columns ...string) ([]value.Record, error) {
	stmt, err := sqlbuild.Select(m.table, columns, sqlbuild.Chain{})
	if err != nil {
		return nil, m.buildError("all", err)
	}
	rows, err := m.query(ctx, "all", stmt)
	if err != nil {
		return nil, err
	}
	m.remember(stmt, rows)
	return rows, nil
}

// Find selects the row whose id equals id. The bool is false when no
// row matched.
func (m *Model) Find(ctx context.Context, id value.Value, columns ...string) (value.Record, bool, error) {
	return m.FindBy(ctx, IDColumn, "", id, columns...)
}

// FindBy selects rows where column <op> v and returns the first.
// An empty op means "=". The where chain is left untouched.
func (m *Model) FindBy(ctx context.Context, column, op string, v value.Value, columns ...string) (value.Record, bool, error) {
	rows, stmt, err := m.lookup(ctx, "find", column, op, v, columns)
	if err != nil {
		return nil, false, err
	}
	m.remember(stmt, rows)
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

// Where appends an AND predicate to the chain and re-executes the whole
// accumulated SELECT. An empty op means "=". Columns, when given, replace
// the selected columns for this and later calls in the chain.
//
// The chain only grows when the statement succeeds.
func (m *Model) Where(ctx context.Context, column, op string, v value.Value, columns ...string) (*Model, error) {
	return m.extend(ctx, "where", column, op, v, columns, sqlbuild.Chain.Where)
}

// OrWhere appends an OR predicate and re-executes the accumulated SELECT.
// It is a usage error on an empty chain; nothing is executed then.
func (m *Model) OrWhere(ctx context.Context, column, op string, v value.Value) (*Model, error) {
	if m.chain.Empty() {
		return nil, m.usageError("orWhere", sqlbuild.ErrOrWithoutWhere)
	}
	return m.extend(ctx, "orWhere", column, op, v, nil, sqlbuild.Chain.OrWhere)
}

func (m *Model) extend(
	ctx context.Context,
	name, column, op string,
	v value.Value,
	columns []string,
	appendTerm func(sqlbuild.Chain, sqlbuild.Predicate) (sqlbuild.Chain, error),
) (*Model, error) {
	pred, err := predicate(column, op, v)
	if err != nil {
		return nil, m.buildError(name, err)
	}
	chain, err := appendTerm(m.chain, pred)
	if err != nil {
		return nil, m.buildError(name, err)
	}

	cols := m.columns
	if len(columns) > 0 {
		cols = columns
	}
	stmt, err := sqlbuild.Select(m.table, cols, chain)
	if err != nil {
		return nil, m.buildError(name, err)
	}
	rows, err := m.query(ctx, name, stmt)
	if err != nil {
		return nil, err
	}

	m.chain = chain
	m.columns = cols
	m.remember(stmt, rows)
	return m, nil
}

// Insert writes values as a new row and returns its id. With stamp set,
// created_at is filled from the Model's clock. Zero rows affected is a
// KindNotFound error.
func (m *Model) Insert(ctx context.Context, values value.Record, stamp bool) (int64, error) {
	if values.Len() == 0 {
		return 0, m.buildError("insert", sqlbuild.ErrNoColumns)
	}
	if stamp {
		values = sqlbuild.StampCreated(values, m.clock.Now())
	}

	stmt, err := sqlbuild.Insert(m.table, values)
	if err != nil {
		return 0, m.buildError("insert", err)
	}
	res, err := m.execute(ctx, "insert", stmt)
	if err != nil {
		return 0, err
	}
	if res.RowsAffected == 0 {
		return 0, m.notFound("insert", "no rows affected")
	}
	return res.LastInsertID, nil
}

// Update applies values to the row whose id equals id.
// See UpdateBy.
func (m *Model) Update(ctx context.Context, values value.Record, id value.Value) (value.Value, bool, error) {
	return m.UpdateBy(ctx, values, IDColumn, "", id)
}

// UpdateBy applies values to rows where column <op> v. A missing row is a
// KindNotFound error and no UPDATE is issued. It returns the id of the
// first matching row and whether any row changed.
func (m *Model) UpdateBy(ctx context.Context, values value.Record, column, op string, v value.Value) (value.Value, bool, error) {
	if values.Len() == 0 {
		return nil, false, m.buildError("update", sqlbuild.ErrNoColumns)
	}
	pred, err := predicate(column, op, v)
	if err != nil {
		return nil, false, m.buildError("update", err)
	}
	stmt, err := sqlbuild.Update(m.table, values, pred)
	if err != nil {
		return nil, false, m.buildError("update", err)
	}

	id, err := m.mustExist(ctx, "update", column, op, v, IDColumn)
	if err != nil {
		return nil, false, err
	}

	res, err := m.execute(ctx, "update", stmt)
	if err != nil {
		return nil, false, err
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return id, true, nil
}

// Delete removes the row whose id equals id.
// See DeleteBy.
func (m *Model) Delete(ctx context.Context, id value.Value) (bool, error) {
	return m.DeleteBy(ctx, IDColumn, "", id)
}

// DeleteBy removes rows where column <op> v. A missing row is a
// KindNotFound error and no DELETE is issued. The bool reports whether
// any row was removed.
func (m *Model) DeleteBy(ctx context.Context, column, op string, v value.Value) (bool, error) {
	pred, err := predicate(column, op, v)
	if err != nil {
		return false, m.buildError("delete", err)
	}
	stmt, err := sqlbuild.Delete(m.table, pred)
	if err != nil {
		return false, m.buildError("delete", err)
	}

	if _, err := m.mustExist(ctx, "delete", column, op, v, column); err != nil {
		return false, err
	}

	res, err := m.execute(ctx, "delete", stmt)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// Raw runs caller-supplied statement text with named parameters and keeps
// any rows it returns for First and Get.
func (m *Model) Raw(ctx context.Context, text string, params ...sqlbuild.Param) ([]value.Record, error) {
	stmt, err := sqlbuild.Raw(text, params...)
	if err != nil {
		return nil, m.buildError("raw", err)
	}
	rows, err := m.query(ctx, "raw", stmt)
	if err != nil {
		return nil, err
	}
	m.remember(stmt, rows)
	return rows, nil
}

// First returns the first row of the last executed query. It is a usage
// error to call First before any query ran.
func (m *Model) First() (value.Record, bool, error) {
	if !m.executed {
		return nil, false, m.usageError("first", ErrNothingExecuted)
	}
	if len(m.result) == 0 {
		return nil, false, nil
	}
	return m.result[0], true, nil
}

// Get returns every row of the last executed query. It is a usage error
// to call Get before any query ran.
func (m *Model) Get() ([]value.Record, error) {
	if !m.executed {
		return nil, m.usageError("get", ErrNothingExecuted)
	}
	out := make([]value.Record, len(m.result))
	copy(out, m.result)
	return out, nil
}

// mustExist looks up the first row where column <operator> v and returns
// its want column.
func (m *Model) mustExist(ctx context.Context, op, column, operator string, v value.Value, want string) (value.Value, error) {
	rows, _, err := m.lookup(ctx, op, column, operator, v, []string{want})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, m.notFound(op, "no row with %s %s %s", column, operatorOrEq(operator), value.Describe(v))
	}
	got, _ := rows[0].Get(want)
	return got, nil
}

func (m *Model) lookup(ctx context.Context, op, column, operator string, v value.Value, columns []string) ([]value.Record, sqlbuild.Statement, error) {
	pred, err := predicate(column, operator, v)
	if err != nil {
		return nil, sqlbuild.Statement{}, m.buildError(op, err)
	}
	chain, err := sqlbuild.Chain{}.Where(pred)
	if err != nil {
		return nil, sqlbuild.Statement{}, m.buildError(op, err)
	}
	stmt, err := sqlbuild.Select(m.table, columns, chain)
	if err != nil {
		return nil, sqlbuild.Statement{}, m.buildError(op, err)
	}
	rows, err := m.query(ctx, op, stmt)
	if err != nil {
		return nil, sqlbuild.Statement{}, err
	}
	return rows, stmt, nil
}

func (m *Model) query(ctx context.Context, op string, stmt sqlbuild.Statement) ([]value.Record, error) {
	m.trace(ctx, op, stmt)
	cur, err := m.exec.Query(ctx, stmt)
	if err != nil {
		return nil, m.databaseError(op, err)
	}
	return cur.FetchAll(), nil
}

func (m *Model) execute(ctx context.Context, op string, stmt sqlbuild.Statement) (store.Result, error) {
	m.trace(ctx, op, stmt)
	res, err := m.exec.Exec(ctx, stmt)
	if err != nil {
		return store.Result{}, m.databaseError(op, err)
	}
	return res, nil
}

// trace logs statement text and parameter count. Parameter values are
// never logged because passwords flow through them.
func (m *Model) trace(ctx context.Context, op string, stmt sqlbuild.Statement) {
	m.logger.DebugContext(ctx, "executing statement",
		"op", op,
		"table", m.table,
		"sql", stmt.Text,
		"params", len(stmt.Params),
		"session", m.session,
	)
}

func (m *Model) remember(stmt sqlbuild.Statement, rows []value.Record) {
	m.last = stmt
	m.result = rows
	m.executed = true
}

func predicate(column, op string, v value.Value) (sqlbuild.Predicate, error) {
	operator, err := sqlbuild.ParseOperator(op)
	if err != nil {
		return sqlbuild.Predicate{}, err
	}
	if v == nil {
		v = value.Null{}
	}
	return sqlbuild.Predicate{Column: column, Operator: operator, Value: v}, nil
}

func operatorOrEq(op string) string {
	if op == "" {
		return string(sqlbuild.OpEq)
	}
	return op
}
