// Package sqlite contains the SQLite implementation of the relation store.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/db"
	"github.com/example/paddock/internal/ports/secondary"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// RelationStore implements secondary.RelationStore with SQLite.
type RelationStore struct {
	db      *sql.DB
	timeout time.Duration
}

// NewRelationStore creates a new SQLite relation store. A zero timeout
// leaves deadlines to the caller's context.
func NewRelationStore(database *sql.DB, timeout time.Duration) *RelationStore {
	return &RelationStore{db: database, timeout: timeout}
}

// OnStart verifies the database is reachable.
func (s *RelationStore) OnStart(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return apperrors.Unavailable("ping sqlite", err)
	}
	return nil
}

// OnStop closes the database.
func (s *RelationStore) OnStop(context.Context) error {
	return s.db.Close()
}

// Read returns the rows of relation matching every filter.
func (s *RelationStore) Read(ctx context.Context, relation string, filters []secondary.Filter, projection []string) ([]secondary.Row, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return read(ctx, s.db, relation, filters, projection)
}

// Insert persists row and returns it as stored.
func (s *RelationStore) Insert(ctx context.Context, relation string, row secondary.Row) (secondary.Row, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return insert(ctx, s.db, relation, row)
}

// Update applies patch to every matching row.
func (s *RelationStore) Update(ctx context.Context, relation string, patch secondary.Row, filters []secondary.Filter) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return update(ctx, s.db, relation, patch, filters)
}

// Delete removes every matching row.
func (s *RelationStore) Delete(ctx context.Context, relation string, filters []secondary.Filter) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return remove(ctx, s.db, relation, filters)
}

// InTx runs fn inside a single SQLite transaction.
func (s *RelationStore) InTx(ctx context.Context, fn func(ctx context.Context, tx secondary.RelationStore) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin", "", nil, err)
	}

	if err := fn(ctx, &txStore{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify("commit", "", nil, err)
	}
	return nil
}

func (s *RelationStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// txStore binds the relation operations to an open transaction.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Read(ctx context.Context, relation string, filters []secondary.Filter, projection []string) ([]secondary.Row, error) {
	return read(ctx, t.tx, relation, filters, projection)
}

func (t *txStore) Insert(ctx context.Context, relation string, row secondary.Row) (secondary.Row, error) {
	return insert(ctx, t.tx, relation, row)
}

func (t *txStore) Update(ctx context.Context, relation string, patch secondary.Row, filters []secondary.Filter) (int64, error) {
	return update(ctx, t.tx, relation, patch, filters)
}

func (t *txStore) Delete(ctx context.Context, relation string, filters []secondary.Filter) (int64, error) {
	return remove(ctx, t.tx, relation, filters)
}

func read(ctx context.Context, q querier, relation string, filters []secondary.Filter, projection []string) ([]secondary.Row, error) {
	stmt, err := db.BuildSelect(db.SQLite, relation, filters, projection)
	if err != nil {
		return nil, apperrors.NewQueryError(relation, secondary.DescribeFilters(filters), err)
	}
	if neverMatches(filters) {
		return []secondary.Row{}, nil
	}

	rows, err := q.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, classify("read", relation, filters, err)
	}
	defer rows.Close()

	out, err := scanRows(rows, stmt.Columns)
	if err != nil {
		return nil, classify("read", relation, filters, err)
	}
	return out, nil
}

func insert(ctx context.Context, q querier, relation string, row secondary.Row) (secondary.Row, error) {
	stmt, err := db.BuildInsert(db.SQLite, relation, row)
	if err != nil {
		return nil, apperrors.NewQueryError(relation, "", err)
	}

	rows, err := q.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, classify("insert", relation, nil, err)
	}
	defer rows.Close()

	stored, err := scanRows(rows, stmt.Columns)
	if err != nil {
		return nil, classify("insert", relation, nil, err)
	}
	if len(stored) != 1 {
		return nil, apperrors.NewQueryError(relation, "", fmt.Errorf("insert returned %d rows", len(stored)))
	}
	return stored[0], nil
}

func update(ctx context.Context, q querier, relation string, patch secondary.Row, filters []secondary.Filter) (int64, error) {
	stmt, err := db.BuildUpdate(db.SQLite, relation, patch, filters)
	if err != nil {
		return 0, apperrors.NewQueryError(relation, secondary.DescribeFilters(filters), err)
	}
	if neverMatches(filters) {
		return 0, nil
	}
	return exec(ctx, q, "update", relation, filters, stmt)
}

func remove(ctx context.Context, q querier, relation string, filters []secondary.Filter) (int64, error) {
	stmt, err := db.BuildDelete(db.SQLite, relation, filters)
	if err != nil {
		return 0, apperrors.NewQueryError(relation, secondary.DescribeFilters(filters), err)
	}
	if neverMatches(filters) {
		return 0, nil
	}
	return exec(ctx, q, "delete", relation, filters, stmt)
}

func exec(ctx context.Context, q querier, op, relation string, filters []secondary.Filter, stmt db.Statement) (int64, error) {
	res, err := q.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, classify(op, relation, filters, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(op, relation, filters, err)
	}
	return n, nil
}

// neverMatches reports whether an empty membership filter short-circuits the statement.
func neverMatches(filters []secondary.Filter) bool {
	for _, f := range filters {
		if f.Empty() {
			return true
		}
	}
	return false
}

// scanRows drains rows into secondary.Row values keyed by columns.
func scanRows(rows *sql.Rows, columns []string) ([]secondary.Row, error) {
	out := []secondary.Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(secondary.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// classify maps driver errors onto the store error taxonomy.
func classify(op, relation string, filters []secondary.Filter, err error) error {
	if isUnavailable(err) {
		return apperrors.Unavailable(fmt.Sprintf("sqlite %s %s", op, relation), err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			err = fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
		}
	}
	return apperrors.NewQueryError(relation, secondary.DescribeFilters(filters), err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrIoErr, sqlite3.ErrNotADB:
			return true
		}
	}

	// database/sql does not export its closed-pool error.
	return strings.Contains(err.Error(), "database is closed")
}

var (
	_ secondary.Store      = (*RelationStore)(nil)
	_ secondary.Transactor = (*RelationStore)(nil)
)
