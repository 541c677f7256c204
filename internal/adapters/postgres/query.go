package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/db"
	"github.com/example/paddock/internal/ports/secondary"
)

const uniqueViolation = "23505"

func read(ctx context.Context, q querier, relation string, filters []secondary.Filter, projection []string) ([]secondary.Row, error) {
	stmt, err := db.BuildSelect(db.Postgres, relation, filters, projection)
	if err != nil {
		return nil, apperrors.NewQueryError(relation, secondary.DescribeFilters(filters), err)
	}
	if neverMatches(filters) {
		return []secondary.Row{}, nil
	}

	rows, err := q.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, classify("read", relation, filters, err)
	}
	out, err := collect(rows, stmt.Columns)
	if err != nil {
		return nil, classify("read", relation, filters, err)
	}
	return out, nil
}

func insert(ctx context.Context, q querier, relation string, row secondary.Row) (secondary.Row, error) {
	stmt, err := db.BuildInsert(db.Postgres, relation, row)
	if err != nil {
		return nil, apperrors.NewQueryError(relation, "", err)
	}

	rows, err := q.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, classify("insert", relation, nil, err)
	}
	stored, err := collect(rows, stmt.Columns)
	if err != nil {
		return nil, classify("insert", relation, nil, err)
	}
	if len(stored) != 1 {
		return nil, apperrors.NewQueryError(relation, "", fmt.Errorf("insert returned %d rows", len(stored)))
	}
	return stored[0], nil
}

func update(ctx context.Context, q querier, relation string, patch secondary.Row, filters []secondary.Filter) (int64, error) {
	stmt, err := db.BuildUpdate(db.Postgres, relation, patch, filters)
	if err != nil {
		return 0, apperrors.NewQueryError(relation, secondary.DescribeFilters(filters), err)
	}
	if neverMatches(filters) {
		return 0, nil
	}
	tag, err := q.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, classify("update", relation, filters, err)
	}
	return tag.RowsAffected(), nil
}

func remove(ctx context.Context, q querier, relation string, filters []secondary.Filter) (int64, error) {
	stmt, err := db.BuildDelete(db.Postgres, relation, filters)
	if err != nil {
		return 0, apperrors.NewQueryError(relation, secondary.DescribeFilters(filters), err)
	}
	if neverMatches(filters) {
		return 0, nil
	}
	tag, err := q.Exec(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, classify("delete", relation, filters, err)
	}
	return tag.RowsAffected(), nil
}

func neverMatches(filters []secondary.Filter) bool {
	for _, f := range filters {
		if f.Empty() {
			return true
		}
	}
	return false
}

// collect drains and closes rows.
func collect(rows pgx.Rows, columns []string) ([]secondary.Row, error) {
	defer rows.Close()

	out := []secondary.Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(secondary.Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// classify maps pgx errors onto the store error taxonomy.
func classify(op, relation string, filters []secondary.Filter, err error) error {
	if isUnavailable(err) {
		return apperrors.Unavailable(fmt.Sprintf("postgres %s %s", op, relation), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		err = fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	return apperrors.NewQueryError(relation, secondary.DescribeFilters(filters), err)
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "closed pool") {
		return true
	}

	// Class 08: connection exception.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "08" {
		return true
	}
	return false
}
