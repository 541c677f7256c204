// Package postgres implements the relation store against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/config"
	"github.com/example/paddock/internal/db"
	"github.com/example/paddock/internal/ports/secondary"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RelationStore wraps a pgx pool and configuration.
type RelationStore struct {
	log     *zap.SugaredLogger
	pool    *pgxpool.Pool
	cfg     config.PostgresConfig
	timeout time.Duration
}

// New creates a Postgres relation store. The pool is opened by OnStart.
func New(log *zap.SugaredLogger, cfg config.PostgresConfig, queryTimeout time.Duration) *RelationStore {
	return &RelationStore{
		log:     log.Named("repo.postgres"),
		cfg:     cfg,
		timeout: queryTimeout,
	}
}

// OnStart establishes the connection pool and applies migrations.
func (s *RelationStore) OnStart(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(s.cfg.DSN())
	if err != nil {
		return fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = s.cfg.MaxConns
	poolCfg.MinConns = s.cfg.MinConns

	connectCtx, cancelConnect := s.withTimeout(ctx)
	defer cancelConnect()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return apperrors.Unavailable("open pool", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return apperrors.Unavailable("ping pool", err)
	}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return err
	}

	s.pool = pool
	s.log.Infow("postgres ready", "host", s.cfg.Host, "port", s.cfg.Port)
	return nil
}

// migrate runs the embedded goose migrations over a short-lived database/sql handle.
func (s *RelationStore) migrate(ctx context.Context) error {
	sqlDB, err := sql.Open("postgres", s.cfg.DSN())
	if err != nil {
		return fmt.Errorf("open sql: %w", err)
	}
	defer func() { _ = sqlDB.Close() }()

	migrateCtx, cancelMigrate := context.WithTimeout(ctx, s.cfg.MigrateTimeout)
	defer cancelMigrate()

	goose.SetBaseFS(db.PostgresMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate dialect: %w", err)
	}
	if err := goose.UpContext(migrateCtx, sqlDB, db.PostgresMigrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	version, err := goose.EnsureDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("migrate version: %w", err)
	}
	s.log.Debugw("migrations applied", "version", version)
	return nil
}

// OnStop closes pool connections.
func (s *RelationStore) OnStop(context.Context) error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Read returns the rows of relation matching every filter.
func (s *RelationStore) Read(ctx context.Context, relation string, filters []secondary.Filter, projection []string) ([]secondary.Row, error) {
	q, err := s.querier()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return read(ctx, q, relation, filters, projection)
}

// Insert persists row and returns it as stored.
func (s *RelationStore) Insert(ctx context.Context, relation string, row secondary.Row) (secondary.Row, error) {
	q, err := s.querier()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return insert(ctx, q, relation, row)
}

// Update applies patch to every matching row.
func (s *RelationStore) Update(ctx context.Context, relation string, patch secondary.Row, filters []secondary.Filter) (int64, error) {
	q, err := s.querier()
	if err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return update(ctx, q, relation, patch, filters)
}

// Delete removes every matching row.
func (s *RelationStore) Delete(ctx context.Context, relation string, filters []secondary.Filter) (int64, error) {
	q, err := s.querier()
	if err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return remove(ctx, q, relation, filters)
}

// InTx runs fn inside a single transaction.
func (s *RelationStore) InTx(ctx context.Context, fn func(ctx context.Context, tx secondary.RelationStore) error) error {
	if s.pool == nil {
		return apperrors.Unavailable("postgres begin", errNotStarted)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify("begin", "", nil, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &txStore{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return classify("commit", "", nil, err)
	}
	return nil
}

var errNotStarted = errors.New("pool not started")

func (s *RelationStore) querier() (querier, error) {
	if s.pool == nil {
		return nil, apperrors.Unavailable("postgres", errNotStarted)
	}
	return s.pool, nil
}

func (s *RelationStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

type txStore struct {
	tx pgx.Tx
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

var (
	_ secondary.Store      = (*RelationStore)(nil)
	_ secondary.Transactor = (*RelationStore)(nil)
)
