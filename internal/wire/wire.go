// Package wire provides dependency injection for paddock.
// It builds the store, services and adapters once, on first use.
package wire

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/paddock/internal/adapters/cli"
	httpadapter "github.com/example/paddock/internal/adapters/http"
	"github.com/example/paddock/internal/adapters/persistence"
	"github.com/example/paddock/internal/adapters/postgres"
	"github.com/example/paddock/internal/adapters/sqlite"
	"github.com/example/paddock/internal/app"
	"github.com/example/paddock/internal/config"
	"github.com/example/paddock/internal/db"
	"github.com/example/paddock/internal/logger"
	"github.com/example/paddock/internal/metrics"
	"github.com/example/paddock/internal/ports/primary"
	"github.com/example/paddock/internal/ports/secondary"
)

// Container holds the wired application.
type Container struct {
	Config  *config.Config
	Log     *zap.SugaredLogger
	Metrics *metrics.Recorder

	Standings   primary.StandingsService
	Attribution primary.AttributionService
	Penalties   primary.PenaltyService
	Reconcile   primary.ReconcileService
	Roster      primary.RosterService

	store secondary.Store
}

var (
	container *Container
	initErr   error
	once      sync.Once
)

// Get returns the singleton container, building it from the configuration
// of the working directory on first call.
func Get() (*Container, error) {
	once.Do(func() {
		container, initErr = initContainer()
	})
	return container, initErr
}

func initContainer() (*Container, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return Build(context.Background(), cfg, log)
}

// Build opens the configured store and wires every service over it.
func Build(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) (*Container, error) {
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := store.OnStart(ctx); err != nil {
		if stopErr := store.OnStop(context.WithoutCancel(ctx)); stopErr != nil {
			log.Warnw("failed to stop store after failed start", "driver", cfg.Store.Driver, "error", stopErr)
		}
		return nil, fmt.Errorf("failed to start %s store: %w", cfg.Store.Driver, err)
	}

	recorder := metrics.New()
	instrumented := persistence.NewInstrumentedStore(store, recorder)
	reader := persistence.NewRelationReader(instrumented)
	executor := app.NewEffectExecutor(instrumented, cfg.Store.AtomicWrites, log)

	c := &Container{
		Config:      cfg,
		Log:         log,
		Metrics:     recorder,
		Standings:   app.NewStandingsService(reader, recorder, log),
		Attribution: app.NewAttributionService(reader, recorder, log),
		Penalties:   app.NewPenaltyService(reader, executor, recorder, log),
		Reconcile:   app.NewReconcileService(reader, persistence.ReaderFor, executor, log),
		Roster:      app.NewRosterService(reader, executor, log),
		store:       store,
	}
	log.Debugw("container ready", "driver", cfg.Store.Driver, "atomic_writes", executor.Atomic())
	return c, nil
}

// openStore is replaced in tests.
var openStore = openConfiguredStore

func openConfiguredStore(cfg *config.Config, log *zap.SugaredLogger) (secondary.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return postgres.New(log, cfg.Postgres, cfg.Store.QueryTimeout), nil
	case config.DriverSQLite:
		database, err := db.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return sqlite.NewRelationStore(database, cfg.Store.QueryTimeout), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// Close stops the store.
func (c *Container) Close(ctx context.Context) error {
	return c.store.OnStop(ctx)
}

// StandingsAdapter returns a new StandingsAdapter writing to out.
func (c *Container) StandingsAdapter(out io.Writer) *cliadapter.StandingsAdapter {
	return cliadapter.NewStandingsAdapter(c.Standings, out)
}

// PenaltyAdapter returns a new PenaltyAdapter writing to out.
func (c *Container) PenaltyAdapter(out io.Writer) *cliadapter.PenaltyAdapter {
	return cliadapter.NewPenaltyAdapter(c.Penalties, c.Attribution, out)
}

// ReconcileAdapter returns a new ReconcileAdapter writing to out.
func (c *Container) ReconcileAdapter(out io.Writer) *cliadapter.ReconcileAdapter {
	return cliadapter.NewReconcileAdapter(c.Reconcile, out)
}

// RosterAdapter returns a new RosterAdapter writing to out.
func (c *Container) RosterAdapter(out io.Writer) *cliadapter.RosterAdapter {
	return cliadapter.NewRosterAdapter(c.Roster, out)
}

// HTTPHandler returns the API handler over the container's services.
func (c *Container) HTTPHandler() *httpadapter.Handler {
	return httpadapter.NewHandler(c.Log, httpadapter.Services{
		Standings:   c.Standings,
		Attribution: c.Attribution,
		Penalties:   c.Penalties,
		Reconcile:   c.Reconcile,
	}, c.Config.HTTP.RequestTimeout)
}
