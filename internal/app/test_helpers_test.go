package app

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/paddock/internal/adapters/persistence"
	"github.com/example/paddock/internal/adapters/sqlite"
	"github.com/example/paddock/internal/core/effects"
	"github.com/example/paddock/internal/db"
	"github.com/example/paddock/internal/ports/secondary"
)

// testEnv wires every service over one in-memory SQLite database.
// Foreign keys are off so tests can plant inconsistent rows.
type testEnv struct {
	db          *sql.DB
	store       *persistence.InstrumentedStore
	reader      *persistence.RelationReader
	metrics     *recordingMetrics
	executor    *DefaultEffectExecutor
	standings   *StandingsServiceImpl
	attribution *AttributionServiceImpl
	penalties   *PenaltyServiceImpl
	reconcile   *ReconcileServiceImpl
	roster      *RosterServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	testDB.SetMaxOpenConns(1)
	_, err = testDB.Exec(db.GetSchemaSQL())
	require.NoError(t, err)
	t.Cleanup(func() { testDB.Close() })

	log := zap.NewNop().Sugar()
	metrics := newRecordingMetrics()
	store := persistence.NewInstrumentedStore(sqlite.NewRelationStore(testDB, time.Second), metrics)
	reader := persistence.NewRelationReader(store)
	executor := NewEffectExecutor(store, true, log)

	return &testEnv{
		db:          testDB,
		store:       store,
		reader:      reader,
		metrics:     metrics,
		executor:    executor,
		standings:   NewStandingsService(reader, metrics, log),
		attribution: NewAttributionService(reader, metrics, log),
		penalties:   NewPenaltyService(reader, executor, metrics, log),
		reconcile:   NewReconcileService(reader, persistence.ReaderFor, executor, log),
		roster:      NewRosterService(reader, executor, log),
	}
}

func (e *testEnv) exec(t *testing.T, query string, args ...any) {
	t.Helper()
	_, err := e.db.Exec(query, args...)
	require.NoError(t, err, query)
}

func (e *testEnv) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(query, args...).Scan(&n), query)
	return n
}

func (e *testEnv) seedCategory(t *testing.T, id, name string) {
	e.exec(t, `INSERT INTO categories (id, name) VALUES (?, ?)`, id, name)
}

func (e *testEnv) seedRace(t *testing.T, id, name, date, categoryID string) {
	e.exec(t, `INSERT INTO races (id, name, date, category_id) VALUES (?, ?, ?, ?)`, id, name, date, categoryID)
}

func (e *testEnv) seedCompetitor(t *testing.T, id, name string) {
	e.exec(t, `INSERT INTO competitors (id, name, active) VALUES (?, ?, 1)`, id, name)
}

func (e *testEnv) seedTeam(t *testing.T, id, name string) {
	e.exec(t, `INSERT INTO teams (id, name, active) VALUES (?, ?, 1)`, id, name)
}

func (e *testEnv) seedParticipation(t *testing.T, id, competitorID, raceID, teamID string, points any) {
	e.exec(t, `INSERT INTO participations (id, competitor_id, race_id, team_id, points) VALUES (?, ?, ?, ?, ?)`,
		id, competitorID, raceID, teamID, points)
}

func (e *testEnv) seedPenalty(t *testing.T, id, raceID, date, kind string) {
	e.exec(t, `INSERT INTO penalties (id, race_id, date, kind) VALUES (?, ?, ?, ?)`, id, raceID, date, kind)
}

func (e *testEnv) linkCompetitor(t *testing.T, id, penaltyID, competitorID string) {
	e.exec(t, `INSERT INTO penalty_competitor_targets (id, penalty_id, competitor_id) VALUES (?, ?, ?)`, id, penaltyID, competitorID)
}

func (e *testEnv) linkTeam(t *testing.T, id, penaltyID, teamID string) {
	e.exec(t, `INSERT INTO penalty_team_targets (id, penalty_id, team_id) VALUES (?, ?, ?)`, id, penaltyID, teamID)
}

func (e *testEnv) linkCount(t *testing.T, penaltyID string) int {
	return e.count(t, `SELECT COUNT(*) FROM penalty_competitor_targets WHERE penalty_id = ?`, penaltyID) +
		e.count(t, `SELECT COUNT(*) FROM penalty_team_targets WHERE penalty_id = ?`, penaltyID)
}

// recordingMetrics implements secondary.MetricsRecorder in memory.
type recordingMetrics struct {
	mu           sync.Mutex
	gaps         map[string]int
	aggregations map[string]int
	writes       map[string]int
	storeErrors  map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		gaps:         map[string]int{},
		aggregations: map[string]int{},
		writes:       map[string]int{},
		storeErrors:  map[string]int{},
	}
}

func (m *recordingMetrics) AttributionGap(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gaps[reason]++
}

func (m *recordingMetrics) Aggregation(view string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.aggregations[view+"/"+outcome(err)]++
}

func (m *recordingMetrics) PenaltyWrite(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes[operation+"/"+outcome(err)]++
}

func (m *recordingMetrics) StoreError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeErrors[kind]++
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var _ secondary.MetricsRecorder = (*recordingMetrics)(nil)

// mockExecutor records the effects it is asked to run.
type mockExecutor struct {
	mock.Mock
}

func (m *mockExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	args := m.Called(ctx, effs)
	return args.Error(0)
}

var _ EffectExecutor = (*mockExecutor)(nil)

// persistOps renders the persist effects of effs for comparison.
func persistOps(effs []effects.Effect) []string {
	var ops []string
	for _, e := range effs {
		switch typed := e.(type) {
		case effects.PersistEffect:
			ops = append(ops, typed.String())
		case effects.CompositeEffect:
			ops = append(ops, persistOps(typed.Effects)...)
		}
	}
	return ops
}
