package persistence_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/paddock/internal/adapters/persistence"
	"github.com/example/paddock/internal/adapters/sqlite"
	"github.com/example/paddock/internal/apperrors"
	"github.com/example/paddock/internal/db"
	"github.com/example/paddock/internal/ports/secondary"
)

func setupReader(t *testing.T) (*persistence.RelationReader, *sql.DB) {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { testDB.Close() })

	return persistence.NewRelationReader(sqlite.NewRelationStore(testDB, 0)), testDB
}

func mustExec(t *testing.T, testDB *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := testDB.Exec(query, args...); err != nil {
		t.Fatalf("exec %q failed: %v", query, err)
	}
}

func TestRelationReader_TypedRecords(t *testing.T) {
	reader, testDB := setupReader(t)
	ctx := context.Background()

	mustExec(t, testDB, "INSERT INTO competitors (id, name, nationality, birth_date, active) VALUES ('C1', 'Alice', 'IT', '1999-02-03', 0)")
	mustExec(t, testDB, "INSERT INTO teams (id, name, color) VALUES ('T1', 'Scuderia', '#dc0000')")
	mustExec(t, testDB, "INSERT INTO participations (id, competitor_id, race_id, team_id, points) VALUES ('P1', 'C1', 'R1', 'T1', NULL)")
	mustExec(t, testDB, "INSERT INTO participations (id, competitor_id, race_id, team_id, points) VALUES ('P2', 'C2', 'R1', 'T1', 7.5)")

	competitors, err := reader.CompetitorsByIDs(ctx, []string{"C1"})
	if err != nil {
		t.Fatalf("CompetitorsByIDs failed: %v", err)
	}
	if len(competitors) != 1 {
		t.Fatalf("expected 1 competitor, got %d", len(competitors))
	}
	c := competitors[0]
	if c.Name != "Alice" || c.BirthDate != "1999-02-03" || c.Active {
		t.Errorf("unexpected competitor: %+v", c)
	}

	teams, err := reader.AllTeams(ctx)
	if err != nil {
		t.Fatalf("AllTeams failed: %v", err)
	}
	if len(teams) != 1 || !teams[0].Active || teams[0].Color != "#dc0000" {
		t.Errorf("unexpected teams: %+v", teams)
	}

	parts, err := reader.ParticipationsInRaces(ctx, []string{"R1"})
	if err != nil {
		t.Fatalf("ParticipationsInRaces failed: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 participations, got %d", len(parts))
	}
	if parts[0].Points != 0 {
		t.Errorf("NULL points should read as 0, got %v", parts[0].Points)
	}
	if parts[1].Points != 7.5 {
		t.Errorf("expected 7.5 points, got %v", parts[1].Points)
	}
}

func TestRelationReader_EmptyInputsReturnEmpty(t *testing.T) {
	reader, _ := setupReader(t)
	ctx := context.Background()

	races, err := reader.RacesByIDs(ctx, nil)
	if err != nil {
		t.Fatalf("RacesByIDs failed: %v", err)
	}
	if races == nil || len(races) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", races)
	}

	parts, err := reader.ParticipationsFor(ctx, []string{"C1"}, nil)
	if err != nil {
		t.Fatalf("ParticipationsFor failed: %v", err)
	}
	if len(parts) != 0 {
		t.Errorf("expected no participations, got %d", len(parts))
	}
}

func TestRelationReader_ParticipationsFor(t *testing.T) {
	reader, testDB := setupReader(t)

	mustExec(t, testDB, "INSERT INTO participations (id, competitor_id, race_id, team_id, points) VALUES ('P1', 'C1', 'R1', 'T1', 1)")
	mustExec(t, testDB, "INSERT INTO participations (id, competitor_id, race_id, team_id, points) VALUES ('P2', 'C1', 'R2', 'T2', 2)")
	mustExec(t, testDB, "INSERT INTO participations (id, competitor_id, race_id, team_id, points) VALUES ('P3', 'C2', 'R1', 'T1', 3)")

	parts, err := reader.ParticipationsFor(context.Background(), []string{"C1"}, []string{"R1", "R3"})
	if err != nil {
		t.Fatalf("ParticipationsFor failed: %v", err)
	}
	if len(parts) != 1 || parts[0].ID != "P1" {
		t.Errorf("expected only P1, got %+v", parts)
	}
}

func TestRelationReader_TargetLinksForPenalty(t *testing.T) {
	reader, testDB := setupReader(t)

	mustExec(t, testDB, "INSERT INTO penalty_competitor_targets (id, penalty_id, competitor_id) VALUES ('L1', 'PEN-1', 'C1')")
	mustExec(t, testDB, "INSERT INTO penalty_team_targets (id, penalty_id, team_id) VALUES ('L2', 'PEN-2', 'T1')")

	links, err := reader.TargetLinksForPenalty(context.Background(), "PEN-1")
	if err != nil {
		t.Fatalf("TargetLinksForPenalty failed: %v", err)
	}
	if links.Count() != 1 || len(links.Competitor) != 1 || links.Competitor[0].CompetitorID != "C1" {
		t.Errorf("unexpected links: %+v", links)
	}
}

func TestRelationReader_CategoryNotFound(t *testing.T) {
	reader, _ := setupReader(t)

	_, err := reader.CategoryByID(context.Background(), "missing")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

type failingStore struct {
	err error
}

func (f failingStore) Read(context.Context, string, []secondary.Filter, []string) ([]secondary.Row, error) {
	return nil, f.err
}

func (f failingStore) Insert(context.Context, string, secondary.Row) (secondary.Row, error) {
	return nil, f.err
}

func (f failingStore) Update(context.Context, string, secondary.Row, []secondary.Filter) (int64, error) {
	return 0, f.err
}

func (f failingStore) Delete(context.Context, string, []secondary.Filter) (int64, error) {
	return 0, f.err
}

func TestRelationReader_PropagatesUnavailable(t *testing.T) {
	store := failingStore{err: apperrors.Unavailable("read", errors.New("connection refused"))}
	reader := persistence.NewRelationReader(store)

	_, err := reader.AllTeams(context.Background())
	if !errors.Is(err, apperrors.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
