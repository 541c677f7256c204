// Package sqlite_test contains integration tests for the SQLite relation store.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/paddock/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// Foreign keys stay off so tests can seed dangling rows deliberately.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

func seedCategory(t *testing.T, db *sql.DB, id, name string) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO categories (id, name) VALUES (?, ?)", id, name); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
}

func seedRace(t *testing.T, db *sql.DB, id, categoryID, date string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO races (id, name, place, date, category_id) VALUES (?, ?, 'Monza', ?, ?)",
		id, "Race "+id, date, categoryID)
	if err != nil {
		t.Fatalf("failed to seed race: %v", err)
	}
}

func seedParticipation(t *testing.T, db *sql.DB, id, competitorID, raceID, teamID string, points any) {
	t.Helper()
	_, err := db.Exec("INSERT INTO participations (id, competitor_id, race_id, team_id, points) VALUES (?, ?, ?, ?, ?)",
		id, competitorID, raceID, teamID, points)
	if err != nil {
		t.Fatalf("failed to seed participation: %v", err)
	}
}
