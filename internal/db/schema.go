package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh SQLite installs.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the SQLite schema. Tests load it via
// GetSchemaSQL() instead of hardcoding CREATE TABLE statements, and the
// relation catalog in catalog.go must list exactly these columns.
// The Postgres migrations under migrations/postgres mirror it.
//
// Dates and times are TEXT so that they round-trip verbatim.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS competitors (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	nationality TEXT,
	birth_date TEXT,
	photo_ref TEXT,
	active BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS teams (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	color TEXT,
	logo_ref TEXT,
	active BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS races (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	place TEXT,
	date TEXT NOT NULL,
	category_id TEXT NOT NULL,
	FOREIGN KEY (category_id) REFERENCES categories(id)
);

CREATE INDEX IF NOT EXISTS idx_races_category ON races(category_id);

CREATE TABLE IF NOT EXISTS participations (
	id TEXT PRIMARY KEY,
	competitor_id TEXT NOT NULL,
	race_id TEXT NOT NULL,
	team_id TEXT NOT NULL,
	points REAL CHECK(points IS NULL OR points >= 0),
	FOREIGN KEY (competitor_id) REFERENCES competitors(id),
	FOREIGN KEY (race_id) REFERENCES races(id) ON DELETE CASCADE,
	FOREIGN KEY (team_id) REFERENCES teams(id),
	UNIQUE(competitor_id, race_id)
);

CREATE INDEX IF NOT EXISTS idx_participations_race ON participations(race_id);
CREATE INDEX IF NOT EXISTS idx_participations_team ON participations(team_id);

CREATE TABLE IF NOT EXISTS penalties (
	id TEXT PRIMARY KEY,
	race_id TEXT NOT NULL,
	date TEXT NOT NULL,
	time TEXT,
	kind TEXT NOT NULL,
	description TEXT,
	FOREIGN KEY (race_id) REFERENCES races(id)
);

CREATE INDEX IF NOT EXISTS idx_penalties_race ON penalties(race_id);

CREATE TABLE IF NOT EXISTS penalty_competitor_targets (
	id TEXT PRIMARY KEY,
	penalty_id TEXT NOT NULL UNIQUE,
	competitor_id TEXT NOT NULL,
	FOREIGN KEY (penalty_id) REFERENCES penalties(id),
	FOREIGN KEY (competitor_id) REFERENCES competitors(id)
);

CREATE TABLE IF NOT EXISTS penalty_team_targets (
	id TEXT PRIMARY KEY,
	penalty_id TEXT NOT NULL UNIQUE,
	team_id TEXT NOT NULL,
	FOREIGN KEY (penalty_id) REFERENCES penalties(id),
	FOREIGN KEY (team_id) REFERENCES teams(id)
);

CREATE INDEX IF NOT EXISTS idx_penalty_team_targets_team ON penalty_team_targets(team_id);
`

// InitSchema creates the schema on a fresh database and runs pending migrations otherwise.
func InitSchema(database *sql.DB) error {
	var exists int
	err := database.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check schema_version: %w", err)
	}

	if exists == 0 {
		if _, err := database.Exec(SchemaSQL); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
		if _, err := database.Exec(schemaVersionSQL); err != nil {
			return fmt.Errorf("failed to create schema_version table: %w", err)
		}
		// A fresh schema already contains every migration.
		for _, m := range migrations {
			if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
				return err
			}
		}
		return nil
	}

	return RunMigrations(database)
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
