package db

import (
	"database/sql"
	"fmt"
)

const schemaVersionSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Migration represents a SQLite schema migration.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all SQLite migrations in order.
// SchemaSQL always reflects the state after the last one.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_league_relations",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "split_penalty_targets_unique_per_penalty",
		Up:      migrationV2,
	},
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB) error {
	if _, err := database.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates every league relation.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(SchemaSQL)
	return err
}

// migrationV2 enforces one link row per penalty on both target relations.
// Older databases allowed several rows; the earliest row (by rowid) wins.
func migrationV2(tx *sql.Tx) error {
	for _, table := range []string{"penalty_competitor_targets", "penalty_team_targets"} {
		_, err := tx.Exec(fmt.Sprintf(`
			DELETE FROM %[1]s
			WHERE rowid NOT IN (SELECT MIN(rowid) FROM %[1]s GROUP BY penalty_id)`, table))
		if err != nil {
			return fmt.Errorf("failed to dedupe %s: %w", table, err)
		}
		_, err = tx.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_%[1]s_penalty ON %[1]s(penalty_id)", table))
		if err != nil {
			return fmt.Errorf("failed to index %s: %w", table, err)
		}
	}
	return nil
}
