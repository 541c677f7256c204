package db

import "embed"

// PostgresMigrations holds the goose migrations for the Postgres store.
//
//go:embed migrations/postgres/*.sql
var PostgresMigrations embed.FS

// PostgresMigrationsDir is the directory of PostgresMigrations passed to goose.
const PostgresMigrationsDir = "migrations/postgres"
