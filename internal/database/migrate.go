// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// migrate points goose at the embedded SQL files and runs op.
func migrate(db *sql.DB, name string, op func(*sql.DB, string, ...goose.OptionsFunc) error) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := op(db, migrationsDir); err != nil {
		return fmt.Errorf("migrate %s: %w", name, err)
	}
	return nil
}

// RunMigrations applies all pending migrations.
func RunMigrations(db *sql.DB) error {
	return migrate(db, "up", goose.Up)
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB) error {
	return migrate(db, "down", goose.Down)
}

// MigrateReset rolls back every migration.
func MigrateReset(db *sql.DB) error {
	return migrate(db, "reset", goose.Reset)
}
