// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"fmt"
	"log/slog"

	"codeberg.org/dreamstay/dreamstay/internal/config"
	"codeberg.org/dreamstay/dreamstay/internal/database"
	"codeberg.org/dreamstay/dreamstay/internal/services/otp"
	"github.com/urfave/cli/v3"
	"github.com/vinovest/sqlx"
)

// withDB opens the configured database for a one-shot command.
func withDB(cmd *cli.Command, fn func(cfg *config.Config, db *sqlx.DB) error) error {
	cfg := config.NewFromCLI(cmd)
	SetupLogger(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return fn(cfg, db)
}

// SweepOTPs deletes expired email codes once and exits.
func SweepOTPs(ctx context.Context, cmd *cli.Command) error {
	return withDB(cmd, func(cfg *config.Config, db *sqlx.DB) error {
		app, err := NewApp(cfg, db)
		if err != nil {
			return err
		}
		return otp.NewSweepJob(app.OTP).Run(ctx)
	})
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(_ context.Context, cmd *cli.Command) error {
	return withDB(cmd, func(_ *config.Config, db *sqlx.DB) error {
		if err := database.MigrateDown(db.DB); err != nil {
			return err
		}
		slog.Info("rolled back one migration")
		return nil
	})
}

// MigrateReset rolls back all migrations and applies them again.
func MigrateReset(_ context.Context, cmd *cli.Command) error {
	return withDB(cmd, func(_ *config.Config, db *sqlx.DB) error {
		if err := database.MigrateReset(db.DB); err != nil {
			return err
		}
		if err := database.RunMigrations(db.DB); err != nil {
			return err
		}
		slog.Info("database reset")
		return nil
	})
}
