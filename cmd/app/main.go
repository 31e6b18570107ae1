// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"log"
	"os"

	"codeberg.org/dreamstay/dreamstay/internal/config"
	"codeberg.org/dreamstay/dreamstay/internal/server"
	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:   "dreamstay",
		Usage:  "Run the DreamStay hotel site",
		Flags:  config.Flags(),
		Action: server.Run,
		Commands: []*cli.Command{
			{
				Name:   "sweep-otps",
				Usage:  "Delete expired email verification codes",
				Flags:  config.Flags(),
				Action: server.SweepOTPs,
			},
			{
				Name:  "migrate",
				Usage: "Manage database migrations",
				Commands: []*cli.Command{
					{
						Name:   "down",
						Usage:  "Roll back the most recent migration",
						Flags:  config.Flags(),
						Action: server.MigrateDown,
					},
					{
						Name:   "reset",
						Usage:  "Roll back all migrations and apply them again",
						Flags:  config.Flags(),
						Action: server.MigrateReset,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
