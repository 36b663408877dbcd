/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"socialfeed/db"
	"socialfeed/store"

	"github.com/urfave/cli/v2"
)

func databaseFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "database",
		Aliases: []string{"d"},
		Value:   "feed.db",
		Usage:   "SQLite database file location",
		EnvVars: []string{"SOCIALFEED_DATABASE"},
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a seeded dataset to SQLite",
		Description: `Generates the same dataset the server seeds on startup and writes
it to an SQLite database for offline inspection.

Existing rows in the database are replaced. The running server never reads
the export back.`,
		Flags: append([]cli.Flag{configFlag(), databaseFlag()}, seedFlags()...),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applySeedFlags(ctx, &cfg.Seed)
			if err := cfg.Validate(); err != nil {
				return err
			}

			s := store.New()
			s.Seed(cfg.Seed.Profiles, cfg.Seed.Posts, cfg.Seed.RandomSeed)

			database := ctx.String("database")
			if err := db.Export(ctx.Context, database, s.Snapshot()); err != nil {
				return err
			}

			counts, err := db.Counts(ctx.Context, database)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "Exported %d profiles, %d posts, %d comments, %d likes and %d shares to %s\n",
				counts.Profiles, counts.Posts, counts.Comments, counts.Likes, counts.Shares, database)
			return nil
		},
	}
}
