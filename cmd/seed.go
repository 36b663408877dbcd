/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"socialfeed/config"

	"github.com/urfave/cli/v2"
)

func seedFlags() []cli.Flag {
	defaults := config.Default().Seed
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "profiles",
			Value:   defaults.Profiles,
			Usage:   "Number of profiles to generate",
			EnvVars: []string{"SOCIALFEED_PROFILES"},
		},
		&cli.IntFlag{
			Name:    "posts",
			Value:   defaults.Posts,
			Usage:   "Number of posts to generate",
			EnvVars: []string{"SOCIALFEED_POSTS"},
		},
		&cli.Int64Flag{
			Name:    "seed",
			Value:   defaults.RandomSeed,
			Usage:   "Random seed for the generated dataset",
			EnvVars: []string{"SOCIALFEED_SEED"},
		},
	}
}

// applySeedFlags overrides the seed config with flags set by the user
func applySeedFlags(ctx *cli.Context, cfg *config.SeedConfig) {
	if ctx.IsSet("profiles") {
		cfg.Profiles = ctx.Int("profiles")
	}
	if ctx.IsSet("posts") {
		cfg.Posts = ctx.Int("posts")
	}
	if ctx.IsSet("seed") {
		cfg.RandomSeed = ctx.Int64("seed")
	}
}

// loadConfig reads the config file named by the config flag, or returns
// the defaults when none is given.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	if path := ctx.String("config"); path != "" {
		return config.LoadConfig(path)
	}
	return config.Default(), nil
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to TOML configuration file",
		EnvVars: []string{"SOCIALFEED_CONFIG"},
	}
}
