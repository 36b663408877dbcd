/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"socialfeed/prompts"

	"github.com/cqroot/prompt"
	"github.com/urfave/cli/v2"
)

func promptsCmd() *cli.Command {
	return &cli.Command{
		Name:  "prompts",
		Usage: "List and print prompt templates",
		Description: `Prompt templates prime an assistant for a task, e.g. explaining
a math proof step by step or planning a project.`,
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List available prompt templates",
				Action: func(ctx *cli.Context) error {
					registry, err := prompts.Load()
					if err != nil {
						return err
					}
					for _, p := range registry.All() {
						fmt.Fprintf(ctx.App.Writer, "%-20s %s\n", p.Name, p.Description)
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Print a prompt template",
				ArgsUsage: "[name]",
				Description: `Prints the named template to stdout so it can be piped to a
clipboard or another tool. Asks which template to print when no name is
given.`,
				Action: func(ctx *cli.Context) error {
					registry, err := prompts.Load()
					if err != nil {
						return err
					}

					name := ctx.Args().First()
					if name == "" {
						name, err = prompt.New().Ask("Prompt:").Choose(registry.Names())
						if err != nil {
							return err
						}
					}

					p, ok := registry.Get(name)
					if !ok {
						return fmt.Errorf("unknown prompt %q", name)
					}
					fmt.Fprintln(ctx.App.Writer, p.Prompt)
					return nil
				},
			},
		},
	}
}
