/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"socialfeed/models"
	"socialfeed/watch"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print interactions from a running server",
		Description: `Subscribes to the interaction stream of a running server and
prints every like, unlike, comment and share as a JSON object on a single
line. Use a tool like jq to process the output.

Reconnects with exponential backoff when the stream drops, trying each url
in turn. Prints all other log messages to stderr.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Value:   cli.NewStringSlice("http://localhost:3000/events"),
				Usage:   "Event stream url, may be repeated for failover",
				EnvVars: []string{"SOCIALFEED_WATCH_URL"},
			},
		},
		Action: func(ctx *cli.Context) error {
			// Keep stdout for events
			log.SetOutput(os.Stderr)

			sctx, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
			defer stop()

			events := make(chan models.InteractionEvent)
			done := make(chan error, 1)
			go func() {
				done <- watch.Watch(sctx, watch.Config{
					Urls:      ctx.StringSlice("url"),
					UserAgent: "socialfeed-watch",
				}, events)
			}()

			for {
				select {
				case event := <-events:
					printStdout(ctx.App.Writer, &event)
				case err := <-done:
					if errors.Is(err, sctx.Err()) {
						return nil
					}
					return err
				}
			}
		},
	}
}

func printStdout(w io.Writer, event *models.InteractionEvent) {
	// Print as single JSON string on a single line
	eventJson, err := json.Marshal(event)
	if err == nil {
		fmt.Fprintln(w, string(eventJson))
	}
}
