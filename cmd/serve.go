/*
Copyright © 2023 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"socialfeed/prompts"
	"socialfeed/server"
	"socialfeed/store"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the social feed",
		Description: `Seeds the in-memory store and starts the HTTP server.

Serves the feed, profile and interaction endpoints, the prompt templates,
Prometheus metrics on /metrics and a server sent event stream of
interactions on /events.`,
		Flags: append([]cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "host",
				Usage:   "Host to listen on",
				EnvVars: []string{"SOCIALFEED_HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
				EnvVars: []string{"SOCIALFEED_PORT"},
			},
			&cli.StringFlag{
				Name:    "otel-service-name",
				Usage:   "Service name reported on traces",
				EnvVars: []string{"OTEL_SERVICE_NAME"},
			},
			&cli.StringFlag{
				Name:    "otel-endpoint",
				Usage:   "OTLP/HTTP traces endpoint, traces are only exported when set",
				EnvVars: []string{"OTEL_EXPORTER_OTLP_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "allow-origins",
				Usage:   "Comma separated list of allowed CORS origins",
				EnvVars: []string{"SOCIALFEED_ALLOW_ORIGINS"},
			},
		}, seedFlags()...),
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if ctx.IsSet("host") {
				cfg.Server.Host = ctx.String("host")
			}
			if ctx.IsSet("port") {
				cfg.Server.Port = ctx.Int("port")
			}
			if ctx.IsSet("allow-origins") {
				cfg.Server.AllowOrigins = ctx.String("allow-origins")
			}
			if ctx.IsSet("otel-service-name") {
				cfg.Tracing.ServiceName = ctx.String("otel-service-name")
			}
			if ctx.IsSet("otel-endpoint") {
				cfg.Tracing.Endpoint = ctx.String("otel-endpoint")
			}
			applySeedFlags(ctx, &cfg.Seed)
			if err := cfg.Validate(); err != nil {
				return err
			}

			tp, err := server.NewTracerProvider(ctx.Context, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(sctx); err != nil {
					log.Warnf("Error flushing traces: %v", err)
				}
			}()
			log.WithFields(log.Fields{
				"service":  cfg.Tracing.ServiceName,
				"exporter": cfg.Tracing.Endpoint != "",
			}).Info("Tracing configured")

			s := store.New()
			s.Seed(cfg.Seed.Profiles, cfg.Seed.Posts, cfg.Seed.RandomSeed)

			registry, err := prompts.Load()
			if err != nil {
				return fmt.Errorf("failed to load prompts: %w", err)
			}

			bc := server.NewBroadcaster()
			app := server.Server(&server.ServerConfig{
				Store:        s,
				Prompts:      registry,
				Broadcaster:  bc,
				DefaultLimit: cfg.Feed.DefaultLimit,
				MaxLimit:     cfg.Feed.MaxLimit,
				AllowOrigins: cfg.Server.AllowOrigins,

				TracerProvider: tp,
			})

			// Graceful shutdown
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigs)

			go func() {
				select {
				case <-sigs:
				case <-ctx.Context.Done():
				}
				log.Info("Gracefully shutting down...")
				bc.Shutdown()
				if err := app.ShutdownWithTimeout(time.Duration(cfg.Server.ShutdownTimeout) * time.Second); err != nil {
					log.Errorf("Error shutting down server: %v", err)
				}
			}()

			log.WithFields(log.Fields{
				"addr": cfg.Addr(),
			}).Info("Starting server")

			if err := app.Listen(cfg.Addr()); err != nil {
				return fmt.Errorf("server error: %w", err)
			}

			log.Info("Done!")
			return nil
		},
	}
}
