package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/app"
	"github.com/dmitrymomot/routekit/config"
	"github.com/dmitrymomot/routekit/middlewares"
	"github.com/dmitrymomot/routekit/pkg/logger"
	"github.com/dmitrymomot/routekit/pkg/redis"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server until SIGINT or SIGTERM.

Configuration comes from the environment (ADDRESS, REDIS_URL, LOG_LEVEL,
LOADER_CACHE_TTL, SENTRY_DSN, ...). --addr overrides ADDRESS.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Address = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address")

	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithSentry(cfg.Sentry),
		logger.WithExtractors(middlewares.RequestIDExtractor(), routekit.RouteIDExtractor()),
	).With(slog.String("env", cfg.Env))

	runOpts := []routekit.RunOption{
		routekit.Logger(log),
		routekit.ShutdownTimeout(cfg.ShutdownTimeout),
		routekit.WithContext(ctx),
	}

	var deps app.Deps
	if cfg.RedisURL != "" {
		client, err := redis.Open(ctx, cfg.RedisURL,
			redis.WithLogger(log),
			redis.WithRetry(5, time.Second),
		)
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		deps.Redis = client
		runOpts = append(runOpts, routekit.ShutdownHook(redis.Shutdown(client)))
	}

	srv := app.NewServer(cfg, log, deps)
	runOpts = append(runOpts,
		routekit.ShutdownHook(srv.Shutdown),
		routekit.ShutdownHook(logger.FlushSentry()),
	)

	return srv.Run(cfg.Address, runOpts...)
}
