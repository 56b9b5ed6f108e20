package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/tokenjohn/internal/app"
	"github.com/dropDatabas3/tokenjohn/internal/http/server"
	"github.com/dropDatabas3/tokenjohn/internal/observability/logger"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP (SIGINT/SIGTERM hacen shutdown ordenado)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					logger.L().Warn("close app", logger.Err(err))
				}
			}()

			logger.L().Info("starting tokenjohn",
				logger.String("addr", cfg.Server.Addr),
				logger.String("env", cfg.App.Env),
				logger.String("storage", cfg.Storage.Driver),
				logger.String("cache", cfg.Cache.Kind),
			)
			return server.Run(ctx, server.Config{
				Addr:            cfg.Server.Addr,
				ReadTimeout:     cfg.Server.ReadTimeout,
				WriteTimeout:    cfg.Server.WriteTimeout,
				ShutdownTimeout: cfg.Server.ShutdownTimeout,
			}, a.Handler)
		},
	}
}
