package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lazyacme/app"
	"github.com/dmitrymomot/lazyacme/core/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API, issue missing certificates and renew them on schedule",
		Long: `serve bootstraps the config directory, issues certificates for configured
domains that have none, starts the HTTP API and renews certificates close to
expiry. On first run it only writes the default config files and exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			log, err := app.NewLogger(cfg, os.Stdout)
			if err != nil {
				return err
			}

			created, err := app.Init(cfg)
			if err != nil {
				log.Error("failed to prepare config directory", logger.Error(err))
				return err
			}
			if len(created) > 0 {
				for _, path := range created {
					log.Info("created default config file", slog.String("path", path))
				}
				log.Info("first-time setup complete, edit the config files and run serve again",
					slog.String("dir", cfg.DirPath))
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, app.WithLogger(log))
			if err != nil {
				log.Error("failed to start", logger.Error(err))
				return err
			}

			if err := a.Run(ctx); err != nil {
				log.Error("server stopped with error", logger.Error(err))
				return err
			}
			return nil
		},
	}
}
