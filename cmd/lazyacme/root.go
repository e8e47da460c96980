package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lazyacme/app"
	"github.com/dmitrymomot/lazyacme/core/config"
)

// Version, GitCommit and BuildTime are set via ldflags during build.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lazyacme",
		Short: "Issue and renew TLS certificates through a DNS-01 ACME client",
		Long: `lazyacme keeps certificates for the domains listed in config.toml issued and
renewed by running a command line ACME client (lego by default), and serves them
over a small HTTP API.

Configuration is read from the environment and an optional .env file.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newServeCmd(), newInitCmd(), newCheckCmd())
	return root
}

func versionString() string {
	info := Version
	if GitCommit != "unknown" && GitCommit != "" {
		info += fmt.Sprintf(" (commit: %s)", GitCommit)
	}
	if BuildTime != "unknown" && BuildTime != "" {
		info += fmt.Sprintf(", built %s", BuildTime)
	}
	return info
}

// loadConfig reads the environment and validates it.
func loadConfig() (app.Config, error) {
	var cfg app.Config
	if err := config.Load(&cfg); err != nil {
		return cfg, err
	}
	return cfg.Resolve()
}
