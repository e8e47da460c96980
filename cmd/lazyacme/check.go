package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lazyacme/app"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report certificate expiry for every configured domain",
		Long: `check prints days until expiry and whether renewal is due for each domain
in config.toml. It never runs the issuance tool and exits non-zero if any
domain could not be evaluated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, err = app.Check(cfg, cmd.OutOrStdout())
			return err
		},
	}
}
