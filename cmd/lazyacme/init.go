package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/lazyacme/app"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config directory and default config files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			created, err := app.Init(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintf(out, "%s is already initialized\n", cfg.DirPath)
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(out, "created %s\n", path)
			}
			return nil
		},
	}
}
