package app

import (
	"github.com/spf13/cobra"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/daemon"
)

func init() { //nolint: gochecknoinits
	seedCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Reset every default setting to its catalogue value")

	rootCmd.AddCommand(seedCmd)
}

var (
	overwrite bool

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Write the default sensor settings and exit",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if overwrite {
				cfg.Seed.Policy = config.SeedPolicyOverwrite
			}

			return daemon.Seed(&cfg) //nolint:wrapcheck
		},
	}
)
