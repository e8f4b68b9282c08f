// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/aquamon/aquamon/internal/config"
	"github.com/aquamon/aquamon/internal/logger"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "aquamon",
	Short: "aquamon collects aquaponics telemetry and serves sensor settings",
	Long: `aquamon is the telemetry service of an aquaponics rig.
Sensors push their readings, the control panel reads them back and tunes
the operating thresholds of every sensor and actuator.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "directory containing main.toml")
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig() error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute() //nolint:wrapcheck
}
