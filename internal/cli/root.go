package cli

import (
	"fmt"

	"disaster_response/internal/config"
	"disaster_response/internal/logger"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
)

// rootCmd starts the service when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "riskd",
	Short: "Disaster response risk service",
	Long: `Classifies wildfire sensor readings into Low, Medium and High risk tiers.

Readings arrive over HTTP, from JSON files in the data directory or from MQTT.
Every batch can be logged to the history sink and turned into alerts that are
stored and fanned out to the console and Kafka.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default configs/config.yml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
}

// bootstrap loads configuration and the process logger.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.Get(logger.Level(cfg.Log.Level, verbose))
	return cfg, log, nil
}
