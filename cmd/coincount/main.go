package main

import (
	"fmt"
	"os"

	"github.com/LdDl/coin-counter/config"
	"github.com/LdDl/coin-counter/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonLogs   bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "coincount",
	Short: "coincount - counts euro coins on a sequence of frames",
	Long: `coincount detects euro coins on frames of a video, classifies them by color
and size and counts every coin once while it moves through the scene.

Available commands:
  run    - Process frames from a directory and print the tally
  config - Print effective configuration

Examples:
  coincount run --frames ./frames
  coincount run --frames ./frames --config coincount.toml --json-logs
  COINCOUNT_TRACKER_CAPACITY=300 coincount config`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		json := cfg.Log.JSON || jsonLogs
		level := cfg.Log.Level
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		if err := logger.Initialize(json, level); err != nil {
			return errors.Wrap(err, "Can't initialize logger")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to TOML configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
