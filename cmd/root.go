package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional YAML scenario file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "production-sim",
	Short: "Monte Carlo simulator for perishable production policies",
	Long: `production-sim generates pseudo-random sequences with a linear congruential
generator, gates them through mean, variance, chi-square and poker tests, and
uses the accepted sequences as daily demand to evaluate production policies.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up persistent flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML scenario file (defaults are used when empty)")

	rootCmd.AddCommand(generateCmd, analyzeCmd, scheduleCmd, simulateCmd, sweepCmd, compareCmd)
}
