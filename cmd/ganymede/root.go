package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Mercator Ganymede - LLM usage metering and optimization analytics",
	Long: `Mercator Ganymede is the usage-metering and optimization-analytics engine
for LLM API gateways.

It aggregates per-request usage samples (tokens, cost, latency) and
periodically mines the aggregates to produce prioritized recommendations:
  - Cost savings opportunities across providers
  - Latency regressions and inconsistency
  - Underutilized routes
  - On-demand "best provider for a model" answers

For more information, visit: https://github.com/mercator-hq/ganymede`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
