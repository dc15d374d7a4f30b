package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply defaults and environment overrides,
and report whether the result is valid.

Examples:
  ganymede validate
  ganymede validate --config /etc/ganymede/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
		if verbose {
			fmt.Printf("  analysis enabled:  %t\n", cfg.Analytics.Enabled)
			fmt.Printf("  analysis interval: %s\n", cfg.Analytics.Interval())
			fmt.Printf("  min samples:       %d\n", cfg.Analytics.MinSamplesForAnalysis)
			fmt.Printf("  keep history days: %d\n", cfg.Analytics.KeepHistoryDays)
			fmt.Printf("  feedback backend:  %s\n", cfg.Feedback.Backend)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
