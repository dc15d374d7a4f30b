package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/analytics"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/scheduler"
	"mercator-hq/ganymede/pkg/usage"
)

var analyzeFlags struct {
	format string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis pass and print the daily report",
	Long: `Run the cost, performance, and usage-distribution analyses once and
print the daily report to stdout.

This is the manual counterpart of the scheduled analysis the run command
arms: same engine, same thresholds from the configuration file, one
immediate pass.

Examples:
  # One-shot analysis with the default config
  ganymede analyze

  # Human-readable summary
  ganymede analyze --format text`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFlags.format, "format", "json", "output format (json or text)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	usageStore := usage.NewStore()
	recStore := recommendations.NewStore()
	engine := analytics.NewEngine(usageStore, recStore, analytics.Config{
		MinSamples:            cfg.Analytics.MinSamplesForAnalysis,
		CostThresholdPercent:  cfg.Analytics.CostThresholdPercent,
		ErrorThresholdPercent: cfg.Analytics.ErrorThresholdPercent,
	})
	sched := scheduler.New(engine, usageStore, scheduler.Config{
		Enabled:         cfg.Analytics.Enabled,
		Interval:        cfg.Analytics.Interval(),
		KeepHistoryDays: cfg.Analytics.KeepHistoryDays,
	})

	result, err := sched.TriggerNow(context.Background())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "analysis stored %d recommendation(s)\n", result.Stored)
	}

	return writeReport(os.Stdout, engine.GenerateDailyReport(), analyzeFlags.format)
}

// writeReport renders the daily report to w in the requested format.
func writeReport(w io.Writer, report *analytics.DailyReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)

	case "text":
		fmt.Fprintf(w, "Daily report for %s\n", report.Date)
		fmt.Fprintf(w, "  requests: %d\n", report.TotalRequests)
		fmt.Fprintf(w, "  tokens:   %d\n", report.TotalTokens)
		fmt.Fprintf(w, "  cost:     $%.4f\n", report.TotalCostUSD)
		fmt.Fprintf(w, "  providers: %d, models: %d\n", report.ProviderCount, report.ModelCount)
		for _, p := range report.Providers {
			fmt.Fprintf(w, "    %-16s calls=%d tokens=%d cost=$%.4f avg_latency=%dms\n",
				p.Provider, p.Calls, p.TotalTokens, p.CostUSD, p.AvgLatencyMs)
		}
		if len(report.Recommendations) == 0 {
			fmt.Fprintln(w, "  no recommendations")
			return nil
		}
		fmt.Fprintf(w, "  recommendations: %d\n", len(report.Recommendations))
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "    [%s] %s: %s\n", rec.Priority, rec.Type, rec.Description)
		}
		return nil

	default:
		return fmt.Errorf("unknown format %q (expected json or text)", format)
	}
}
