package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/analytics"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/scheduler"
	"mercator-hq/ganymede/pkg/telemetry/logging"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
	"mercator-hq/ganymede/pkg/usage"
)

var runFlags struct {
	logLevel string
	watch    bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Ganymede analytics engine",
	Long: `Start the analytics engine with the specified configuration.

The engine aggregates usage samples fed to it by the gateway, schedules
periodic analysis runs, and serves Prometheus metrics.

Examples:
  # Start with default config
  ganymede run

  # Start with custom config
  ganymede run --config /etc/ganymede/config.yaml

  # Reload analysis settings when the config file changes
  ganymede run --watch`,
	RunE: runEngine,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload analysis settings on config file changes")
}

func runEngine(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
	}); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stores are owned here and shared across scheduler rebuilds.
	usageStore := usage.NewStore()
	recStore := recommendations.NewStore()

	feedbackBackend, err := buildFeedbackBackend(&cfg.Feedback)
	if err != nil {
		return fmt.Errorf("failed to initialize feedback backend: %w", err)
	}
	feedbackRecorder := usage.NewFeedbackRecorder(feedbackBackend)
	defer feedbackRecorder.Close()

	// The watcher goroutine may swap the scheduler on reload, so access
	// goes through a guarded holder.
	var (
		schedMu sync.Mutex
		sched   = buildScheduler(usageStore, recStore, cfg)
	)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer func() {
		schedMu.Lock()
		defer schedMu.Unlock()
		sched.Stop()
	}()

	if cfg.Telemetry.Metrics.Enabled {
		collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		go serveMetrics(ctx, cfg.Telemetry.Metrics, collector)
	}

	if runFlags.watch {
		watcher, err := config.NewWatcher(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		defer watcher.Stop()

		go func() {
			err := watcher.Watch(ctx, func(newCfg *config.Config) {
				// Swap the scheduler; the stores and their contents
				// carry over.
				schedMu.Lock()
				defer schedMu.Unlock()
				sched.Stop()
				sched = buildScheduler(usageStore, recStore, newCfg)
				if err := sched.Start(ctx); err != nil {
					slog.Error("failed to restart scheduler after reload", "error", err)
				}
			})
			if err != nil {
				slog.Error("config watcher exited", "error", err)
			}
		}()
	}

	slog.Info("ganymede started",
		"analysis_interval", cfg.Analytics.Interval(),
		"analysis_enabled", cfg.Analytics.Enabled,
	)

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

// buildScheduler constructs an engine and scheduler from the configuration
// over the shared stores.
func buildScheduler(usageStore *usage.Store, recStore *recommendations.Store, cfg *config.Config) *scheduler.Scheduler {
	engine := analytics.NewEngine(usageStore, recStore, analytics.Config{
		MinSamples:            cfg.Analytics.MinSamplesForAnalysis,
		CostThresholdPercent:  cfg.Analytics.CostThresholdPercent,
		ErrorThresholdPercent: cfg.Analytics.ErrorThresholdPercent,
	})
	return scheduler.New(engine, usageStore, scheduler.Config{
		Enabled:         cfg.Analytics.Enabled,
		Interval:        cfg.Analytics.Interval(),
		KeepHistoryDays: cfg.Analytics.KeepHistoryDays,
	})
}

// buildFeedbackBackend constructs the configured feedback backend.
func buildFeedbackBackend(cfg *config.FeedbackConfig) (usage.FeedbackBackend, error) {
	switch cfg.Backend {
	case "sqlite":
		return usage.NewSQLiteFeedback(cfg.SQLitePath)
	default:
		return usage.NewMemoryFeedback(), nil
	}
}

// serveMetrics runs the Prometheus endpoint until the context ends.
func serveMetrics(ctx context.Context, cfg config.MetricsConfig, collector *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, collector.Handler())

	server := &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics endpoint listening",
		"address", cfg.ListenAddress,
		"path", cfg.Path,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server failed", "error", err)
	}
}
