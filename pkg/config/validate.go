package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for invalid values. It returns the
// first error found.
func Validate(cfg *Config) error {
	if err := validateAnalytics(&cfg.Analytics); err != nil {
		return err
	}
	if err := validateFeedback(&cfg.Feedback); err != nil {
		return err
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return err
	}
	return nil
}

func validateAnalytics(cfg *AnalyticsConfig) error {
	if cfg.AnalysisIntervalSeconds <= 0 {
		return fmt.Errorf("analytics.analysis_interval_seconds must be positive, got %d",
			cfg.AnalysisIntervalSeconds)
	}
	if cfg.MinSamplesForAnalysis < 1 {
		return fmt.Errorf("analytics.min_samples_for_analysis must be at least 1, got %d",
			cfg.MinSamplesForAnalysis)
	}
	if cfg.CostThresholdPercent <= 0 || cfg.CostThresholdPercent >= 100 {
		return fmt.Errorf("analytics.cost_threshold_percent must be between 0 and 100 exclusive, got %g",
			cfg.CostThresholdPercent)
	}
	if cfg.ErrorThresholdPercent <= 0 || cfg.ErrorThresholdPercent >= 100 {
		return fmt.Errorf("analytics.error_threshold_percent must be between 0 and 100 exclusive, got %g",
			cfg.ErrorThresholdPercent)
	}
	if cfg.KeepHistoryDays < 0 {
		return fmt.Errorf("analytics.keep_history_days cannot be negative, got %d",
			cfg.KeepHistoryDays)
	}
	return nil
}

func validateFeedback(cfg *FeedbackConfig) error {
	switch cfg.Backend {
	case "memory":
	case "sqlite":
		if cfg.SQLitePath == "" {
			return fmt.Errorf("feedback.sqlite_path cannot be empty with the sqlite backend")
		}
	default:
		return fmt.Errorf("feedback.backend must be %q or %q, got %q", "memory", "sqlite", cfg.Backend)
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry.logging.level must be one of debug, info, warn, error; got %q",
			cfg.Logging.Level)
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry.logging.format must be %q or %q, got %q",
			"json", "text", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			return fmt.Errorf("telemetry.metrics.listen_address cannot be empty when metrics are enabled")
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			return fmt.Errorf("telemetry.metrics.path must start with %q, got %q", "/", cfg.Metrics.Path)
		}
	}

	return nil
}
