package config

import "time"

// Config is the root configuration structure for Ganymede. It contains the
// analytics engine settings, feedback storage selection, and telemetry
// configuration.
type Config struct {
	// Analytics contains the analysis engine and scheduler settings.
	Analytics AnalyticsConfig `yaml:"analytics"`

	// Feedback selects and configures the feedback storage backend.
	Feedback FeedbackConfig `yaml:"feedback"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AnalyticsConfig contains configuration for the recommendation engine and
// its scheduler.
type AnalyticsConfig struct {
	// Enabled arms the periodic analysis scheduler.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AnalysisIntervalSeconds is the time between scheduled analysis
	// runs, in seconds.
	// Default: 3600
	AnalysisIntervalSeconds int `yaml:"analysis_interval_seconds"`

	// MinSamplesForAnalysis is the minimum call count a provider needs
	// before it participates in cost ranking.
	// Default: 50
	MinSamplesForAnalysis int `yaml:"min_samples_for_analysis"`

	// CostThresholdPercent is the minimum relative savings (percent)
	// required to emit a cost recommendation.
	// Default: 20
	CostThresholdPercent float64 `yaml:"cost_threshold_percent"`

	// ErrorThresholdPercent is reserved for error-rate analysis.
	// Default: 5
	ErrorThresholdPercent float64 `yaml:"error_threshold_percent"`

	// KeepHistoryDays bounds usage aggregate retention; aggregates older
	// than this many days are pruned before each scheduled run. Zero
	// keeps history forever.
	// Default: 90
	KeepHistoryDays int `yaml:"keep_history_days"`
}

// Interval returns the analysis interval as a duration.
func (c AnalyticsConfig) Interval() time.Duration {
	return time.Duration(c.AnalysisIntervalSeconds) * time.Second
}

// FeedbackConfig selects the feedback storage backend.
type FeedbackConfig struct {
	// Backend is the storage backend: "memory" or "sqlite".
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	// Default: "data/feedback.db"
	SQLitePath string `yaml:"sqlite_path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus metrics endpoint.
type MetricsConfig struct {
	// Enabled controls whether metrics are served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address the metrics endpoint listens on.
	// Default: "127.0.0.1:9090"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the Prometheus metric namespace.
	// Default: "mercator"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "ganymede"
	Subsystem string `yaml:"subsystem"`
}
