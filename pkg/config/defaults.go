package config

// Default values for configuration fields.
const (
	// Analytics defaults
	DefaultAnalyticsEnabled        = true
	DefaultAnalysisIntervalSeconds = 3600
	DefaultMinSamplesForAnalysis   = 50
	DefaultCostThresholdPercent    = 20.0
	DefaultErrorThresholdPercent   = 5.0
	DefaultKeepHistoryDays         = 90

	// Feedback defaults
	DefaultFeedbackBackend    = "memory"
	DefaultFeedbackSQLitePath = "data/feedback.db"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Metrics defaults
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9090"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "mercator"
	DefaultMetricsSubsystem     = "ganymede"
)

// DefaultConfig returns a fully populated configuration with every field at
// its documented default. Loading unmarshals the YAML file over this value,
// so explicit false/zero settings in the file are respected while unset
// booleans keep their true defaults.
func DefaultConfig() *Config {
	return &Config{
		Analytics: AnalyticsConfig{
			Enabled:                 DefaultAnalyticsEnabled,
			AnalysisIntervalSeconds: DefaultAnalysisIntervalSeconds,
			MinSamplesForAnalysis:   DefaultMinSamplesForAnalysis,
			CostThresholdPercent:    DefaultCostThresholdPercent,
			ErrorThresholdPercent:   DefaultErrorThresholdPercent,
			KeepHistoryDays:         DefaultKeepHistoryDays,
		},
		Feedback: FeedbackConfig{
			Backend:    DefaultFeedbackBackend,
			SQLitePath: DefaultFeedbackSQLitePath,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  DefaultLogLevel,
				Format: DefaultLogFormat,
			},
			Metrics: MetricsConfig{
				Enabled:       DefaultMetricsEnabled,
				ListenAddress: DefaultMetricsListenAddress,
				Path:          DefaultMetricsPath,
				Namespace:     DefaultMetricsNamespace,
				Subsystem:     DefaultMetricsSubsystem,
			},
		},
	}
}

// ApplyDefaults fills zero-valued numeric and string fields with defaults.
// Boolean fields are handled by starting from DefaultConfig during load.
func ApplyDefaults(cfg *Config) {
	if cfg.Analytics.AnalysisIntervalSeconds == 0 {
		cfg.Analytics.AnalysisIntervalSeconds = DefaultAnalysisIntervalSeconds
	}
	if cfg.Analytics.MinSamplesForAnalysis == 0 {
		cfg.Analytics.MinSamplesForAnalysis = DefaultMinSamplesForAnalysis
	}
	if cfg.Analytics.CostThresholdPercent == 0 {
		cfg.Analytics.CostThresholdPercent = DefaultCostThresholdPercent
	}
	if cfg.Analytics.ErrorThresholdPercent == 0 {
		cfg.Analytics.ErrorThresholdPercent = DefaultErrorThresholdPercent
	}

	if cfg.Feedback.Backend == "" {
		cfg.Feedback.Backend = DefaultFeedbackBackend
	}
	if cfg.Feedback.SQLitePath == "" {
		cfg.Feedback.SQLitePath = DefaultFeedbackSQLitePath
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}

	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}
