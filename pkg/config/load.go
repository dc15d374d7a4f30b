package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is unmarshalled over DefaultConfig, so absent fields keep their
// defaults and explicit zero values are respected. The result is validated
// before being returned.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention GANYMEDE_SECTION_FIELD (e.g. GANYMEDE_ANALYTICS_ENABLED) and
// always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Unparseable values are ignored in favor of the file value.
func applyEnvOverrides(cfg *Config) {
	// Analytics overrides
	if val := os.Getenv("GANYMEDE_ANALYTICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Analytics.Enabled = b
		}
	}
	if val := os.Getenv("GANYMEDE_ANALYTICS_INTERVAL_SECONDS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Analytics.AnalysisIntervalSeconds = n
		}
	}
	if val := os.Getenv("GANYMEDE_ANALYTICS_MIN_SAMPLES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Analytics.MinSamplesForAnalysis = n
		}
	}
	if val := os.Getenv("GANYMEDE_ANALYTICS_COST_THRESHOLD_PERCENT"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Analytics.CostThresholdPercent = f
		}
	}
	if val := os.Getenv("GANYMEDE_ANALYTICS_ERROR_THRESHOLD_PERCENT"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Analytics.ErrorThresholdPercent = f
		}
	}
	if val := os.Getenv("GANYMEDE_ANALYTICS_KEEP_HISTORY_DAYS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Analytics.KeepHistoryDays = n
		}
	}

	// Feedback overrides
	if val := os.Getenv("GANYMEDE_FEEDBACK_BACKEND"); val != "" {
		cfg.Feedback.Backend = val
	}
	if val := os.Getenv("GANYMEDE_FEEDBACK_SQLITE_PATH"); val != "" {
		cfg.Feedback.SQLitePath = val
	}

	// Telemetry overrides
	if val := os.Getenv("GANYMEDE_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("GANYMEDE_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("GANYMEDE_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}
