// Package config defines Ganymede's YAML configuration, its defaults, and
// the loading pipeline.
//
// Loading starts from DefaultConfig so that booleans with true defaults
// (such as analytics.enabled) survive the YAML zero value, then applies the
// file, then GANYMEDE_* environment overrides, then validation. Missing
// configuration never blocks startup; every field has a documented default.
//
// Watcher provides fsnotify-based hot reload of the configuration file so a
// running engine can pick up new analysis settings without a restart.
package config
