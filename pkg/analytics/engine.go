package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/usage"
)

// Config tunes the analysis thresholds.
type Config struct {
	// MinSamples is the minimum number of calls a provider needs before
	// it participates in cost ranking. Default: 50.
	MinSamples int

	// CostThresholdPercent is the minimum relative savings (percent) a
	// cheaper provider must offer to trigger a cost recommendation.
	// Default: 20.
	CostThresholdPercent float64

	// ErrorThresholdPercent is accepted for forward compatibility with
	// error-rate analysis; no current analysis consumes it because the
	// usage aggregates carry no error counts.
	ErrorThresholdPercent float64
}

// applyDefaults fills zero fields with documented defaults. Missing
// configuration never blocks engine construction.
func (c *Config) applyDefaults() {
	if c.MinSamples <= 0 {
		c.MinSamples = 50
	}
	if c.CostThresholdPercent <= 0 {
		c.CostThresholdPercent = 20
	}
	if c.ErrorThresholdPercent <= 0 {
		c.ErrorThresholdPercent = 5
	}
}

// Engine runs analyses over a usage store and persists results into a
// recommendation store. It owns no aggregate state itself; both stores are
// injected so tests can build fresh, isolated instances.
type Engine struct {
	usage  *usage.Store
	recs   *recommendations.Store
	cfg    Config
	logger *slog.Logger

	// group single-flights RunAnalysis: concurrent callers share the
	// in-flight run's result.
	group singleflight.Group
}

// NewEngine creates an analysis engine over the given stores.
func NewEngine(usageStore *usage.Store, recStore *recommendations.Store, cfg Config) *Engine {
	cfg.applyDefaults()
	return &Engine{
		usage:  usageStore,
		recs:   recStore,
		cfg:    cfg,
		logger: slog.Default().With("component", "analytics.engine"),
	}
}

// RunResult summarizes one analysis run.
type RunResult struct {
	// Stored is the number of recommendations written by this run.
	Stored int

	// Failed is the number of sub-analyses that did not complete.
	Failed int
}

// RunAnalysis executes the cost, performance, and usage-distribution
// analyses over a snapshot of the usage store and stores their results.
//
// The run is single-flighted: a second caller arriving while a run is in
// progress receives that run's result instead of starting a duplicate pass.
// Each sub-analysis is isolated; one failing or panicking analysis is
// logged and counted, and the previously stored recommendations for its
// type are left untouched while sibling analyses still complete and store.
func (e *Engine) RunAnalysis(ctx context.Context) (RunResult, error) {
	v, err, shared := e.group.Do("analysis", func() (interface{}, error) {
		return e.runAnalyses(ctx)
	})
	if shared {
		e.logger.Debug("joined in-flight analysis run")
	}

	result, _ := v.(RunResult)
	return result, err
}

func (e *Engine) runAnalyses(ctx context.Context) (RunResult, error) {
	if err := ctx.Err(); err != nil {
		return RunResult{}, err
	}

	snapshot := e.usage.All()
	date := usage.Today()
	e.logger.Info("starting analysis run",
		"aggregates", len(snapshot),
		"date", date,
	)

	analyses := []struct {
		name string
		fn   func([]usage.Aggregate, string) []*recommendations.Recommendation
	}{
		{"cost_opportunity", e.analyzeCostOpportunities},
		{"performance_trend", e.analyzePerformanceTrends},
		{"usage_distribution", e.analyzeUsageDistribution},
	}

	var result RunResult
	var failures []error
	for _, analysis := range analyses {
		recs, err := runIsolated(analysis.name, snapshot, date, analysis.fn)
		if err == nil {
			err = e.recs.Store(recs)
		}
		if err != nil {
			e.logger.Error("analysis failed",
				"analysis", analysis.name,
				"error", err,
			)
			result.Failed++
			failures = append(failures, fmt.Errorf("%s: %w", analysis.name, err))
			continue
		}
		result.Stored += len(recs)
	}

	e.logger.Info("analysis run completed",
		"stored", result.Stored,
		"failed", result.Failed,
	)

	return result, errors.Join(failures...)
}

// runIsolated invokes one sub-analysis with panic recovery so a defect in
// one analysis cannot abort its siblings or corrupt their stored results.
func runIsolated(name string, snapshot []usage.Aggregate, date string,
	fn func([]usage.Aggregate, string) []*recommendations.Recommendation,
) (recs []*recommendations.Recommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs = nil
			err = fmt.Errorf("%s analysis panicked: %v", name, r)
		}
	}()

	return fn(snapshot, date), nil
}

// Recommendations exposes the engine's recommendation store for query
// collaborators.
func (e *Engine) Recommendations() *recommendations.Store {
	return e.recs
}

// Usage exposes the engine's usage store for query collaborators.
func (e *Engine) Usage() *usage.Store {
	return e.usage
}
