// Package scheduler drives periodic analysis runs.
//
// The scheduler arms a cron "@every" job at a configurable interval, prunes
// expired usage aggregates before each run, and delegates the run itself to
// the analytics engine. Overlap protection lives in the engine's
// single-flight guard, so a manual trigger arriving mid-run joins the
// in-flight pass instead of duplicating it. Stop drains any running job
// before returning.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/ganymede/pkg/analytics"
	"mercator-hq/ganymede/pkg/usage"
)

// DefaultInterval is the analysis interval used when none is configured.
const DefaultInterval = time.Hour

// Config controls the scheduler.
type Config struct {
	// Enabled arms the periodic job. When false, Start is a no-op and
	// only manual triggers run analyses.
	Enabled bool

	// Interval is the time between scheduled analysis runs.
	// Default: 1 hour.
	Interval time.Duration

	// KeepHistoryDays bounds usage aggregate retention. Aggregates dated
	// more than this many days ago are pruned before each scheduled run.
	// Zero disables pruning.
	KeepHistoryDays int
}

// Scheduler owns the periodic analysis lifecycle: Idle until Start,
// Scheduled while the timer is armed, Running while an analysis executes.
type Scheduler struct {
	engine *analytics.Engine
	store  *usage.Store
	cfg    Config
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a scheduler driving the given engine. The usage store is the
// one the engine reads; it is passed separately so the retention sweep does
// not widen the engine's API.
func New(engine *analytics.Engine, store *usage.Store, cfg Config) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Scheduler{
		engine: engine,
		store:  store,
		cfg:    cfg,
		cron:   cron.New(),
		logger: slog.Default().With("component", "analytics.scheduler"),
	}
}

// Start arms the periodic analysis job. If the scheduler is disabled it
// logs and returns nil. The job stops when ctx is cancelled or Stop is
// called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already started")
	}

	if !s.cfg.Enabled {
		s.logger.Info("analysis scheduling disabled, skipping scheduler")
		return nil
	}

	// cron.Stop leaves entries armed on the old instance, so a restart
	// gets a fresh cron rather than a duplicate job.
	s.cron = cron.New()

	spec := fmt.Sprintf("@every %s", s.cfg.Interval)
	_, err := s.cron.AddFunc(spec, func() {
		s.runScheduled(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule analysis: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("analysis scheduler started",
		"interval", s.cfg.Interval,
		"keep_history_days", s.cfg.KeepHistoryDays,
	)

	// Stop cleanly when the context ends.
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runScheduled executes one retention sweep plus analysis pass.
func (s *Scheduler) runScheduled(ctx context.Context) {
	s.pruneExpired()

	result, err := s.engine.RunAnalysis(ctx)
	if err != nil {
		// The failed sub-analyses keep their previous results; the run
		// is retried at the next scheduled trigger.
		s.logger.Error("scheduled analysis failed",
			"stored", result.Stored,
			"failed", result.Failed,
			"error", err,
		)
		return
	}

	s.logger.Info("scheduled analysis completed",
		"stored", result.Stored,
	)
}

// pruneExpired removes usage aggregates older than the retention window.
func (s *Scheduler) pruneExpired() {
	if s.cfg.KeepHistoryDays <= 0 {
		return
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.KeepHistoryDays).Format(usage.DateLayout)
	if removed := s.store.PruneBefore(cutoff); removed > 0 {
		s.logger.Info("pruned expired usage aggregates",
			"cutoff", cutoff,
			"removed", removed,
		)
	}
}

// TriggerNow runs an analysis immediately, outside the timer. If a
// scheduled run is already in flight the caller shares its result.
func (s *Scheduler) TriggerNow(ctx context.Context) (analytics.RunResult, error) {
	s.pruneExpired()
	return s.engine.RunAnalysis(ctx)
}

// Stop stops the scheduler and waits for any running job to complete.
// Stop is safe to call when the scheduler never started.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("analysis scheduler stopped")
	}
}

// IsRunning returns true if the periodic job is armed.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled analysis time, or nil when nothing is
// scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
