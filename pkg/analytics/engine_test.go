package analytics

import (
	"context"
	"sync"
	"testing"

	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/usage"
)

// seedCostDivergence records today's usage for two providers whose token
// costs diverge enough to trigger a cost recommendation.
func seedCostDivergence(s *usage.Store) {
	for i := 0; i < 60; i++ {
		s.Record("pricey", "gpt-4", usage.Sample{
			PromptTokens:     1000,
			CompletionTokens: 500,
			CostUSD:          0.10,
		}, 100)
		s.Record("bargain", "small", usage.Sample{
			PromptTokens:     1000,
			CompletionTokens: 500,
			CostUSD:          0.01,
		}, 100)
	}
}

func TestEngine_RunAnalysisStoresRecommendations(t *testing.T) {
	usageStore := usage.NewStore()
	recStore := recommendations.NewStore()
	seedCostDivergence(usageStore)

	e := NewEngine(usageStore, recStore, Config{MinSamples: 50, CostThresholdPercent: 20})

	result, err := e.RunAnalysis(context.Background())
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if result.Failed != 0 {
		t.Errorf("Expected no failed analyses, got %d", result.Failed)
	}
	if result.Stored != 1 {
		t.Errorf("Expected 1 stored recommendation, got %d", result.Stored)
	}

	recs := recStore.ByType(recommendations.TypeCostOptimization)
	if len(recs) != 1 {
		t.Fatalf("Expected 1 cost recommendation, got %d", len(recs))
	}
	detail := recs[0].CostOptimization
	if detail.CurrentProvider != "pricey" || detail.SuggestedProvider != "bargain" {
		t.Errorf("Expected pricey -> bargain, got %s -> %s",
			detail.CurrentProvider, detail.SuggestedProvider)
	}
}

func TestEngine_RunAnalysisIdempotent(t *testing.T) {
	usageStore := usage.NewStore()
	recStore := recommendations.NewStore()
	seedCostDivergence(usageStore)

	e := NewEngine(usageStore, recStore, Config{MinSamples: 50, CostThresholdPercent: 20})

	ctx := context.Background()
	if _, err := e.RunAnalysis(ctx); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if _, err := e.RunAnalysis(ctx); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if recStore.Count() != 1 {
		t.Errorf("Expected re-runs to overwrite, got %d records", recStore.Count())
	}
}

func TestEngine_RunAnalysisEmptyStore(t *testing.T) {
	e := newTestEngine(Config{})

	result, err := e.RunAnalysis(context.Background())
	if err != nil {
		t.Fatalf("RunAnalysis failed: %v", err)
	}
	if result.Stored != 0 || result.Failed != 0 {
		t.Errorf("Expected empty result, got stored=%d failed=%d",
			result.Stored, result.Failed)
	}
}

func TestEngine_RunAnalysisCancelledContext(t *testing.T) {
	e := newTestEngine(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.RunAnalysis(ctx); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestEngine_RunAnalysisConcurrent(t *testing.T) {
	usageStore := usage.NewStore()
	recStore := recommendations.NewStore()
	seedCostDivergence(usageStore)

	e := NewEngine(usageStore, recStore, Config{MinSamples: 50, CostThresholdPercent: 20})

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.RunAnalysis(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Caller %d: RunAnalysis failed: %v", i, err)
		}
	}
	if recStore.Count() != 1 {
		t.Errorf("Expected 1 record after concurrent runs, got %d", recStore.Count())
	}
}

func TestEngine_ConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.applyDefaults()

	if cfg.MinSamples != 50 {
		t.Errorf("Expected default MinSamples 50, got %d", cfg.MinSamples)
	}
	if cfg.CostThresholdPercent != 20 {
		t.Errorf("Expected default CostThresholdPercent 20, got %g", cfg.CostThresholdPercent)
	}
	if cfg.ErrorThresholdPercent != 5 {
		t.Errorf("Expected default ErrorThresholdPercent 5, got %g", cfg.ErrorThresholdPercent)
	}
}

func TestRunIsolated_RecoversPanic(t *testing.T) {
	recs, err := runIsolated("boom", nil, "2026-03-01",
		func([]usage.Aggregate, string) []*recommendations.Recommendation {
			panic("analysis bug")
		})
	if err == nil {
		t.Fatal("Expected error from panicking analysis")
	}
	if recs != nil {
		t.Errorf("Expected nil recommendations after panic, got %v", recs)
	}
}
