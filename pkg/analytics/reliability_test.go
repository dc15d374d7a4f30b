package analytics

import (
	"math"
	"testing"

	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/usage"
)

func TestAnalyzeUsageDistribution_FlagsTrickleProvider(t *testing.T) {
	e := newTestEngine(Config{})

	aggs := []usage.Aggregate{
		{Date: "2026-03-01", Provider: "major", Model: "m", Calls: 990},
		{Date: "2026-03-01", Provider: "minor", Model: "m", Calls: 10},
	}

	recs := e.analyzeUsageDistribution(aggs, "2026-03-01")
	if len(recs) != 1 {
		t.Fatalf("Expected 1 recommendation, got %d", len(recs))
	}

	rec := recs[0]
	if rec.Type != recommendations.TypeReliability {
		t.Errorf("Expected reliability type, got %s", rec.Type)
	}
	if rec.Priority != recommendations.PriorityLow {
		t.Errorf("Expected low priority, got %s", rec.Priority)
	}

	detail := rec.Reliability
	if detail.Provider != "minor" {
		t.Errorf("Expected provider minor, got %s", detail.Provider)
	}
	if detail.ProviderCalls != 10 || detail.TotalCalls != 1000 {
		t.Errorf("Expected 10 of 1000 calls, got %d of %d",
			detail.ProviderCalls, detail.TotalCalls)
	}
	if math.Abs(detail.CallShare-0.01) > 1e-9 {
		t.Errorf("Expected 1%% share, got %g", detail.CallShare)
	}
}

func TestAnalyzeUsageDistribution_BalancedTraffic(t *testing.T) {
	e := newTestEngine(Config{})

	aggs := []usage.Aggregate{
		{Date: "2026-03-01", Provider: "a", Model: "m", Calls: 500},
		{Date: "2026-03-01", Provider: "b", Model: "m", Calls: 500},
	}

	if recs := e.analyzeUsageDistribution(aggs, "2026-03-01"); len(recs) != 0 {
		t.Errorf("Expected no recommendations for balanced traffic, got %d", len(recs))
	}
}

func TestAnalyzeUsageDistribution_IgnoresZeroCallProviders(t *testing.T) {
	e := newTestEngine(Config{})

	aggs := []usage.Aggregate{
		{Date: "2026-03-01", Provider: "busy", Model: "m", Calls: 100},
		{Date: "2026-03-01", Provider: "idle", Model: "m", Calls: 0},
	}

	if recs := e.analyzeUsageDistribution(aggs, "2026-03-01"); len(recs) != 0 {
		t.Errorf("Expected idle provider ignored, got %d recommendations", len(recs))
	}
}

func TestAnalyzeUsageDistribution_Empty(t *testing.T) {
	e := newTestEngine(Config{})

	if recs := e.analyzeUsageDistribution(nil, "2026-03-01"); len(recs) != 0 {
		t.Errorf("Expected no recommendations for empty input, got %d", len(recs))
	}
}

func TestAnalyzeUsageDistribution_ShareAtThresholdNotFlagged(t *testing.T) {
	e := newTestEngine(Config{})

	// exactly 5% share sits on the boundary and is not flagged
	aggs := []usage.Aggregate{
		{Date: "2026-03-01", Provider: "major", Model: "m", Calls: 95},
		{Date: "2026-03-01", Provider: "minor", Model: "m", Calls: 5},
	}

	if recs := e.analyzeUsageDistribution(aggs, "2026-03-01"); len(recs) != 0 {
		t.Errorf("Expected no recommendations at the boundary, got %d", len(recs))
	}
}
