package analytics

import (
	"errors"
	"math"
	"testing"

	"mercator-hq/ganymede/pkg/usage"
)

func selectionAggregates() []usage.Aggregate {
	return []usage.Aggregate{
		// cheap but slow: cost 0.01/1k, avg latency 2000ms
		{Date: "2026-03-01", Provider: "alpha", Model: "gpt-4", Calls: 10,
			TotalTokens: 10_000, CostUSD: 0.1, LatencySumMs: 20_000, AvgLatencyMs: 2000},
		// pricier but fast: cost 0.05/1k, avg latency 100ms
		{Date: "2026-03-01", Provider: "beta", Model: "gpt-4-turbo", Calls: 10,
			TotalTokens: 10_000, CostUSD: 0.5, LatencySumMs: 1_000, AvgLatencyMs: 100},
	}
}

func TestRecommendProvider_Unconstrained(t *testing.T) {
	// latency dominates at these costs, so beta wins
	score, err := recommendProvider(selectionAggregates(), "gpt-4", Constraints{})
	if err != nil {
		t.Fatalf("recommendProvider failed: %v", err)
	}
	if score.Provider != "beta" {
		t.Errorf("Expected beta, got %s", score.Provider)
	}
	if score.AvgLatencyMs != 100 {
		t.Errorf("Expected avg latency 100, got %d", score.AvgLatencyMs)
	}
	if math.Abs(score.CostPer1KTokens-0.05) > 1e-9 {
		t.Errorf("Expected cost 0.05 per 1k, got %g", score.CostPer1KTokens)
	}
}

func TestRecommendProvider_SubstringModelMatch(t *testing.T) {
	// "gpt-4" matches beta's "gpt-4-turbo" rows too
	score, err := recommendProvider(selectionAggregates(), "gpt-4", Constraints{MaxLatencyMs: 500})
	if err != nil {
		t.Fatalf("recommendProvider failed: %v", err)
	}
	if score.Provider != "beta" {
		t.Errorf("Expected beta under the latency cap, got %s", score.Provider)
	}
}

func TestRecommendProvider_CostConstraint(t *testing.T) {
	score, err := recommendProvider(selectionAggregates(), "gpt-4", Constraints{MaxCostPer1KTokens: 0.02})
	if err != nil {
		t.Fatalf("recommendProvider failed: %v", err)
	}
	if score.Provider != "alpha" {
		t.Errorf("Expected alpha under the cost cap, got %s", score.Provider)
	}
}

func TestRecommendProvider_NoSurvivors(t *testing.T) {
	_, err := recommendProvider(selectionAggregates(), "gpt-4", Constraints{
		MaxLatencyMs:       50,
		MaxCostPer1KTokens: 0.001,
	})
	if !errors.Is(err, ErrNoSuitableProvider) {
		t.Errorf("Expected ErrNoSuitableProvider, got %v", err)
	}
}

func TestRecommendProvider_UnknownModel(t *testing.T) {
	_, err := recommendProvider(selectionAggregates(), "llama-99", Constraints{})
	if !errors.Is(err, ErrNoSuitableProvider) {
		t.Errorf("Expected ErrNoSuitableProvider, got %v", err)
	}
}

func TestRecommendProvider_EmptyUsage(t *testing.T) {
	_, err := recommendProvider(nil, "gpt-4", Constraints{})
	if !errors.Is(err, ErrNoSuitableProvider) {
		t.Errorf("Expected ErrNoSuitableProvider, got %v", err)
	}
}

func TestModelAlternatives_SortedBySavings(t *testing.T) {
	aggs := []usage.Aggregate{
		{Provider: "alpha", Model: "gpt-4", TotalTokens: 10_000, CostUSD: 1.0},
		{Provider: "beta", Model: "small", TotalTokens: 10_000, CostUSD: 0.5},
		{Provider: "gamma", Model: "mini", TotalTokens: 10_000, CostUSD: 0.2},
		// only 5% cheaper, below the 10% floor
		{Provider: "delta", Model: "edge", TotalTokens: 10_000, CostUSD: 0.95},
		// no cost recorded: unpriced, not free
		{Provider: "epsilon", Model: "gratis", TotalTokens: 10_000, CostUSD: 0},
	}

	alts, err := modelAlternatives(aggs, "alpha", "gpt-4")
	if err != nil {
		t.Fatalf("modelAlternatives failed: %v", err)
	}
	if len(alts) != 2 {
		t.Fatalf("Expected 2 alternatives, got %d", len(alts))
	}

	if alts[0].Provider != "gamma" || alts[1].Provider != "beta" {
		t.Errorf("Expected gamma then beta, got %s then %s",
			alts[0].Provider, alts[1].Provider)
	}
	if math.Abs(alts[0].SavingsPercent-80) > 0.01 {
		t.Errorf("Expected 80%% savings for gamma, got %.2f%%", alts[0].SavingsPercent)
	}
}

func TestModelAlternatives_TenPercentBoundaryIncluded(t *testing.T) {
	aggs := []usage.Aggregate{
		{Provider: "alpha", Model: "gpt-4", TotalTokens: 10_000, CostUSD: 1.0},
		// exactly 10% cheaper qualifies
		{Provider: "zeta", Model: "exact", TotalTokens: 10_000, CostUSD: 0.9},
	}

	alts, err := modelAlternatives(aggs, "alpha", "gpt-4")
	if err != nil {
		t.Fatalf("modelAlternatives failed: %v", err)
	}
	if len(alts) != 1 {
		t.Fatalf("Expected the boundary alternative included, got %d", len(alts))
	}
	if math.Abs(alts[0].SavingsPercent-10) > 1e-6 {
		t.Errorf("Expected 10%% savings, got %g%%", alts[0].SavingsPercent)
	}
}

func TestModelAlternatives_CapsAtFive(t *testing.T) {
	aggs := []usage.Aggregate{
		{Provider: "base", Model: "big", TotalTokens: 10_000, CostUSD: 10.0},
	}
	cheap := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, p := range cheap {
		aggs = append(aggs, usage.Aggregate{
			Provider: p, Model: "tiny",
			TotalTokens: 10_000, CostUSD: 0.1 + float64(i)*0.1,
		})
	}

	alts, err := modelAlternatives(aggs, "base", "big")
	if err != nil {
		t.Fatalf("modelAlternatives failed: %v", err)
	}
	if len(alts) != 5 {
		t.Errorf("Expected the result capped at 5, got %d", len(alts))
	}
}

func TestModelAlternatives_UnknownBasePair(t *testing.T) {
	aggs := []usage.Aggregate{
		{Provider: "alpha", Model: "gpt-4", TotalTokens: 10_000, CostUSD: 1.0},
	}

	if _, err := modelAlternatives(aggs, "alpha", "nope"); err == nil {
		t.Error("Expected error for unknown base pair")
	}
}

func TestModelAlternatives_UnpricedBasePair(t *testing.T) {
	aggs := []usage.Aggregate{
		{Provider: "alpha", Model: "gpt-4", TotalTokens: 10_000, CostUSD: 0},
		{Provider: "beta", Model: "small", TotalTokens: 10_000, CostUSD: 0.5},
	}

	alts, err := modelAlternatives(aggs, "alpha", "gpt-4")
	if err != nil {
		t.Errorf("Expected no error for unpriced base, got %v", err)
	}
	if alts != nil {
		t.Errorf("Expected nil alternatives for unpriced base, got %v", alts)
	}
}
