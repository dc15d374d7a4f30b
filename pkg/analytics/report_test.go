package analytics

import (
	"math"
	"testing"

	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/usage"
)

func TestGenerateDailyReport_EmptyStore(t *testing.T) {
	e := newTestEngine(Config{})

	report := e.GenerateDailyReport()
	if report.Date != usage.Today() {
		t.Errorf("Expected today's date %s, got %s", usage.Today(), report.Date)
	}
	if report.TotalRequests != 0 || report.TotalCostUSD != 0 || report.TotalTokens != 0 {
		t.Errorf("Expected zeroed totals, got requests=%d cost=%g tokens=%d",
			report.TotalRequests, report.TotalCostUSD, report.TotalTokens)
	}
	if report.Providers == nil {
		t.Error("Expected an empty provider slice, got nil")
	}
	if len(report.Providers) != 0 {
		t.Errorf("Expected no providers, got %d", len(report.Providers))
	}
	if report.ProviderCount != 0 || report.ModelCount != 0 {
		t.Errorf("Expected zero counts, got providers=%d models=%d",
			report.ProviderCount, report.ModelCount)
	}
}

func TestGenerateDailyReport_Totals(t *testing.T) {
	usageStore := usage.NewStore()
	recStore := recommendations.NewStore()

	for i := 0; i < 10; i++ {
		usageStore.Record("openai", "gpt-4", usage.Sample{
			PromptTokens:     100,
			CompletionTokens: 50,
			CostUSD:          0.02,
		}, 200)
	}
	for i := 0; i < 5; i++ {
		usageStore.Record("anthropic", "claude", usage.Sample{
			PromptTokens:     200,
			CompletionTokens: 100,
			CostUSD:          0.03,
		}, 400)
	}

	e := NewEngine(usageStore, recStore, Config{})
	report := e.GenerateDailyReport()

	if report.TotalRequests != 15 {
		t.Errorf("Expected 15 requests, got %d", report.TotalRequests)
	}
	if report.TotalTokens != 10*150+5*300 {
		t.Errorf("Expected 3000 tokens, got %d", report.TotalTokens)
	}
	if math.Abs(report.TotalCostUSD-0.35) > 1e-9 {
		t.Errorf("Expected $0.35 total cost, got $%g", report.TotalCostUSD)
	}
	if report.ProviderCount != 2 || report.ModelCount != 2 {
		t.Errorf("Expected 2 providers and 2 models, got %d and %d",
			report.ProviderCount, report.ModelCount)
	}

	if len(report.Providers) != 2 {
		t.Fatalf("Expected 2 provider breakdowns, got %d", len(report.Providers))
	}
	// name-sorted: anthropic then openai
	if report.Providers[0].Provider != "anthropic" || report.Providers[1].Provider != "openai" {
		t.Errorf("Expected anthropic then openai, got %s then %s",
			report.Providers[0].Provider, report.Providers[1].Provider)
	}
	if report.Providers[0].AvgLatencyMs != 400 {
		t.Errorf("Expected anthropic avg latency 400, got %d",
			report.Providers[0].AvgLatencyMs)
	}
}

func TestGenerateDailyReport_IncludesStoredRecommendations(t *testing.T) {
	usageStore := usage.NewStore()
	recStore := recommendations.NewStore()

	err := recStore.Store([]*recommendations.Recommendation{{
		ID:          "abc",
		Date:        "2026-03-01",
		Type:        recommendations.TypeReliability,
		Priority:    recommendations.PriorityLow,
		Description: "verify provider configuration",
		Reliability: &recommendations.ReliabilityDetail{Provider: "minor"},
	}})
	if err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	e := NewEngine(usageStore, recStore, Config{})
	report := e.GenerateDailyReport()

	if len(report.Recommendations) != 1 {
		t.Fatalf("Expected 1 recommendation in report, got %d", len(report.Recommendations))
	}
	if report.Recommendations[0].ID != "abc" {
		t.Errorf("Expected recommendation abc, got %s", report.Recommendations[0].ID)
	}
}
