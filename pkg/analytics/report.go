package analytics

import (
	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/usage"
)

// ProviderBreakdown summarizes one provider's contribution to a day.
type ProviderBreakdown struct {
	Provider     string  `json:"provider"`
	Calls        int64   `json:"calls"`
	CostUSD      float64 `json:"cost_usd"`
	TotalTokens  int64   `json:"total_tokens"`
	AvgLatencyMs int64   `json:"avg_latency_ms"`
}

// DailyReport aggregates today's usage into totals with per-provider
// breakdowns and the current recommendation list.
type DailyReport struct {
	Date            string                            `json:"date"`
	TotalRequests   int64                             `json:"total_requests"`
	TotalCostUSD    float64                           `json:"total_cost_usd"`
	TotalTokens     int64                             `json:"total_tokens"`
	ProviderCount   int                               `json:"provider_count"`
	ModelCount      int                               `json:"model_count"`
	Providers       []ProviderBreakdown               `json:"providers"`
	Recommendations []*recommendations.Recommendation `json:"recommendations"`
}

// GenerateDailyReport summarizes today's recorded usage. With no data it
// returns a well-formed zeroed report carrying today's date; it never fails.
func (e *Engine) GenerateDailyReport() *DailyReport {
	date := usage.Today()
	aggs := e.usage.ByDate(date)

	report := &DailyReport{
		Date:            date,
		Providers:       []ProviderBreakdown{},
		Recommendations: e.recs.All(),
	}

	models := make(map[string]struct{})
	for _, agg := range aggs {
		report.TotalRequests += agg.Calls
		report.TotalCostUSD += agg.CostUSD
		report.TotalTokens += agg.TotalTokens
		models[agg.Model] = struct{}{}
	}
	report.ModelCount = len(models)

	for _, stats := range sortedProviders(groupByProvider(aggs)) {
		report.Providers = append(report.Providers, ProviderBreakdown{
			Provider:     stats.provider,
			Calls:        stats.calls,
			CostUSD:      stats.costUSD,
			TotalTokens:  stats.totalTokens,
			AvgLatencyMs: stats.avgLatencyMs(),
		})
	}
	report.ProviderCount = len(report.Providers)

	return report
}
