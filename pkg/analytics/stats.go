package analytics

import (
	"sort"

	"mercator-hq/ganymede/pkg/usage"
)

// providerStats accumulates usage totals across every aggregate row
// belonging to one provider.
type providerStats struct {
	provider     string
	calls        int64
	totalTokens  int64
	costUSD      float64
	latencySumMs int64

	// perRecordLatencies holds the average latency of each contributing
	// aggregate row, used for percentile analysis.
	perRecordLatencies []int64
}

// costPer1K returns the provider's cost per thousand tokens in USD, or 0
// when no tokens were recorded.
func (p *providerStats) costPer1K() float64 {
	if p.totalTokens == 0 {
		return 0
	}
	return p.costUSD / float64(p.totalTokens) * 1000
}

// avgLatencyMs returns the call-weighted average latency with integer
// truncation, or 0 when no calls were recorded.
func (p *providerStats) avgLatencyMs() int64 {
	if p.calls == 0 {
		return 0
	}
	return p.latencySumMs / p.calls
}

// groupByProvider folds aggregate rows into per-provider totals.
func groupByProvider(aggs []usage.Aggregate) map[string]*providerStats {
	grouped := make(map[string]*providerStats)
	for _, agg := range aggs {
		stats, ok := grouped[agg.Provider]
		if !ok {
			stats = &providerStats{provider: agg.Provider}
			grouped[agg.Provider] = stats
		}
		stats.calls += agg.Calls
		stats.totalTokens += agg.TotalTokens
		stats.costUSD += agg.CostUSD
		stats.latencySumMs += agg.LatencySumMs
		stats.perRecordLatencies = append(stats.perRecordLatencies, agg.AvgLatencyMs)
	}
	return grouped
}

// sortedProviders returns the grouped stats in provider-name order for
// deterministic iteration.
func sortedProviders(grouped map[string]*providerStats) []*providerStats {
	providers := make([]*providerStats, 0, len(grouped))
	for _, stats := range grouped {
		providers = append(providers, stats)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].provider < providers[j].provider
	})
	return providers
}
