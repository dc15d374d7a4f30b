package analytics

import (
	"fmt"

	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/usage"
)

const (
	// slowP95Factor flags a provider whose p95 latency exceeds this
	// multiple of the cross-provider mean p95.
	slowP95Factor = 1.5

	// inconsistentRatio flags a provider whose p95/p50 ratio exceeds this
	// value.
	inconsistentRatio = 3.0
)

// analyzePerformanceTrends computes p50/p95/p99 latency percentiles per
// provider from the per-record average latencies and flags outliers.
//
// A provider is "slow" when its p95 exceeds 1.5x the mean p95 across all
// providers, and "inconsistent" when its p95 is more than 3x its p50. Both
// flags can fire for the same provider; they are separate findings with
// separate ids.
func (e *Engine) analyzePerformanceTrends(aggs []usage.Aggregate, date string) []*recommendations.Recommendation {
	grouped := groupByProvider(aggs)
	if len(grouped) == 0 {
		return nil
	}

	type percentiles struct {
		stats *providerStats
		p50   int64
		p95   int64
		p99   int64
	}

	providers := sortedProviders(grouped)
	computed := make([]percentiles, 0, len(providers))
	var p95Sum float64
	for _, stats := range providers {
		computed = append(computed, percentiles{
			stats: stats,
			p50:   Percentile(stats.perRecordLatencies, 0.50),
			p95:   Percentile(stats.perRecordLatencies, 0.95),
			p99:   Percentile(stats.perRecordLatencies, 0.99),
		})
		p95Sum += float64(computed[len(computed)-1].p95)
	}
	meanP95 := p95Sum / float64(len(computed))

	var recs []*recommendations.Recommendation
	for _, pc := range computed {
		if float64(pc.p95) > meanP95*slowP95Factor {
			recs = append(recs, &recommendations.Recommendation{
				ID:       recommendationID(string(recommendations.TypePerformance), pc.stats.provider, string(recommendations.IssueSlow)),
				Date:     date,
				Type:     recommendations.TypePerformance,
				Priority: recommendations.PriorityMedium,
				Description: fmt.Sprintf(
					"Provider %s has p95 latency of %dms, more than %.1fx the %.0fms mean across providers",
					pc.stats.provider, pc.p95, slowP95Factor, meanP95),
				Performance: &recommendations.PerformanceDetail{
					Provider:  pc.stats.provider,
					Issue:     recommendations.IssueSlow,
					P50Ms:     pc.p50,
					P95Ms:     pc.p95,
					P99Ms:     pc.p99,
					MeanP95Ms: meanP95,
				},
			})
		}

		if pc.p50 > 0 && float64(pc.p95)/float64(pc.p50) > inconsistentRatio {
			recs = append(recs, &recommendations.Recommendation{
				ID:       recommendationID(string(recommendations.TypePerformance), pc.stats.provider, string(recommendations.IssueInconsistent)),
				Date:     date,
				Type:     recommendations.TypePerformance,
				Priority: recommendations.PriorityLow,
				Description: fmt.Sprintf(
					"Provider %s has inconsistent latency: p95 of %dms is more than %.0fx its p50 of %dms",
					pc.stats.provider, pc.p95, inconsistentRatio, pc.p50),
				Performance: &recommendations.PerformanceDetail{
					Provider:  pc.stats.provider,
					Issue:     recommendations.IssueInconsistent,
					P50Ms:     pc.p50,
					P95Ms:     pc.p95,
					P99Ms:     pc.p99,
					MeanP95Ms: meanP95,
				},
			})
		}
	}

	return recs
}
