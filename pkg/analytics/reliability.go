package analytics

import (
	"fmt"

	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/usage"
)

// underutilizedShare is the fraction of total call volume below which a
// provider with any traffic at all is flagged. A trickle of requests to an
// otherwise idle provider usually indicates misconfigured routing rather
// than a deliberate split.
const underutilizedShare = 0.05

// analyzeUsageDistribution checks each provider's share of total call
// volume and flags providers receiving a nonzero but marginal fraction of
// traffic.
func (e *Engine) analyzeUsageDistribution(aggs []usage.Aggregate, date string) []*recommendations.Recommendation {
	grouped := groupByProvider(aggs)

	var totalCalls int64
	for _, stats := range grouped {
		totalCalls += stats.calls
	}
	if totalCalls == 0 {
		return nil
	}

	var recs []*recommendations.Recommendation
	for _, stats := range sortedProviders(grouped) {
		share := float64(stats.calls) / float64(totalCalls)
		if stats.calls == 0 || share >= underutilizedShare {
			continue
		}

		recs = append(recs, &recommendations.Recommendation{
			ID:       recommendationID(string(recommendations.TypeReliability), stats.provider, "underutilized"),
			Date:     date,
			Type:     recommendations.TypeReliability,
			Priority: recommendations.PriorityLow,
			Description: fmt.Sprintf(
				"Provider %s handles only %.1f%% of call volume (%d of %d calls); verify it is intentionally configured",
				stats.provider, share*100, stats.calls, totalCalls),
			Reliability: &recommendations.ReliabilityDetail{
				Provider:      stats.provider,
				ProviderCalls: stats.calls,
				TotalCalls:    totalCalls,
				CallShare:     share,
			},
		})
	}

	return recs
}
