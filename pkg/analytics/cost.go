package analytics

import (
	"fmt"

	"mercator-hq/ganymede/pkg/recommendations"
	"mercator-hq/ganymede/pkg/usage"
)

// Dollar-volume thresholds for the cost priority ladder. A savings
// opportunity on a provider with more total spend is more urgent.
const (
	costVolumeCritical = 100.0
	costVolumeHigh     = 50.0
	costVolumeMedium   = 10.0

	costSavingsCritical = 30.0
	costSavingsHigh     = 20.0
	costSavingsMedium   = 15.0
)

// analyzeCostOpportunities finds providers that could be replaced by a
// materially cheaper alternative.
//
// Providers with fewer than cfg.MinSamples calls are discarded before
// ranking to avoid recommendations built on noise. For each remaining
// provider, the cheapest other provider whose cost per 1K tokens is at most
// (100 - cfg.CostThresholdPercent)% of its own triggers a cost_optimization
// recommendation quantifying the relative savings and the estimated dollar
// impact on the provider's recorded spend.
func (e *Engine) analyzeCostOpportunities(aggs []usage.Aggregate, date string) []*recommendations.Recommendation {
	grouped := groupByProvider(aggs)

	var eligible []*providerStats
	for _, stats := range sortedProviders(grouped) {
		if stats.calls >= int64(e.cfg.MinSamples) {
			eligible = append(eligible, stats)
		}
	}
	if len(eligible) < 2 {
		return nil
	}

	// A candidate must be at least CostThresholdPercent cheaper.
	maxRatio := 1 - e.cfg.CostThresholdPercent/100

	var recs []*recommendations.Recommendation
	for _, current := range eligible {
		ownCost := current.costPer1K()
		if ownCost <= 0 {
			continue
		}

		var cheapest *providerStats
		for _, candidate := range eligible {
			if candidate.provider == current.provider {
				continue
			}
			candidateCost := candidate.costPer1K()
			if candidateCost <= 0 || candidateCost > ownCost*maxRatio {
				continue
			}
			if cheapest == nil || candidateCost < cheapest.costPer1K() {
				cheapest = candidate
			}
		}
		if cheapest == nil {
			continue
		}

		suggestedCost := cheapest.costPer1K()
		savingsPercent := (ownCost - suggestedCost) / ownCost * 100
		estimatedSavings := current.costUSD * savingsPercent / 100

		recs = append(recs, &recommendations.Recommendation{
			ID:       recommendationID(string(recommendations.TypeCostOptimization), current.provider, cheapest.provider),
			Date:     date,
			Type:     recommendations.TypeCostOptimization,
			Priority: costPriority(current.costUSD, savingsPercent),
			Description: fmt.Sprintf(
				"Provider %s averages $%.2f per 1K tokens while %s averages $%.2f; shifting this workload would cut token costs by %.1f%%",
				current.provider, ownCost, cheapest.provider, suggestedCost, savingsPercent),
			CostOptimization: &recommendations.CostOptimizationDetail{
				CurrentProvider:     current.provider,
				SuggestedProvider:   cheapest.provider,
				CurrentCostPer1K:    ownCost,
				SuggestedCostPer1K:  suggestedCost,
				CostSavingsPercent:  savingsPercent,
				EstimatedSavingsUSD: estimatedSavings,
			},
		})
	}

	return recs
}

// costPriority maps a provider's recorded spend and the relative savings to
// an urgency level.
func costPriority(totalCostUSD, savingsPercent float64) recommendations.Priority {
	switch {
	case totalCostUSD > costVolumeCritical && savingsPercent > costSavingsCritical:
		return recommendations.PriorityCritical
	case totalCostUSD > costVolumeHigh && savingsPercent > costSavingsHigh:
		return recommendations.PriorityHigh
	case totalCostUSD > costVolumeMedium && savingsPercent > costSavingsMedium:
		return recommendations.PriorityMedium
	default:
		return recommendations.PriorityLow
	}
}
