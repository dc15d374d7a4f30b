package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"mercator-hq/ganymede/pkg/usage"
)

// ErrNoSuitableProvider is returned when no provider matches the queried
// model within the caller's constraints, or when every surviving provider
// scores non-positively.
var ErrNoSuitableProvider = errors.New("no suitable provider for the requested model and constraints")

// Constraints restricts provider selection. Zero values mean unconstrained.
type Constraints struct {
	// MaxLatencyMs excludes providers whose average latency exceeds this
	// value.
	MaxLatencyMs int64

	// MaxCostPer1KTokens excludes providers whose cost per thousand
	// tokens exceeds this value.
	MaxCostPer1KTokens float64
}

// ProviderScore is the selection result for a model query.
type ProviderScore struct {
	Provider        string  `json:"provider"`
	Score           float64 `json:"score"`
	AvgLatencyMs    int64   `json:"avg_latency_ms"`
	CostPer1KTokens float64 `json:"cost_per_1k_tokens"`
	Calls           int64   `json:"calls"`
}

// ModelAlternative is one cheaper (provider, model) pair for an
// alternatives query.
type ModelAlternative struct {
	Provider        string  `json:"provider"`
	Model           string  `json:"model"`
	CostPer1KTokens float64 `json:"cost_per_1k_tokens"`
	SavingsPercent  float64 `json:"savings_percent"`
}

// RecommendProvider returns the best-scoring provider with recorded usage
// for the given model, subject to the caller's constraints.
//
// The model matches an aggregate on equality or substring, so "gpt-4"
// matches "gpt-4-turbo". Each surviving provider is scored as
//
//	score = 1000 - costPer1K - avgLatencyMs/100
//
// so cost dominates and latency breaks near-ties. Selection is advisory;
// nothing routes on the result.
func (e *Engine) RecommendProvider(model string, constraints Constraints) (*ProviderScore, error) {
	return recommendProvider(e.usage.All(), model, constraints)
}

func recommendProvider(aggs []usage.Aggregate, model string, constraints Constraints) (*ProviderScore, error) {
	var matching []usage.Aggregate
	for _, agg := range aggs {
		if agg.Model == model || strings.Contains(agg.Model, model) {
			matching = append(matching, agg)
		}
	}
	if len(matching) == 0 {
		return nil, fmt.Errorf("%w: no usage recorded for model %q", ErrNoSuitableProvider, model)
	}

	var best *ProviderScore
	for _, stats := range sortedProviders(groupByProvider(matching)) {
		avgLatency := stats.avgLatencyMs()
		costPer1K := stats.costPer1K()

		if constraints.MaxLatencyMs > 0 && avgLatency > constraints.MaxLatencyMs {
			continue
		}
		if constraints.MaxCostPer1KTokens > 0 && costPer1K > constraints.MaxCostPer1KTokens {
			continue
		}

		score := 1000 - costPer1K - float64(avgLatency)/100
		if score <= 0 {
			continue
		}
		if best == nil || score > best.Score {
			best = &ProviderScore{
				Provider:        stats.provider,
				Score:           score,
				AvgLatencyMs:    avgLatency,
				CostPer1KTokens: costPer1K,
				Calls:           stats.calls,
			}
		}
	}

	if best == nil {
		return nil, ErrNoSuitableProvider
	}
	return best, nil
}

// ModelAlternatives returns up to five (provider, model) pairs at least 10%
// cheaper per thousand tokens than the queried pair, sorted by savings
// descending.
func (e *Engine) ModelAlternatives(provider, model string) ([]ModelAlternative, error) {
	return modelAlternatives(e.usage.All(), provider, model)
}

const (
	// alternativeMaxRatio is the cost ratio an alternative must stay at
	// or below: at least 10% cheaper.
	alternativeMaxRatio = 0.9

	// maxAlternatives caps the result size.
	maxAlternatives = 5
)

func modelAlternatives(aggs []usage.Aggregate, provider, model string) ([]ModelAlternative, error) {
	type pairKey struct{ provider, model string }
	type pairStats struct {
		tokens  int64
		costUSD float64
	}

	pairs := make(map[pairKey]*pairStats)
	for _, agg := range aggs {
		k := pairKey{provider: agg.Provider, model: agg.Model}
		stats, ok := pairs[k]
		if !ok {
			stats = &pairStats{}
			pairs[k] = stats
		}
		stats.tokens += agg.TotalTokens
		stats.costUSD += agg.CostUSD
	}

	costPer1K := func(s *pairStats) float64 {
		if s.tokens == 0 {
			return 0
		}
		return s.costUSD / float64(s.tokens) * 1000
	}

	base, ok := pairs[pairKey{provider: provider, model: model}]
	if !ok {
		return nil, fmt.Errorf("no usage recorded for provider %q model %q", provider, model)
	}
	baseCost := costPer1K(base)
	if baseCost <= 0 {
		// Without pricing data for the base pair there is nothing to
		// compare against.
		return nil, nil
	}

	var alternatives []ModelAlternative
	for k, stats := range pairs {
		if k.provider == provider && k.model == model {
			continue
		}
		altCost := costPer1K(stats)
		// Pairs without cost data are unpriced, not free.
		if altCost <= 0 || altCost > baseCost*alternativeMaxRatio {
			continue
		}
		alternatives = append(alternatives, ModelAlternative{
			Provider:        k.provider,
			Model:           k.model,
			CostPer1KTokens: altCost,
			SavingsPercent:  (baseCost - altCost) / baseCost * 100,
		})
	}

	sort.Slice(alternatives, func(i, j int) bool {
		if alternatives[i].SavingsPercent != alternatives[j].SavingsPercent {
			return alternatives[i].SavingsPercent > alternatives[j].SavingsPercent
		}
		if alternatives[i].Provider != alternatives[j].Provider {
			return alternatives[i].Provider < alternatives[j].Provider
		}
		return alternatives[i].Model < alternatives[j].Model
	})

	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}
	return alternatives, nil
}
