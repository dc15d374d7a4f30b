package recommendations

import "fmt"

// Type classifies a recommendation by the analysis that produced it.
type Type string

const (
	// TypeCostOptimization marks savings opportunities from provider cost
	// divergence.
	TypeCostOptimization Type = "cost_optimization"

	// TypePerformance marks latency regressions and inconsistency.
	TypePerformance Type = "performance"

	// TypeReliability marks usage-distribution anomalies.
	TypeReliability Type = "reliability"
)

// Valid reports whether t is a known recommendation type.
func (t Type) Valid() bool {
	switch t {
	case TypeCostOptimization, TypePerformance, TypeReliability:
		return true
	}
	return false
}

// Priority orders recommendations by urgency. Lower values sort first.
type Priority int

const (
	PriorityCritical Priority = iota
	PriorityHigh
	PriorityMedium
	PriorityLow
)

// String returns the lowercase priority name.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// PerformanceIssue names the condition a performance recommendation flags.
type PerformanceIssue string

const (
	// IssueSlow means the provider's p95 latency exceeds 1.5x the
	// cross-provider mean p95.
	IssueSlow PerformanceIssue = "slow"

	// IssueInconsistent means the provider's p95/p50 ratio exceeds 3x.
	IssueInconsistent PerformanceIssue = "inconsistent"
)

// CostOptimizationDetail names the providers involved in a cost savings
// opportunity and quantifies the estimated impact.
type CostOptimizationDetail struct {
	CurrentProvider     string  `json:"current_provider"`
	SuggestedProvider   string  `json:"suggested_provider"`
	CurrentCostPer1K    float64 `json:"current_cost_per_1k"`
	SuggestedCostPer1K  float64 `json:"suggested_cost_per_1k"`
	CostSavingsPercent  float64 `json:"cost_savings_percent"`
	EstimatedSavingsUSD float64 `json:"estimated_savings_usd"`
}

// PerformanceDetail carries the latency percentiles behind a performance
// flag.
type PerformanceDetail struct {
	Provider  string           `json:"provider"`
	Issue     PerformanceIssue `json:"issue"`
	P50Ms     int64            `json:"p50_ms"`
	P95Ms     int64            `json:"p95_ms"`
	P99Ms     int64            `json:"p99_ms"`
	MeanP95Ms float64          `json:"mean_p95_ms"`
}

// ReliabilityDetail describes a usage-distribution anomaly for a provider.
type ReliabilityDetail struct {
	Provider      string  `json:"provider"`
	ProviderCalls int64   `json:"provider_calls"`
	TotalCalls    int64   `json:"total_calls"`
	CallShare     float64 `json:"call_share"`
}

// Recommendation is one prioritized, actionable suggestion produced by an
// analysis run.
//
// Exactly one of the detail fields is populated, selected by Type. ID is
// derived from the recommendation's distinguishing content so that re-runs
// overwrite the same logical recommendation instead of accumulating
// duplicates.
type Recommendation struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"`
	Type        Type     `json:"type"`
	Priority    Priority `json:"priority"`
	Description string   `json:"description"`

	CostOptimization *CostOptimizationDetail `json:"cost_optimization,omitempty"`
	Performance      *PerformanceDetail      `json:"performance,omitempty"`
	Reliability      *ReliabilityDetail      `json:"reliability,omitempty"`
}

// Validate checks that the recommendation is internally consistent: a known
// type, a non-empty id and date, and the detail variant matching the type.
func (r *Recommendation) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("recommendation id cannot be empty")
	}
	if r.Date == "" {
		return fmt.Errorf("recommendation date cannot be empty")
	}
	if !r.Type.Valid() {
		return fmt.Errorf("unknown recommendation type %q", r.Type)
	}

	switch r.Type {
	case TypeCostOptimization:
		if r.CostOptimization == nil {
			return fmt.Errorf("cost_optimization recommendation missing detail")
		}
	case TypePerformance:
		if r.Performance == nil {
			return fmt.Errorf("performance recommendation missing detail")
		}
	case TypeReliability:
		if r.Reliability == nil {
			return fmt.Errorf("reliability recommendation missing detail")
		}
	}

	return nil
}
