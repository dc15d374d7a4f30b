package usage

import (
	"math"
	"time"
)

// DateLayout is the canonical date format for aggregate keys.
const DateLayout = "2006-01-02"

// microsPerDollar converts between USD and the integer micro-dollar
// representation used by the aggregate counters.
const microsPerDollar = 1_000_000

// Sample carries the token and cost figures reported for a single completed
// upstream request.
//
// TotalTokens may be left zero, in which case it is derived as
// PromptTokens + CompletionTokens. CostUSD may be zero when the provider did
// not report pricing. Negative values are treated as zero on ingestion; a
// malformed sample must never fail the request path.
type Sample struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int

	// TotalTokens is the total token count. Zero means "derive from
	// prompt + completion".
	TotalTokens int

	// CostUSD is the request cost in US dollars, if known.
	CostUSD float64
}

// Aggregate is a formatted, read-only snapshot of the running totals for one
// (date, provider, model) key.
type Aggregate struct {
	// Date is the aggregation day in DateLayout format.
	Date string `json:"date"`

	// Provider is the upstream provider name (e.g. "openai").
	Provider string `json:"provider"`

	// Model is the model name (e.g. "gpt-4").
	Model string `json:"model"`

	// Calls is the number of recorded requests.
	Calls int64 `json:"calls"`

	// PromptTokens is the cumulative prompt token count.
	PromptTokens int64 `json:"prompt_tokens"`

	// CompletionTokens is the cumulative completion token count.
	CompletionTokens int64 `json:"completion_tokens"`

	// TotalTokens is the cumulative total token count.
	TotalTokens int64 `json:"total_tokens"`

	// CostMicroUSD is the cumulative cost in integer micro-dollars.
	CostMicroUSD int64 `json:"cost_micro_usd"`

	// CostUSD is CostMicroUSD converted to dollars.
	CostUSD float64 `json:"cost_usd"`

	// LatencySumMs is the cumulative request latency in milliseconds.
	LatencySumMs int64 `json:"latency_sum_ms"`

	// AvgLatencyMs is LatencySumMs / Calls using integer division
	// (truncation), or 0 when Calls is 0.
	AvgLatencyMs int64 `json:"avg_latency_ms"`
}

// CostPer1KTokens returns the aggregate cost per thousand tokens in USD,
// or 0 when no tokens were recorded.
func (a Aggregate) CostPer1KTokens() float64 {
	if a.TotalTokens == 0 {
		return 0
	}
	return a.CostUSD / float64(a.TotalTokens) * 1000
}

// Today returns the current UTC date in DateLayout format.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// dollarsToMicros converts a dollar amount to integer micro-dollars,
// rounding to the nearest micro-dollar. Negative and non-finite amounts
// are coerced to zero.
func dollarsToMicros(usd float64) int64 {
	if usd <= 0 || math.IsNaN(usd) || math.IsInf(usd, 0) {
		return 0
	}
	return int64(math.Round(usd * microsPerDollar))
}
