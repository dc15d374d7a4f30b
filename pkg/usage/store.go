package usage

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Store is a thread-safe usage aggregate table keyed by
// (date, provider, model).
//
// Writers call Record once per completed request. Each aggregate's counters
// are lock-free atomics and aggregates are created lazily with a single
// LoadOrStore, so concurrent writers to the same key never lose increments
// and never block each other beyond the map access itself.
//
// Readers receive formatted copies. Cross-field atomicity within one key is
// not guaranteed instant-for-instant: a snapshot taken mid-Record may see
// the calls counter updated before the token counters. This is acceptable
// for analytics and avoids a per-key lock on the request path.
type Store struct {
	// aggregates maps key -> *counters
	aggregates sync.Map

	// now is the clock used to derive aggregation dates.
	now func() time.Time
}

// key identifies one aggregate.
type key struct {
	date     string
	provider string
	model    string
}

// counters holds the raw cumulative totals for one key. All fields are
// monotonically non-decreasing for the lifetime of the entry.
type counters struct {
	calls            atomic.Int64
	promptTokens     atomic.Int64
	completionTokens atomic.Int64
	totalTokens      atomic.Int64
	costMicroUSD     atomic.Int64
	latencySumMs     atomic.Int64
}

// NewStore creates an empty usage store.
func NewStore() *Store {
	return &Store{
		now: time.Now,
	}
}

// Record adds one sample to the aggregate for (today, provider, model).
//
// Record never fails and never blocks the caller beyond per-key map access:
// negative or non-finite numeric fields are coerced to zero rather than
// rejected, and a missing total token count is derived as
// prompt + completion. It is safe for arbitrary concurrent invocation.
func (s *Store) Record(provider, model string, sample Sample, latencyMs int64) {
	prompt := int64(sample.PromptTokens)
	if prompt < 0 {
		prompt = 0
	}
	completion := int64(sample.CompletionTokens)
	if completion < 0 {
		completion = 0
	}
	total := int64(sample.TotalTokens)
	if total <= 0 {
		total = prompt + completion
	}
	if latencyMs < 0 {
		latencyMs = 0
	}

	c := s.countersFor(key{
		date:     s.now().UTC().Format(DateLayout),
		provider: provider,
		model:    model,
	})

	c.calls.Add(1)
	c.promptTokens.Add(prompt)
	c.completionTokens.Add(completion)
	c.totalTokens.Add(total)
	c.costMicroUSD.Add(dollarsToMicros(sample.CostUSD))
	c.latencySumMs.Add(latencyMs)
}

// countersFor returns the counters for a key, creating them on first use.
func (s *Store) countersFor(k key) *counters {
	if val, ok := s.aggregates.Load(k); ok {
		return val.(*counters)
	}
	val, _ := s.aggregates.LoadOrStore(k, &counters{})
	return val.(*counters)
}

// All returns a formatted snapshot of every aggregate, sorted by
// (date descending, provider ascending, model ascending).
func (s *Store) All() []Aggregate {
	return s.collect(func(key) bool { return true })
}

// ByDate returns the aggregates recorded on the given date.
func (s *Store) ByDate(date string) []Aggregate {
	return s.collect(func(k key) bool { return k.date == date })
}

// ByProvider returns the aggregates recorded for the given provider.
func (s *Store) ByProvider(provider string) []Aggregate {
	return s.collect(func(k key) bool { return k.provider == provider })
}

// collect builds a sorted, formatted snapshot of all aggregates whose key
// matches the filter.
func (s *Store) collect(match func(key) bool) []Aggregate {
	var results []Aggregate
	s.aggregates.Range(func(k, v interface{}) bool {
		entry := k.(key)
		if !match(entry) {
			return true
		}
		results = append(results, formatAggregate(entry, v.(*counters)))
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		if results[i].Date != results[j].Date {
			return results[i].Date > results[j].Date
		}
		if results[i].Provider != results[j].Provider {
			return results[i].Provider < results[j].Provider
		}
		return results[i].Model < results[j].Model
	})

	return results
}

// formatAggregate derives the presentation fields from raw counters.
func formatAggregate(k key, c *counters) Aggregate {
	agg := Aggregate{
		Date:             k.date,
		Provider:         k.provider,
		Model:            k.model,
		Calls:            c.calls.Load(),
		PromptTokens:     c.promptTokens.Load(),
		CompletionTokens: c.completionTokens.Load(),
		TotalTokens:      c.totalTokens.Load(),
		CostMicroUSD:     c.costMicroUSD.Load(),
		LatencySumMs:     c.latencySumMs.Load(),
	}

	agg.CostUSD = float64(agg.CostMicroUSD) / microsPerDollar
	if agg.Calls > 0 {
		// Integer truncation is the documented contract here.
		agg.AvgLatencyMs = agg.LatencySumMs / agg.Calls
	}

	return agg
}

// ClearAll removes every aggregate. Intended for test isolation and explicit
// operator resets.
func (s *Store) ClearAll() {
	s.aggregates.Range(func(k, _ interface{}) bool {
		s.aggregates.Delete(k)
		return true
	})
}

// PruneBefore removes all aggregates dated strictly before cutoffDate
// (DateLayout format) and returns the number of keys removed. Dates in
// DateLayout compare correctly as strings.
//
// PruneBefore runs on the analysis worker, never on the ingestion path.
func (s *Store) PruneBefore(cutoffDate string) int {
	removed := 0
	s.aggregates.Range(func(k, _ interface{}) bool {
		if k.(key).date < cutoffDate {
			s.aggregates.Delete(k)
			removed++
		}
		return true
	})
	return removed
}
