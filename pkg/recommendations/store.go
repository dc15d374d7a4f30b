package recommendations

import (
	"fmt"
	"sort"
	"sync"
)

// Store is a thread-safe table of the latest recommendations, keyed by
// (date, type, id).
//
// Storing a recommendation whose key already exists replaces the prior
// entry, which together with content-derived ids makes analysis runs
// idempotent. Reads return copies sorted by priority (critical first).
type Store struct {
	records map[storeKey]*Recommendation
	mu      sync.RWMutex
}

type storeKey struct {
	date string
	typ  Type
	id   string
}

// NewStore creates an empty recommendation store.
func NewStore() *Store {
	return &Store{
		records: make(map[storeKey]*Recommendation),
	}
}

// Store inserts or replaces the given recommendations. Invalid
// recommendations are rejected wholesale before anything is written, so a
// bad batch never partially overwrites prior results.
func (s *Store) Store(recs []*Recommendation) error {
	for _, r := range recs {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid recommendation: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range recs {
		record := *r
		s.records[storeKey{date: r.Date, typ: r.Type, id: r.ID}] = &record
	}

	return nil
}

// All returns every stored recommendation sorted by priority ascending
// (critical first), with ties broken by type and id for deterministic
// output.
func (s *Store) All() []*Recommendation {
	return s.collect(func(*Recommendation) bool { return true })
}

// ByType returns the stored recommendations of one type, priority sorted.
func (s *Store) ByType(t Type) []*Recommendation {
	return s.collect(func(r *Recommendation) bool { return r.Type == t })
}

// Count returns the number of stored recommendations.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// ClearAll removes every stored recommendation.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[storeKey]*Recommendation)
}

func (s *Store) collect(match func(*Recommendation) bool) []*Recommendation {
	s.mu.RLock()
	var results []*Recommendation
	for _, r := range s.records {
		if match(r) {
			record := *r
			results = append(results, &record)
		}
	}
	s.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Priority != results[j].Priority {
			return results[i].Priority < results[j].Priority
		}
		if results[i].Type != results[j].Type {
			return results[i].Type < results[j].Type
		}
		return results[i].ID < results[j].ID
	})

	return results
}
