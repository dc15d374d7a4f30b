package analytics

import (
	"math"
	"sort"
)

// Percentile returns the value at percentile p (0 < p <= 1) of values using
// nearest-rank indexing on the sorted data:
//
//	index = round((n-1) * p)
//
// Returns 0 for an empty input. The input slice is not modified.
func Percentile(values []int64, p float64) int64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return nearestRank(sorted, p)
}

// nearestRank indexes into an already-sorted slice using the nearest-rank
// formula. Caller guarantees sorted is non-empty.
func nearestRank(sorted []int64, p float64) int64 {
	idx := int(math.Round(float64(len(sorted)-1) * p))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
