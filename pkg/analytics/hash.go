package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// recommendationID derives a stable identifier from a recommendation's
// distinguishing fields (type plus the providers/models involved). The same
// finding produces the same id on every run, which makes storing results
// idempotent: a re-run overwrites the prior recommendation instead of
// accumulating duplicates.
func recommendationID(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:8])
}
