package usage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Feedback is a quality score reported for a completed request. Scores are
// stored for future analysis; no current analysis consumes them.
type Feedback struct {
	// ID is a generated unique identifier for the feedback record.
	ID string `json:"id"`

	// RequestID identifies the gateway request the feedback refers to.
	RequestID string `json:"request_id"`

	// QualityScore is the caller-supplied score, clamped to [1, 5].
	QualityScore int `json:"quality_score"`

	// Text is optional free-form feedback.
	Text string `json:"text,omitempty"`

	// CreatedAt is when the feedback was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackBackend persists feedback records.
type FeedbackBackend interface {
	// Save persists one feedback record.
	Save(ctx context.Context, fb *Feedback) error

	// List returns all feedback records ordered by creation time.
	List(ctx context.Context) ([]*Feedback, error)

	// Close releases backend resources. Close is idempotent.
	Close() error
}

// FeedbackRecorder validates and stores request feedback through a backend.
type FeedbackRecorder struct {
	backend FeedbackBackend
}

// NewFeedbackRecorder creates a recorder over the given backend. A nil
// backend defaults to in-memory storage.
func NewFeedbackRecorder(backend FeedbackBackend) *FeedbackRecorder {
	if backend == nil {
		backend = NewMemoryFeedback()
	}
	return &FeedbackRecorder{backend: backend}
}

// Record stores feedback for a request and returns the stored record.
// The quality score is clamped to [1, 5] rather than rejected.
func (r *FeedbackRecorder) Record(ctx context.Context, requestID string, qualityScore int, text string) (*Feedback, error) {
	if requestID == "" {
		return nil, fmt.Errorf("request id cannot be empty")
	}

	if qualityScore < 1 {
		qualityScore = 1
	}
	if qualityScore > 5 {
		qualityScore = 5
	}

	fb := &Feedback{
		ID:           uuid.NewString(),
		RequestID:    requestID,
		QualityScore: qualityScore,
		Text:         text,
		CreatedAt:    time.Now().UTC(),
	}

	if err := r.backend.Save(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to save feedback: %w", err)
	}

	return fb, nil
}

// List returns all stored feedback.
func (r *FeedbackRecorder) List(ctx context.Context) ([]*Feedback, error) {
	return r.backend.List(ctx)
}

// Close closes the underlying backend.
func (r *FeedbackRecorder) Close() error {
	return r.backend.Close()
}

// MemoryFeedback implements FeedbackBackend using an in-memory map.
type MemoryFeedback struct {
	records map[string]*Feedback
	mu      sync.RWMutex
}

// NewMemoryFeedback creates a new in-memory feedback backend.
func NewMemoryFeedback() *MemoryFeedback {
	return &MemoryFeedback{
		records: make(map[string]*Feedback),
	}
}

// Save stores a copy of the feedback record.
func (m *MemoryFeedback) Save(ctx context.Context, fb *Feedback) error {
	if fb == nil {
		return fmt.Errorf("feedback cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Copy to avoid caller mutation
	record := *fb
	m.records[fb.ID] = &record

	return nil
}

// List returns copies of all records ordered by creation time.
func (m *MemoryFeedback) List(ctx context.Context) ([]*Feedback, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]*Feedback, 0, len(m.records))
	for _, fb := range m.records {
		record := *fb
		results = append(results, &record)
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})

	return results, nil
}

// Close is a no-op for the in-memory backend.
func (m *MemoryFeedback) Close() error {
	return nil
}
