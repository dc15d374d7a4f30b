package usage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFeedbackRecorder_RecordAndList(t *testing.T) {
	r := NewFeedbackRecorder(nil)
	defer r.Close()

	ctx := context.Background()

	fb, err := r.Record(ctx, "req-1", 4, "helpful answer")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if fb.ID == "" {
		t.Error("Expected a generated feedback ID")
	}
	if fb.QualityScore != 4 {
		t.Errorf("Expected score 4, got %d", fb.QualityScore)
	}
	if fb.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}

	all, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(all))
	}
	if all[0].RequestID != "req-1" {
		t.Errorf("Expected request req-1, got %s", all[0].RequestID)
	}
}

func TestFeedbackRecorder_ClampsScore(t *testing.T) {
	r := NewFeedbackRecorder(nil)
	defer r.Close()

	ctx := context.Background()

	low, err := r.Record(ctx, "req-low", -3, "")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if low.QualityScore != 1 {
		t.Errorf("Expected low score clamped to 1, got %d", low.QualityScore)
	}

	high, err := r.Record(ctx, "req-high", 11, "")
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if high.QualityScore != 5 {
		t.Errorf("Expected high score clamped to 5, got %d", high.QualityScore)
	}
}

func TestFeedbackRecorder_RejectsEmptyRequestID(t *testing.T) {
	r := NewFeedbackRecorder(nil)
	defer r.Close()

	if _, err := r.Record(context.Background(), "", 3, ""); err == nil {
		t.Error("Expected error for empty request id")
	}
}

func TestMemoryFeedback_ListReturnsCopies(t *testing.T) {
	m := NewMemoryFeedback()
	ctx := context.Background()

	fb := &Feedback{ID: "a", RequestID: "req-1", QualityScore: 3}
	if err := m.Save(ctx, fb); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	first, _ := m.List(ctx)
	first[0].QualityScore = 1

	second, _ := m.List(ctx)
	if second[0].QualityScore != 3 {
		t.Errorf("Expected stored record unchanged, got score %d", second[0].QualityScore)
	}
}

func TestMemoryFeedback_RejectsNil(t *testing.T) {
	m := NewMemoryFeedback()
	if err := m.Save(context.Background(), nil); err == nil {
		t.Error("Expected error for nil feedback")
	}
}

func TestSQLiteFeedback_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.db")

	backend, err := NewSQLiteFeedback(path)
	if err != nil {
		t.Fatalf("Failed to open sqlite backend: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()
	r := NewFeedbackRecorder(backend)

	if _, err := r.Record(ctx, "req-1", 5, "great"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := r.Record(ctx, "req-2", 2, ""); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	all, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(all))
	}
}

func TestSQLiteFeedback_UpsertByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.db")

	backend, err := NewSQLiteFeedback(path)
	if err != nil {
		t.Fatalf("Failed to open sqlite backend: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	fb := &Feedback{ID: "fixed", RequestID: "req-1", QualityScore: 2}
	if err := backend.Save(ctx, fb); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	fb.QualityScore = 5
	if err := backend.Save(ctx, fb); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	all, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("Expected 1 record after upsert, got %d", len(all))
	}
	if all[0].QualityScore != 5 {
		t.Errorf("Expected updated score 5, got %d", all[0].QualityScore)
	}
}

func TestSQLiteFeedback_CloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback.db")

	backend, err := NewSQLiteFeedback(path)
	if err != nil {
		t.Fatalf("Failed to open sqlite backend: %v", err)
	}

	if err := backend.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}
