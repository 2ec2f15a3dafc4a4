package archive

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hireloop/interview/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	store, err := NewStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func completedInterview(name string, points float64) *models.CompletedInterview {
	return &models.CompletedInterview{
		Details: models.CandidateDetails{"name": name, "email": name + "@example.com", "phone": "555"},
		Messages: []models.TimestampedMessage{
			{ChatMessage: models.ChatMessage{Role: models.RoleAssistant, Text: "Q1", Difficulty: models.DifficultyEasy}, Timestamp: time.Now()},
			{ChatMessage: models.ChatMessage{Role: models.RoleCandidate, Text: "A1"}, Timestamp: time.Now()},
		},
		Evaluation: models.Evaluation{
			Pros:        []string{"clear answers"},
			Cons:        []string{"slow on hard questions"},
			Summary:     "solid",
			TotalPoints: points,
		},
	}
}

func TestAppendAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", completedInterview("Alice", 4)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, "s2", completedInterview("Bob", 9)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	interviews, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(interviews) != 2 {
		t.Fatalf("expected 2 interviews, got %d", len(interviews))
	}
	// Display order is by score, not insertion.
	if interviews[0].CandidateDetails["name"] != "Bob" {
		t.Fatalf("expected Bob (9 points) first, got %s", interviews[0].CandidateDetails["name"])
	}
	if interviews[1].Evaluation.TotalPoints != 4 {
		t.Fatalf("expected 4 points second, got %v", interviews[1].Evaluation.TotalPoints)
	}
	if len(interviews[0].Messages) != 2 {
		t.Fatalf("expected transcript to round-trip, got %d messages", len(interviews[0].Messages))
	}
	if len(interviews[0].Evaluation.Pros) != 1 || interviews[0].Evaluation.Pros[0] != "clear answers" {
		t.Fatalf("expected pros to round-trip, got %v", interviews[0].Evaluation.Pros)
	}
}

func TestListTiesKeepInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", completedInterview("First", 7)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, "s2", completedInterview("Second", 7)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	interviews, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if interviews[0].CandidateDetails["name"] != "First" || interviews[1].CandidateDetails["name"] != "Second" {
		t.Fatalf("expected stable tie order, got %s then %s",
			interviews[0].CandidateDetails["name"], interviews[1].CandidateDetails["name"])
	}
}

func TestListFiltersByNameCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", completedInterview("Jane Doe", 5)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, "s2", completedInterview("John Smith", 8)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	interviews, err := store.List(ctx, "jane")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(interviews) != 1 {
		t.Fatalf("expected 1 match, got %d", len(interviews))
	}
	if interviews[0].CandidateDetails["name"] != "Jane Doe" {
		t.Fatalf("unexpected match: %s", interviews[0].CandidateDetails["name"])
	}
}

func TestAppendRejectsDuplicateSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "dup", completedInterview("Alice", 4)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, "dup", completedInterview("Alice", 4)); err == nil {
		t.Fatalf("expected duplicate session append to fail")
	}

	interviews, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(interviews) != 1 {
		t.Fatalf("expected a single entry, got %d", len(interviews))
	}
}

func TestExportLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Append(ctx, "s1", completedInterview("Alice", 6)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	unexported, err := store.GetUnexported(ctx, 0)
	if err != nil {
		t.Fatalf("GetUnexported failed: %v", err)
	}
	if len(unexported) != 1 {
		t.Fatalf("expected 1 unexported record, got %d", len(unexported))
	}

	data, err := store.ExportToJSONL(unexported)
	if err != nil {
		t.Fatalf("ExportToJSONL failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected export data")
	}

	if err := store.MarkExported(ctx, []uint{unexported[0].ID}); err != nil {
		t.Fatalf("MarkExported failed: %v", err)
	}

	unexported, err = store.GetUnexported(ctx, 0)
	if err != nil {
		t.Fatalf("GetUnexported failed: %v", err)
	}
	if len(unexported) != 0 {
		t.Fatalf("expected no unexported records, got %d", len(unexported))
	}
}
