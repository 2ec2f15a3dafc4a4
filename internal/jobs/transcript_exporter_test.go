package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hireloop/interview/internal/archive"
	"hireloop/interview/internal/models"
)

func newTestArchive(t *testing.T) *archive.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	store, err := archive.NewStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestRunExportWritesFileAndMarksRecords(t *testing.T) {
	store := newTestArchive(t)
	ctx := context.Background()

	completed := &models.CompletedInterview{
		Details: models.CandidateDetails{"name": "Jane Doe", "email": "jane@example.com", "phone": "555"},
		Messages: []models.TimestampedMessage{
			{ChatMessage: models.ChatMessage{Role: models.RoleAssistant, Text: "Q1"}, Timestamp: time.Now()},
		},
		Evaluation: models.Evaluation{Summary: "fine", TotalPoints: 6},
	}
	if err := store.Append(ctx, "s1", completed); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	exportDir := t.TempDir()
	job := NewTranscriptExporterJob(store, &ExporterConfig{
		Schedule:      "0 2 * * *",
		ExportDir:     exportDir,
		ExportEnabled: true,
	}, zap.NewNop())

	if err := job.RunExport(ctx); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	entries, err := os.ReadDir(exportDir)
	if err != nil {
		t.Fatalf("failed to read export dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one export file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(exportDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("failed to read export file: %v", err)
	}
	if !strings.Contains(string(data), "Jane Doe") {
		t.Fatalf("expected candidate in export, got %s", data)
	}

	unexported, err := store.GetUnexported(ctx, 0)
	if err != nil {
		t.Fatalf("GetUnexported failed: %v", err)
	}
	if len(unexported) != 0 {
		t.Fatalf("expected records marked exported, got %d remaining", len(unexported))
	}
}

func TestRunExportNoRecordsIsNoop(t *testing.T) {
	store := newTestArchive(t)
	exportDir := t.TempDir()
	job := NewTranscriptExporterJob(store, &ExporterConfig{
		Schedule:      "0 2 * * *",
		ExportDir:     exportDir,
		ExportEnabled: true,
	}, zap.NewNop())

	if err := job.RunExport(context.Background()); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	entries, err := os.ReadDir(exportDir)
	if err != nil {
		t.Fatalf("failed to read export dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no export files, got %d", len(entries))
	}
}

func TestStartDisabledDoesNotSchedule(t *testing.T) {
	store := newTestArchive(t)
	job := NewTranscriptExporterJob(store, &ExporterConfig{
		ExportEnabled: false,
	}, zap.NewNop())

	if err := job.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	job.Stop()
}
