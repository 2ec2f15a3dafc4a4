package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"hireloop/interview/internal/archive"
)

// TranscriptExporterJob periodically writes newly archived interviews to
// JSONL files for offline review tooling.
type TranscriptExporterJob struct {
	store  *archive.Store
	config *ExporterConfig
	cron   *cron.Cron
	logger *zap.Logger
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // Cron schedule (e.g., "0 2 * * *" for 2 AM daily)
	ExportDir     string // Directory to store exported files
	ExportEnabled bool   // Whether to run exports
}

// NewTranscriptExporterJob creates a new exporter job
func NewTranscriptExporterJob(store *archive.Store, config *ExporterConfig, logger *zap.Logger) *TranscriptExporterJob {
	return &TranscriptExporterJob{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduled export job
func (tej *TranscriptExporterJob) Start() error {
	if !tej.config.ExportEnabled {
		tej.logger.Info("Transcript export is disabled, skipping scheduler")
		return nil
	}

	tej.logger.Info("Starting transcript exporter", zap.String("schedule", tej.config.Schedule))

	_, err := tej.cron.AddFunc(tej.config.Schedule, func() {
		if err := tej.RunExport(context.Background()); err != nil {
			tej.logger.Error("Export job failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	tej.cron.Start()
	return nil
}

// Stop stops the scheduled export job
func (tej *TranscriptExporterJob) Stop() {
	if tej.cron != nil {
		tej.cron.Stop()
		tej.logger.Info("Transcript exporter stopped")
	}
}

// RunExport performs a single export run
func (tej *TranscriptExporterJob) RunExport(ctx context.Context) error {
	records, err := tej.store.GetUnexported(ctx, 0) // no limit
	if err != nil {
		return fmt.Errorf("failed to get unexported interviews: %w", err)
	}

	if len(records) == 0 {
		tej.logger.Info("No unexported interviews found")
		return nil
	}

	jsonlData, err := tej.store.ExportToJSONL(records)
	if err != nil {
		return fmt.Errorf("failed to export to JSONL: %w", err)
	}

	if err := os.MkdirAll(tej.config.ExportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("interviews_export_%s.jsonl", timestamp)
	path := filepath.Join(tej.config.ExportDir, filename)

	if err := os.WriteFile(path, jsonlData, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	ids := make([]uint, len(records))
	for i, record := range records {
		ids[i] = record.ID
	}
	if err := tej.store.MarkExported(ctx, ids); err != nil {
		return fmt.Errorf("failed to mark as exported: %w", err)
	}

	tej.logger.Info("Exported interviews",
		zap.Int("count", len(records)),
		zap.String("file", path))
	return nil
}

// RunManual runs an export manually (for testing or on-demand exports)
func (tej *TranscriptExporterJob) RunManual(ctx context.Context) error {
	return tej.RunExport(ctx)
}
