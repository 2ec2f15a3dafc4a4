// Package archive is the durable review store for completed interviews.
// Entries are append-only; the reviewer dashboard reads them filtered by
// candidate name and sorted by score.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"hireloop/interview/internal/models"
)

type Store struct {
	db *gorm.DB
}

// NewStore migrates the archive table and returns the store.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.ArchivedInterview{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive: %w", err)
	}
	return &Store{db: db}, nil
}

// Interview is a decoded archive entry as served to the reviewer dashboard.
type Interview struct {
	ID               uint                        `json:"id"`
	CandidateDetails models.CandidateDetails     `json:"userDetails"`
	Messages         []models.TimestampedMessage `json:"messages"`
	Evaluation       models.Evaluation           `json:"interviewResult"`
	ArchivedAt       time.Time                   `json:"archivedAt"`
}

// Append stores one completed interview. The session ID is unique per
// session, so a duplicate archival attempt fails at the database instead of
// producing a second entry.
func (s *Store) Append(ctx context.Context, sessionID string, completed *models.CompletedInterview) error {
	transcript, err := json.Marshal(completed.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	pros, err := json.Marshal(completed.Evaluation.Pros)
	if err != nil {
		return fmt.Errorf("failed to marshal pros: %w", err)
	}
	cons, err := json.Marshal(completed.Evaluation.Cons)
	if err != nil {
		return fmt.Errorf("failed to marshal cons: %w", err)
	}

	record := &models.ArchivedInterview{
		SessionID:      sessionID,
		CandidateName:  completed.Details["name"],
		CandidateEmail: completed.Details["email"],
		CandidatePhone: completed.Details["phone"],
		Transcript:     string(transcript),
		Pros:           string(pros),
		Cons:           string(cons),
		Summary:        completed.Evaluation.Summary,
		TotalPoints:    completed.Evaluation.TotalPoints,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to store archived interview: %w", err)
	}
	return nil
}

// List returns archived interviews whose candidate name contains the filter
// (case-insensitive), sorted by total points descending. Ties keep insertion
// order.
func (s *Store) List(ctx context.Context, nameFilter string) ([]Interview, error) {
	query := s.db.WithContext(ctx).Model(&models.ArchivedInterview{})
	if filter := strings.TrimSpace(nameFilter); filter != "" {
		query = query.Where("LOWER(candidate_name) LIKE ?", "%"+strings.ToLower(filter)+"%")
	}

	var records []models.ArchivedInterview
	if err := query.Order("total_points DESC, id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list archived interviews: %w", err)
	}

	interviews := make([]Interview, 0, len(records))
	for _, record := range records {
		decoded, err := decode(record)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, decoded)
	}
	return interviews, nil
}

// GetUnexported retrieves entries not yet written out by the export job.
func (s *Store) GetUnexported(ctx context.Context, limit int) ([]models.ArchivedInterview, error) {
	query := s.db.WithContext(ctx).Where("exported = ?", false).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.ArchivedInterview
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get unexported interviews: %w", err)
	}
	return records, nil
}

// MarkExported flags the given entries as exported.
func (s *Store) MarkExported(ctx context.Context, ids []uint) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.ArchivedInterview{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"exported":    true,
			"exported_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark interviews as exported: %w", result.Error)
	}
	return nil
}

// ExportToJSONL renders archive entries as one JSON document per line for
// offline review tooling.
func (s *Store) ExportToJSONL(records []models.ArchivedInterview) ([]byte, error) {
	var out []byte
	for i, record := range records {
		decoded, err := decode(record)
		if err != nil {
			return nil, err
		}
		line, err := json.Marshal(decoded)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal export line: %w", err)
		}
		out = append(out, line...)
		if i < len(records)-1 {
			out = append(out, '\n')
		}
	}
	return out, nil
}

func decode(record models.ArchivedInterview) (Interview, error) {
	var messages []models.TimestampedMessage
	if err := json.Unmarshal([]byte(record.Transcript), &messages); err != nil {
		return Interview{}, fmt.Errorf("failed to decode transcript %d: %w", record.ID, err)
	}

	eval := models.Evaluation{
		Summary:     record.Summary,
		TotalPoints: record.TotalPoints,
	}
	if record.Pros != "" {
		if err := json.Unmarshal([]byte(record.Pros), &eval.Pros); err != nil {
			return Interview{}, fmt.Errorf("failed to decode pros %d: %w", record.ID, err)
		}
	}
	if record.Cons != "" {
		if err := json.Unmarshal([]byte(record.Cons), &eval.Cons); err != nil {
			return Interview{}, fmt.Errorf("failed to decode cons %d: %w", record.ID, err)
		}
	}

	return Interview{
		ID: record.ID,
		CandidateDetails: models.CandidateDetails{
			"name":  record.CandidateName,
			"email": record.CandidateEmail,
			"phone": record.CandidatePhone,
		},
		Messages:   messages,
		Evaluation: eval,
		ArchivedAt: record.CreatedAt,
	}, nil
}
