package models

import (
	"time"

	"gorm.io/gorm"
)

// ArchivedInterview is the durable record of a completed interview.
// Candidate name and total points are promoted to indexed columns for the
// reviewer dashboard's filter and sort; the transcript and evaluation lists
// are stored as JSON text.
type ArchivedInterview struct {
	gorm.Model
	SessionID      string     `gorm:"uniqueIndex;not null" json:"session_id"`
	CandidateName  string     `gorm:"index;not null" json:"candidate_name"`
	CandidateEmail string     `json:"candidate_email"`
	CandidatePhone string     `json:"candidate_phone"`
	Transcript     string     `gorm:"type:text;not null" json:"-"`
	Pros           string     `gorm:"type:text" json:"-"`
	Cons           string     `gorm:"type:text" json:"-"`
	Summary        string     `gorm:"type:text" json:"summary"`
	TotalPoints    float64    `gorm:"not null;index" json:"total_points"`
	Exported       bool       `gorm:"not null;default:false;index" json:"exported"`
	ExportedAt     *time.Time `json:"exported_at"`
}
