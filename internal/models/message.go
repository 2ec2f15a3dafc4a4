package models

import "time"

// Message roles. The assistant asks, the candidate answers.
const (
	RoleCandidate = "candidate"
	RoleAssistant = "assistant"
)

// Question difficulties, in ascending order of timer duration.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether d is one of the recognised difficulty tags.
// Field-collection prompts carry no tag.
func ValidDifficulty(d string) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ChatMessage is a single conversation turn. Immutable once created.
type ChatMessage struct {
	Role       string `json:"role"`
	Text       string `json:"text"`
	Difficulty string `json:"difficulty,omitempty"`
}

// TimestampedMessage is a ChatMessage stamped with its arrival instant.
// Sequences of these are ordered by arrival and never reordered.
type TimestampedMessage struct {
	ChatMessage
	Timestamp time.Time `json:"timestamp"`
}
