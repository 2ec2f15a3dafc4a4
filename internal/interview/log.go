package interview

import (
	"sync"
	"time"

	"hireloop/interview/internal/models"
)

// Log is the append-only conversation record for the live session. Messages
// are stamped on arrival, so insertion order is chronological order.
type Log struct {
	mu       sync.Mutex
	messages []models.TimestampedMessage
	now      func() time.Time
}

func NewLog() *Log {
	return &Log{now: time.Now}
}

// Append stamps the message with the current time and records it.
func (l *Log) Append(msg models.ChatMessage) models.TimestampedMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	stamped := models.TimestampedMessage{
		ChatMessage: msg,
		Timestamp:   l.now(),
	}
	l.messages = append(l.messages, stamped)
	return stamped
}

// Messages returns a copy of the current sequence.
func (l *Log) Messages() []models.TimestampedMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]models.TimestampedMessage(nil), l.messages...)
}

// Len returns the number of recorded messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.messages)
}

// SnapshotAndClear atomically returns the full sequence and empties the log.
// The returned slice is detached; later appends do not affect it.
func (l *Log) SnapshotAndClear() []models.TimestampedMessage {
	l.mu.Lock()
	defer l.mu.Unlock()

	snapshot := l.messages
	l.messages = nil
	return snapshot
}

// Clear empties the log without returning the contents.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = nil
}

// restore replaces the sequence wholesale. Used when reloading a persisted
// session at startup.
func (l *Log) restore(messages []models.TimestampedMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append([]models.TimestampedMessage(nil), messages...)
}
