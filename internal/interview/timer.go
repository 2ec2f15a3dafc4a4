package interview

import "hireloop/interview/internal/models"

// Per-question countdown durations in seconds.
var difficultyDurations = map[string]int{
	models.DifficultyEasy:   20,
	models.DifficultyMedium: 60,
	models.DifficultyHard:   120,
}

// TimerState is the observable countdown state. Running is false whenever
// SecondsRemaining is zero; TotalDuration is set only while a question-tied
// countdown exists.
type TimerState struct {
	SecondsRemaining int  `json:"secondsRemaining"`
	Running          bool `json:"running"`
	TotalDuration    int  `json:"totalDuration,omitempty"`
}

// Timer tracks the remaining seconds for the current question. It is not
// safe for concurrent use; the session controller serialises access.
type Timer struct {
	state TimerState
}

// Start begins a countdown for the given difficulty. Unknown difficulties
// are rejected so field-collection prompts never run a timer.
func (t *Timer) Start(difficulty string) bool {
	duration, ok := difficultyDurations[difficulty]
	if !ok {
		return false
	}
	t.state = TimerState{
		SecondsRemaining: duration,
		Running:          true,
		TotalDuration:    duration,
	}
	return true
}

// Tick advances the countdown by one second. It reports whether this tick
// exhausted the timer; hitting zero stops it.
func (t *Timer) Tick() bool {
	if !t.state.Running || t.state.SecondsRemaining == 0 {
		return false
	}
	t.state.SecondsRemaining--
	if t.state.SecondsRemaining == 0 {
		t.state.Running = false
		return true
	}
	return false
}

// Stop halts the countdown without touching the remaining seconds.
func (t *Timer) Stop() {
	t.state.Running = false
}

// Reset clears the countdown entirely.
func (t *Timer) Reset() {
	t.state = TimerState{}
}

// Running reports whether the countdown is active.
func (t *Timer) Running() bool {
	return t.state.Running
}

// State returns a copy of the current timer state.
func (t *Timer) State() TimerState {
	return t.state
}
