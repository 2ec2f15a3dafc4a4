package interview

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hireloop/interview/internal/models"
	"hireloop/interview/internal/store"
)

// State names the phases of the session machine.
type State string

const (
	StateAwaitingResume         State = "awaiting_resume"
	StateExtractingDetails      State = "extracting_details"
	StateAwaitingInterviewStart State = "awaiting_interview_start"
	StateQuestionPending        State = "question_pending"
	StateAwaitingAnswer         State = "awaiting_answer"
	StateCompleting             State = "completing"
)

// TimeoutAnswer is submitted verbatim when the countdown expires and the
// candidate typed nothing.
const TimeoutAnswer = "DIDNT_ANSWERED_IN_SPECIFIED_TIME"

// questionsRequired is the defensive floor on difficulty-tagged questions
// before a completion flag from the model is honoured. The prompt instructs
// the model to complete only after six questions, but model compliance alone
// is too fragile to trust.
const questionsRequired = 6

var (
	// ErrBusy is returned while another LLM round is in flight.
	ErrBusy = errors.New("another request is already in flight")
	// ErrInvalidState is returned when an action does not apply to the
	// current session phase. The session itself is left untouched.
	ErrInvalidState = errors.New("action not valid in current session state")
)

// Oracle is the LLM collaborator surface the controller depends on. Network
// concerns (timeouts, retries) live behind it, which keeps the state machine
// unit-testable without a network.
type Oracle interface {
	ExtractDetails(ctx context.Context, resumeText string) (models.CandidateDetails, error)
	NextQuestion(ctx context.Context, input models.NextQuestionInput) (*models.NextQuestionResult, error)
	Evaluate(ctx context.Context, history []models.TimestampedMessage) (*models.Evaluation, error)
}

// Archiver receives completed interviews.
type Archiver interface {
	Append(ctx context.Context, sessionID string, completed *models.CompletedInterview) error
}

// Snapshot is the observable session state pushed to subscribers after every
// mutation.
type Snapshot struct {
	SessionID          string                      `json:"sessionId"`
	State              State                       `json:"state"`
	Details            models.CandidateDetails     `json:"userDetails"`
	MissingFields      []string                    `json:"missingFields"`
	HasCompleteDetails bool                        `json:"hasCompleteDetails"`
	InterviewStarted   bool                        `json:"interviewStarted"`
	InterviewCompleted bool                        `json:"interviewCompleted"`
	Timer              TimerState                  `json:"timer"`
	Messages           []models.TimestampedMessage `json:"messages"`
	Loading            bool                        `json:"loading"`
}

// Persisted record shapes. Two independent blobs: one for details and
// session flags, one for the live message log.
type sessionRecord struct {
	SessionID          string                  `json:"sessionId"`
	Details            models.CandidateDetails `json:"userDetails"`
	InterviewStarted   bool                    `json:"interviewStarted"`
	InterviewCompleted bool                    `json:"interviewCompleted"`
}

type chatRecord struct {
	Messages []models.TimestampedMessage `json:"messages"`
}

// Controller owns the live session: candidate details, conversation log,
// countdown timer, and the transitions between them. All mutation happens
// under one mutex, so events (user actions, timer ticks, response
// application) are processed one at a time.
type Controller struct {
	mu        sync.Mutex
	sessionID string
	state     State
	details   models.CandidateDetails
	missing   []string
	started   bool
	completed bool
	log       *Log
	timer     *Timer

	// Per-question bookkeeping.
	draft    string
	answered bool

	// Round bookkeeping. epoch increments on every issued round and on
	// session reset; a response is applied only if its epoch is current.
	inFlight   bool
	finalizing bool
	epoch      uint64

	oracle   Oracle
	archiver Archiver
	mirror   store.Store
	logger   *zap.Logger

	watchers    map[uint64]chan Snapshot
	nextWatcher uint64

	clockStop chan struct{}
	clockOnce sync.Once
}

// NewController builds a controller and restores any persisted session from
// the mirror. The mirror and archiver may be nil in tests.
func NewController(oracle Oracle, archiver Archiver, mirror store.Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		sessionID: uuid.New().String(),
		state:     StateAwaitingResume,
		details:   make(models.CandidateDetails),
		log:       NewLog(),
		timer:     &Timer{},
		oracle:    oracle,
		archiver:  archiver,
		mirror:    mirror,
		logger:    logger,
		watchers:  make(map[uint64]chan Snapshot),
		clockStop: make(chan struct{}),
	}
	c.restore()
	return c
}

// StartClock launches the one-second tick loop. The loop also drives
// finalization: once a session reaches the completing phase it is evaluated
// and archived on the next tick, and a failed attempt is retried a second
// later. Call Close on teardown so a stale session never keeps ticking.
func (c *Controller) StartClock() {
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Tick(context.Background())
				if c.Snapshot().State == StateCompleting {
					if err := c.Finalize(context.Background()); err != nil {
						c.logger.Warn("finalization failed, will retry", zap.Error(err))
					}
				}
			case <-c.clockStop:
				return
			}
		}
	}()
}

// Close stops the tick loop.
func (c *Controller) Close() {
	c.clockOnce.Do(func() { close(c.clockStop) })
}

// Snapshot returns the current observable state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers a watcher channel that receives a snapshot after every
// mutation. The returned cancel func removes the watcher.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextWatcher
	c.nextWatcher++
	ch := make(chan Snapshot, 8)
	c.watchers[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.watchers[id]; ok {
			delete(c.watchers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// HandleResumeText runs the extraction transition: AwaitingResume →
// ExtractingDetails → AwaitingInterviewStart. On failure the session returns
// to AwaitingResume so the upload can be retried. When the extracted details
// leave something to talk about and the log is empty, the first question
// round is issued automatically.
func (c *Controller) HandleResumeText(ctx context.Context, resumeText string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state != StateAwaitingResume {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.state = StateExtractingDetails
	c.inFlight = true
	c.publishLocked()
	c.mu.Unlock()

	details, err := c.oracle.ExtractDetails(ctx, resumeText)

	c.mu.Lock()
	c.inFlight = false
	if err != nil {
		c.state = StateAwaitingResume
		c.publishLocked()
		c.mu.Unlock()
		return err
	}

	c.details = c.details.Merge(details)
	c.missing = MissingFields(c.details)
	c.state = StateAwaitingInterviewStart
	c.persistLocked()
	c.publishLocked()

	// First question fires automatically once there is a candidate to talk
	// to: a field-collection prompt while fields are missing, the first
	// interview question otherwise.
	if c.log.Len() == 0 && !c.details.IsEmpty() {
		input, epoch := c.beginRoundLocked()
		c.mu.Unlock()
		return c.runRound(ctx, input, epoch, StateAwaitingInterviewStart)
	}
	c.mu.Unlock()
	return nil
}

// StartInterview is the explicit start action for transition into the first
// question round.
func (c *Controller) StartInterview(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state != StateAwaitingInterviewStart {
		c.mu.Unlock()
		return ErrInvalidState
	}
	input, epoch := c.beginRoundLocked()
	c.mu.Unlock()
	return c.runRound(ctx, input, epoch, StateAwaitingInterviewStart)
}

// SubmitAnswer records an explicit candidate submission and requests the
// next question. The answered flag suppresses the timer-expiry auto-submit
// for this question.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state != StateAwaitingAnswer {
		c.mu.Unlock()
		return ErrInvalidState
	}
	c.answered = true
	c.draft = ""
	c.log.Append(models.ChatMessage{Role: models.RoleCandidate, Text: text})
	input, epoch := c.beginRoundLocked()
	c.publishLocked()
	c.mu.Unlock()
	return c.runRound(ctx, input, epoch, StateAwaitingAnswer)
}

// SetDraft mirrors the typed-but-unsent input so a timeout can submit it.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAwaitingAnswer {
		c.draft = text
	}
}

// RetryQuestion reissues a next-question request without appending a new
// candidate message. It is the retry path after a failed round: the answer
// is already logged, only the model call needs repeating.
func (c *Controller) RetryQuestion(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state != StateAwaitingAnswer || c.log.Len() == 0 {
		c.mu.Unlock()
		return ErrInvalidState
	}
	input, epoch := c.beginRoundLocked()
	c.publishLocked()
	c.mu.Unlock()
	return c.runRound(ctx, input, epoch, StateAwaitingAnswer)
}

// Tick advances the countdown by one second. When the countdown expires and
// no submission was made for the current question, the draft text (or the
// timeout sentinel) is submitted exactly once.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	if !c.timer.Running() {
		c.mu.Unlock()
		return
	}
	expired := c.timer.Tick()
	c.publishLocked()

	if !expired || c.answered || c.inFlight || c.state != StateAwaitingAnswer {
		c.mu.Unlock()
		return
	}

	text := c.draft
	if text == "" {
		text = TimeoutAnswer
	}
	c.answered = true
	c.draft = ""
	c.log.Append(models.ChatMessage{Role: models.RoleCandidate, Text: text})
	input, epoch := c.beginRoundLocked()
	c.publishLocked()
	c.mu.Unlock()

	if err := c.runRound(ctx, input, epoch, StateAwaitingAnswer); err != nil {
		c.logger.Warn("auto-submit round failed", zap.Error(err))
	}
}

// Finalize runs the Completing → archived transition: evaluate the
// transcript, append to the archive, then reset to a fresh session. It is
// idempotent and re-callable, so a failed evaluation or archival is retried
// on the next trigger instead of dropping the transcript.
func (c *Controller) Finalize(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateCompleting || c.finalizing {
		c.mu.Unlock()
		return nil
	}
	c.finalizing = true
	sessionID := c.sessionID
	details := c.details.Clone()
	messages := c.log.Messages()
	c.mu.Unlock()

	eval, err := c.oracle.Evaluate(ctx, messages)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalizing = false
	if err != nil {
		return err
	}
	// The session may have been reset by a concurrent trigger while the
	// evaluation was in flight; a stale result is discarded.
	if c.state != StateCompleting || c.sessionID != sessionID {
		return nil
	}

	if !details.IsEmpty() && c.archiver != nil {
		completed := &models.CompletedInterview{
			Details:    details,
			Messages:   messages,
			Evaluation: *eval,
		}
		if err := c.archiver.Append(ctx, sessionID, completed); err != nil {
			return err
		}
	}

	c.log.SnapshotAndClear()
	c.resetSessionLocked()
	c.persistLocked()
	c.publishLocked()
	c.logger.Info("interview archived", zap.String("session_id", sessionID))
	return nil
}

// beginRoundLocked captures the request input as of now, marks the round in
// flight, and bumps the epoch that guards response application.
func (c *Controller) beginRoundLocked() (models.NextQuestionInput, uint64) {
	if len(c.missing) == 0 && !c.started {
		c.started = true
	}
	c.inFlight = true
	c.state = StateQuestionPending
	c.epoch++
	input := models.NextQuestionInput{
		MissingFields:   append([]string(nil), c.missing...),
		ChatHistory:     c.log.Messages(),
		CurrUserDetails: c.details.Clone(),
	}
	return input, c.epoch
}

// runRound performs the next-question call outside the lock, then applies
// the response through the synchronous transition. On failure the machine
// returns to its prior state so the same request can be re-triggered.
func (c *Controller) runRound(ctx context.Context, input models.NextQuestionInput, epoch uint64, prior State) error {
	result, err := c.oracle.NextQuestion(ctx, input)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch != epoch {
		// The session moved on while the call was in flight.
		c.logger.Debug("discarding stale question response", zap.Uint64("epoch", epoch))
		return nil
	}
	c.inFlight = false

	if err != nil {
		c.state = prior
		c.publishLocked()
		return err
	}

	c.applyResponseLocked(result)
	return nil
}

// applyResponseLocked is the QuestionPending → AwaitingAnswer (or Completing)
// transition.
func (c *Controller) applyResponseLocked(result *models.NextQuestionResult) {
	c.log.Append(result.Chat)
	c.answered = false
	c.draft = ""

	if models.ValidDifficulty(result.Chat.Difficulty) {
		c.timer.Start(result.Chat.Difficulty)
	} else {
		c.timer.Reset()
	}

	if len(c.missing) > 0 {
		c.details = c.details.Merge(result.CurrUserDetails)
		c.missing = MissingFields(c.details)
	}

	c.state = StateAwaitingAnswer
	if result.IsCompleted {
		if c.taggedQuestionCountLocked() >= questionsRequired {
			c.completed = true
			c.timer.Reset()
			c.state = StateCompleting
		} else {
			c.logger.Warn("completion flag ignored before six questions",
				zap.Int("tagged_questions", c.taggedQuestionCountLocked()))
		}
	}

	c.persistLocked()
	c.publishLocked()
}

// taggedQuestionCountLocked counts the difficulty-tagged interview questions
// asked so far. Field-collection prompts and the closing message carry no
// tag and are excluded.
func (c *Controller) taggedQuestionCountLocked() int {
	count := 0
	for _, msg := range c.log.Messages() {
		if msg.Role == models.RoleAssistant && msg.Difficulty != "" {
			count++
		}
	}
	return count
}

// resetSessionLocked returns the controller to its empty initial form, ready
// for the next candidate. Bumping the epoch invalidates any round still in
// flight for the old session.
func (c *Controller) resetSessionLocked() {
	c.sessionID = uuid.New().String()
	c.state = StateAwaitingResume
	c.details = make(models.CandidateDetails)
	c.missing = nil
	c.started = false
	c.completed = false
	c.draft = ""
	c.answered = false
	c.inFlight = false
	c.timer.Reset()
	c.epoch++
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:          c.sessionID,
		State:              c.state,
		Details:            c.details.Clone(),
		MissingFields:      append([]string(nil), c.missing...),
		HasCompleteDetails: len(c.missing) == 0 && !c.details.IsEmpty(),
		InterviewStarted:   c.started,
		InterviewCompleted: c.completed,
		Timer:              c.timer.State(),
		Messages:           c.log.Messages(),
		Loading:            c.inFlight,
	}
}

func (c *Controller) publishLocked() {
	snapshot := c.snapshotLocked()
	for _, ch := range c.watchers {
		select {
		case ch <- snapshot:
		default:
			// Slow watcher; drop this update rather than block the session.
		}
	}
}

// persistLocked mirrors the two session records to the store. The mirror is
// write-through and best effort: a failed write is logged, never fatal.
func (c *Controller) persistLocked() {
	if c.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := json.Marshal(sessionRecord{
		SessionID:          c.sessionID,
		Details:            c.details,
		InterviewStarted:   c.started,
		InterviewCompleted: c.completed,
	})
	if err == nil {
		err = c.mirror.Set(ctx, store.SessionKey, session)
	}
	if err != nil {
		c.logger.Warn("failed to persist session record", zap.Error(err))
	}

	chat, err := json.Marshal(chatRecord{Messages: c.log.Messages()})
	if err == nil {
		err = c.mirror.Set(ctx, store.ChatKey, chat)
	}
	if err != nil {
		c.logger.Warn("failed to persist chat record", zap.Error(err))
	}
}

// restore reloads the persisted session, if any, and derives the machine
// state from it. Timers are not restored; a reloaded question simply has no
// countdown.
func (c *Controller) restore() {
	if c.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if data, err := c.mirror.Get(ctx, store.SessionKey); err == nil {
		var record sessionRecord
		if err := json.Unmarshal(data, &record); err == nil {
			if record.SessionID != "" {
				c.sessionID = record.SessionID
			}
			if record.Details != nil {
				c.details = record.Details
			}
			c.started = record.InterviewStarted
			c.completed = record.InterviewCompleted
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		c.logger.Warn("failed to load session record", zap.Error(err))
	}

	if data, err := c.mirror.Get(ctx, store.ChatKey); err == nil {
		var record chatRecord
		if err := json.Unmarshal(data, &record); err == nil {
			c.log.restore(record.Messages)
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		c.logger.Warn("failed to load chat record", zap.Error(err))
	}

	c.missing = MissingFields(c.details)
	switch {
	case c.completed:
		c.state = StateCompleting
	case c.log.Len() > 0:
		c.state = StateAwaitingAnswer
	case !c.details.IsEmpty():
		c.state = StateAwaitingInterviewStart
	default:
		c.state = StateAwaitingResume
	}
}
