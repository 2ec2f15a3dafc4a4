package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hireloop/interview/internal/models"
	"hireloop/interview/internal/prompts"
	"hireloop/interview/internal/utils"
)

// ErrNoFieldsExtracted is returned when the extraction response contains no
// parseable JSON. Callers treat it as "no fields extracted" and let the user
// retry the upload.
var ErrNoFieldsExtracted = errors.New("no fields extracted from resume text")

const (
	maxAttempts    = 3
	attemptTimeout = 60 * time.Second
)

// Interviewer implements the three interview contracts on top of a raw
// Provider: contact-field extraction, next-question generation, and
// transcript evaluation. Each call retries transient failures with a fixed
// per-attempt timeout.
type Interviewer struct {
	provider Provider
	prompts  prompts.PromptProvider
	logger   *zap.Logger
}

func NewInterviewer(provider Provider, promptProvider prompts.PromptProvider, logger *zap.Logger) *Interviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interviewer{
		provider: provider,
		prompts:  promptProvider,
		logger:   logger,
	}
}

// ExtractDetails asks the model to pull the contact fields out of raw resume
// text. A response with no decodable JSON yields ErrNoFieldsExtracted.
func (iv *Interviewer) ExtractDetails(ctx context.Context, resumeText string) (models.CandidateDetails, error) {
	prompt, err := iv.prompts.BuildPrompt("extract", "default", map[string]string{
		"ResumeText": resumeText,
	})
	if err != nil {
		return nil, fmt.Errorf("build extract prompt: %w", err)
	}

	raw, err := iv.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// The model is told to use null for unknown fields, so decode loosely
	// and keep only string values for the known field set.
	var loose map[string]interface{}
	if err := utils.DecodeModelJSON(raw, &loose); err != nil {
		return nil, ErrNoFieldsExtracted
	}

	details := make(models.CandidateDetails)
	for _, field := range models.RequiredFields {
		if v, ok := loose[field].(string); ok {
			details[field] = v
		}
	}
	return details, nil
}

// NextQuestion requests the next assistant turn. While fields are missing the
// field-collection variant is used; otherwise the interview variant.
func (iv *Interviewer) NextQuestion(ctx context.Context, input models.NextQuestionInput) (*models.NextQuestionResult, error) {
	variant := "interview"
	if len(input.MissingFields) > 0 {
		variant = "collect_fields"
	}

	detailsJSON, err := json.Marshal(input.CurrUserDetails)
	if err != nil {
		return nil, fmt.Errorf("marshal candidate details: %w", err)
	}

	prompt, err := iv.prompts.BuildPrompt("question", variant, map[string]string{
		"MissingFields": strings.Join(input.MissingFields, ", "),
		"UserDetails":   string(detailsJSON),
		"ChatHistory":   formatHistory(input.ChatHistory),
	})
	if err != nil {
		return nil, fmt.Errorf("build question prompt: %w", err)
	}

	raw, err := iv.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var result models.NextQuestionResult
	if err := utils.DecodeModelJSON(raw, &result); err != nil {
		return nil, fmt.Errorf("decode next-question response: %w", err)
	}

	result.Chat.Role = models.RoleAssistant
	result.Chat.Difficulty = strings.ToLower(strings.TrimSpace(result.Chat.Difficulty))
	if !models.ValidDifficulty(result.Chat.Difficulty) {
		result.Chat.Difficulty = ""
	}
	if strings.TrimSpace(result.Chat.Text) == "" {
		return nil, fmt.Errorf("next-question response carried no text")
	}
	return &result, nil
}

// Evaluate scores a completed transcript.
func (iv *Interviewer) Evaluate(ctx context.Context, history []models.TimestampedMessage) (*models.Evaluation, error) {
	historyJSON, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal chat history: %w", err)
	}

	prompt, err := iv.prompts.BuildPrompt("evaluate", "default", map[string]string{
		"ChatHistory": string(historyJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("build evaluate prompt: %w", err)
	}

	raw, err := iv.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var eval models.Evaluation
	if err := utils.DecodeModelJSON(raw, &eval); err != nil {
		return nil, fmt.Errorf("decode evaluation response: %w", err)
	}

	if eval.TotalPoints < 0 {
		eval.TotalPoints = 0
	}
	if eval.TotalPoints > 10 {
		eval.TotalPoints = 10
	}
	return &eval, nil
}

// generate calls the provider with a per-attempt timeout, retrying transient
// failures up to maxAttempts before surfacing the last error.
func (iv *Interviewer) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		text, err := iv.provider.GenerateContent(attemptCtx, prompt)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		iv.logger.Warn("LLM request failed",
			zap.String("provider", iv.provider.GetProviderName()),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Error(err))

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("request failed after %d attempts: %w", maxAttempts, lastErr)
}

func formatHistory(history []models.TimestampedMessage) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, msg.Role+": "+msg.Text)
	}
	return strings.Join(lines, "\n")
}
