package models

import "strings"

type ExtractRequest struct {
	ParsedText string `json:"parsedText"`
}

// implements the Validator interface
func (r *ExtractRequest) Validate() error {
	if strings.TrimSpace(r.ParsedText) == "" {
		return NewAPIError("parsedText is required")
	}
	return nil
}

type NextQuestionRequest struct {
	MissingFields   []string             `json:"missingFields"`
	ChatHistory     []TimestampedMessage `json:"chatHistory"`
	CurrUserDetails CandidateDetails     `json:"currUserDetails"`
}

func (r *NextQuestionRequest) Validate() error {
	known := make(map[string]bool, len(RequiredFields))
	for _, f := range RequiredFields {
		known[f] = true
	}
	for _, f := range r.MissingFields {
		if !known[f] {
			return NewAPIError("unknown missing field", f)
		}
	}
	for _, msg := range r.ChatHistory {
		if msg.Role != RoleCandidate && msg.Role != RoleAssistant {
			return NewAPIError("invalid message role", msg.Role)
		}
	}
	return nil
}

type EvaluationRequest struct {
	ChatHistory []TimestampedMessage `json:"chatHistory"`
}

func (r *EvaluationRequest) Validate() error {
	if len(r.ChatHistory) == 0 {
		return NewAPIError("chatHistory must not be empty")
	}
	return nil
}

// AnswerRequest is an explicit candidate submission for the pending question.
type AnswerRequest struct {
	Text string `json:"text"`
}

func (r *AnswerRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return NewAPIError("text is required")
	}
	return nil
}

// DraftRequest mirrors the typed-but-unsent input so a timeout can submit it.
type DraftRequest struct {
	Text string `json:"text"`
}

func (r *DraftRequest) Validate() error {
	return nil
}
