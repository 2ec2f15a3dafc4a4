package models

// Evaluation is the LLM's verdict over a full interview transcript.
type Evaluation struct {
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	Summary     string   `json:"summary"`
	TotalPoints float64  `json:"totalPoints"`
}

// NextQuestionInput carries everything the question prompt needs: the fields
// still missing, the conversation so far, and the details collected to date.
type NextQuestionInput struct {
	MissingFields   []string             `json:"missingFields"`
	ChatHistory     []TimestampedMessage `json:"chatHistory"`
	CurrUserDetails CandidateDetails     `json:"currUserDetails"`
}

// NextQuestionResult is the model's reply for one question round.
// IsCompleted is true only for the closing thank-you message.
type NextQuestionResult struct {
	CurrUserDetails CandidateDetails `json:"currUserDetails"`
	Chat            ChatMessage      `json:"chat"`
	IsCompleted     bool             `json:"isCompleted"`
}

// CompletedInterview is a finished session ready for archival: the candidate
// details, the transcript snapshot, and the evaluation.
type CompletedInterview struct {
	Details    CandidateDetails     `json:"userDetails"`
	Messages   []TimestampedMessage `json:"messages"`
	Evaluation Evaluation           `json:"interviewResult"`
}
