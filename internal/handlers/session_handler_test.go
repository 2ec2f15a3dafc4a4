package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hireloop/interview/internal/interview"
	"hireloop/interview/internal/middleware"
	"hireloop/interview/internal/models"
)

func newSessionRouter(oracle interview.Oracle) (*chi.Mux, *interview.Controller) {
	controller := interview.NewController(oracle, nil, nil, zap.NewNop())
	handler := NewSessionHandler(controller, zap.NewNop())
	router := chi.NewRouter()
	router.Get("/session", handler.StateHandler)
	router.With(middleware.ValidateRequest[*models.ExtractRequest]()).Post("/session/resume", handler.ResumeHandler)
	router.Post("/session/start", handler.StartHandler)
	router.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/session/answer", handler.AnswerHandler)
	router.With(middleware.ValidateRequest[*models.DraftRequest]()).Post("/session/draft", handler.DraftHandler)
	router.Post("/session/retry", handler.RetryHandler)
	return router, controller
}

func decodeSnapshot(t *testing.T, recorder *httptest.ResponseRecorder) interview.Snapshot {
	t.Helper()
	envelope := decodeEnvelope(t, recorder)
	data, _ := json.Marshal(envelope.Data)
	var snapshot interview.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	return snapshot
}

func TestSessionResumeFlow(t *testing.T) {
	oracle := &stubOracle{
		details: models.CandidateDetails{"name": "Jane Doe", "email": "jane@example.com", "phone": "555"},
		result: &models.NextQuestionResult{
			Chat: models.ChatMessage{Role: models.RoleAssistant, Text: "Q1", Difficulty: models.DifficultyEasy},
		},
	}
	router, _ := newSessionRouter(oracle)

	recorder := postJSON(t, router, "/session/resume", models.ExtractRequest{ParsedText: "resume text"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	snapshot := decodeSnapshot(t, recorder)
	if snapshot.State != interview.StateAwaitingAnswer {
		t.Fatalf("expected awaiting_answer, got %s", snapshot.State)
	}
	if len(snapshot.Messages) != 1 || snapshot.Messages[0].Text != "Q1" {
		t.Fatalf("expected first question in snapshot, got %+v", snapshot.Messages)
	}
	if snapshot.Timer.SecondsRemaining != 20 {
		t.Fatalf("expected easy countdown, got %+v", snapshot.Timer)
	}
}

func TestSessionStateEndpoint(t *testing.T) {
	router, _ := newSessionRouter(&stubOracle{})

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	snapshot := decodeSnapshot(t, recorder)
	if snapshot.State != interview.StateAwaitingResume {
		t.Fatalf("fresh session should await resume, got %s", snapshot.State)
	}
	if snapshot.SessionID == "" {
		t.Fatalf("expected a session id")
	}
}

func TestSessionAnswerInWrongStateConflicts(t *testing.T) {
	router, _ := newSessionRouter(&stubOracle{})

	recorder := postJSON(t, router, "/session/answer", models.AnswerRequest{Text: "my answer"})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", recorder.Code)
	}
}

func TestSessionAnswerRejectsBlankText(t *testing.T) {
	router, _ := newSessionRouter(&stubOracle{})

	recorder := postJSON(t, router, "/session/answer", models.AnswerRequest{Text: "  "})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestSessionAnswerAdvancesConversation(t *testing.T) {
	oracle := &stubOracle{
		details: models.CandidateDetails{"name": "Jane Doe", "email": "jane@example.com", "phone": "555"},
		result: &models.NextQuestionResult{
			Chat: models.ChatMessage{Role: models.RoleAssistant, Text: "Q", Difficulty: models.DifficultyMedium},
		},
	}
	router, _ := newSessionRouter(oracle)

	if recorder := postJSON(t, router, "/session/resume", models.ExtractRequest{ParsedText: "resume"}); recorder.Code != http.StatusOK {
		t.Fatalf("resume failed: %d", recorder.Code)
	}

	recorder := postJSON(t, router, "/session/answer", models.AnswerRequest{Text: "my answer"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	snapshot := decodeSnapshot(t, recorder)
	if len(snapshot.Messages) != 3 {
		t.Fatalf("expected question, answer, question; got %d messages", len(snapshot.Messages))
	}
	if snapshot.Messages[1].Role != models.RoleCandidate || snapshot.Messages[1].Text != "my answer" {
		t.Fatalf("expected candidate answer second, got %+v", snapshot.Messages[1])
	}
}

func TestSessionDraftEndpoint(t *testing.T) {
	router, _ := newSessionRouter(&stubOracle{})

	recorder := postJSON(t, router, "/session/draft", models.DraftRequest{Text: "half typed"})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}
