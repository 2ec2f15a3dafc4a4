package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hireloop/interview/internal/interview"
	"hireloop/interview/internal/middleware"
	"hireloop/interview/internal/models"
	"hireloop/interview/internal/utils"
)

// SessionHandler drives the single live interview session. Every mutating
// endpoint responds with the post-action session snapshot so the client can
// render without a follow-up read.
type SessionHandler struct {
	controller *interview.Controller
	logger     *zap.Logger
}

func NewSessionHandler(controller *interview.Controller, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		logger:     logger,
	}
}

// StateHandler returns the current session snapshot.
func (h *SessionHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	utils.OK(w, "Session state", h.controller.Snapshot())
}

// ResumeHandler accepts parsed resume text and runs the extraction round.
func (h *SessionHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ExtractRequest](r)

	if err := h.controller.HandleResumeText(r.Context(), req.ParsedText); err != nil {
		h.failAction(w, "Failed to process resume", err)
		return
	}
	utils.OK(w, "Resume processed", h.controller.Snapshot())
}

// StartHandler explicitly requests the first question for a session that has
// candidate details but no conversation yet.
func (h *SessionHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.StartInterview(r.Context()); err != nil {
		h.failAction(w, "Failed to start interview", err)
		return
	}
	utils.OK(w, "Interview started", h.controller.Snapshot())
}

// AnswerHandler submits the candidate's answer to the pending question.
func (h *SessionHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.AnswerRequest](r)

	if err := h.controller.SubmitAnswer(r.Context(), req.Text); err != nil {
		h.failAction(w, "Failed to submit answer", err)
		return
	}
	utils.OK(w, "Answer submitted", h.controller.Snapshot())
}

// DraftHandler mirrors the typed-but-unsent answer text.
func (h *SessionHandler) DraftHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.DraftRequest](r)

	h.controller.SetDraft(req.Text)
	utils.OK(w, "Draft saved", nil)
}

// RetryHandler reissues the next-question request after a failed round.
func (h *SessionHandler) RetryHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.RetryQuestion(r.Context()); err != nil {
		h.failAction(w, "Failed to retry question", err)
		return
	}
	utils.OK(w, "Question retried", h.controller.Snapshot())
}

// failAction maps controller errors onto HTTP statuses. A busy or
// wrong-state rejection is the caller's problem; anything else is a failed
// model round and the session is left retryable.
func (h *SessionHandler) failAction(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, interview.ErrBusy):
		utils.Fail(w, http.StatusConflict, "Another request is already in progress")
	case errors.Is(err, interview.ErrInvalidState):
		utils.Fail(w, http.StatusConflict, "Action not valid in the current session state")
	default:
		h.logger.Error(message, zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, message)
	}
}
