package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"hireloop/interview/internal/interview"
	"hireloop/interview/internal/llm"
	"hireloop/interview/internal/middleware"
	"hireloop/interview/internal/models"
	"hireloop/interview/internal/utils"
)

// InterviewHandler exposes the three model operations as stateless endpoints:
// extraction, next question, and evaluation. Callers that manage their own
// conversation state use these directly; the session endpoints sit on top of
// the same oracle.
type InterviewHandler struct {
	oracle interview.Oracle
	logger *zap.Logger
}

func NewInterviewHandler(oracle interview.Oracle, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		oracle: oracle,
		logger: logger,
	}
}

func (h *InterviewHandler) ExtractDetailsHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ExtractRequest](r)

	details, err := h.oracle.ExtractDetails(r.Context(), req.ParsedText)
	if err != nil {
		h.logger.Error("Failed to extract candidate details", zap.Error(err))
		if errors.Is(err, llm.ErrNoFieldsExtracted) {
			utils.Fail(w, http.StatusBadRequest, "No contact details found in resume text")
			return
		}
		utils.Fail(w, http.StatusInternalServerError, "Failed to extract candidate details")
		return
	}

	h.logger.Info("Candidate details extracted",
		zap.Int("fields", len(details)),
		zap.Strings("missing", interview.MissingFields(details)))
	utils.OK(w, "Details extracted", details)
}

func (h *InterviewHandler) NextQuestionHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.NextQuestionRequest](r)

	result, err := h.oracle.NextQuestion(r.Context(), models.NextQuestionInput{
		MissingFields:   req.MissingFields,
		ChatHistory:     req.ChatHistory,
		CurrUserDetails: req.CurrUserDetails,
	})
	if err != nil {
		h.logger.Error("Failed to generate next question", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "Failed to generate next question")
		return
	}

	utils.OK(w, "Question generated", result)
}

func (h *InterviewHandler) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.EvaluationRequest](r)

	evaluation, err := h.oracle.Evaluate(r.Context(), req.ChatHistory)
	if err != nil {
		h.logger.Error("Failed to evaluate transcript", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "Failed to evaluate transcript")
		return
	}

	utils.OK(w, "Transcript evaluated", evaluation)
}
