package routers

import (
	"hireloop/interview/internal/handlers"
	"hireloop/interview/internal/middleware"
	"hireloop/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

// InterviewRoutes mounts the stateless model operations.
func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler) {
	router.With(middleware.ValidateRequest[*models.ExtractRequest]()).Post("/api/get-data-from-text", interviewHandler.ExtractDetailsHandler)
	router.With(middleware.ValidateRequest[*models.NextQuestionRequest]()).Post("/api/get-next-question", interviewHandler.NextQuestionHandler)
	router.With(middleware.ValidateRequest[*models.EvaluationRequest]()).Post("/api/interview-evaluation", interviewHandler.EvaluateHandler)
}
