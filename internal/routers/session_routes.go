package routers

import (
	"hireloop/interview/internal/handlers"
	"hireloop/interview/internal/middleware"
	"hireloop/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

// SessionRoutes mounts the live session surface, including the websocket
// snapshot stream.
func SessionRoutes(router *chi.Mux, sessionHandler *handlers.SessionHandler, socketHandler *handlers.SessionSocketHandler) {
	router.Route("/api/session", func(r chi.Router) {
		r.Get("/", sessionHandler.StateHandler)
		r.Get("/ws", socketHandler.ServeHTTP)
		r.With(middleware.ValidateRequest[*models.ExtractRequest]()).Post("/resume", sessionHandler.ResumeHandler)
		r.Post("/start", sessionHandler.StartHandler)
		r.With(middleware.ValidateRequest[*models.AnswerRequest]()).Post("/answer", sessionHandler.AnswerHandler)
		r.With(middleware.ValidateRequest[*models.DraftRequest]()).Post("/draft", sessionHandler.DraftHandler)
		r.Post("/retry", sessionHandler.RetryHandler)
	})
}
