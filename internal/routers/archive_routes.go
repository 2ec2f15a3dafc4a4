package routers

import (
	"hireloop/interview/internal/handlers"

	"github.com/go-chi/chi/v5"
)

// ArchiveRoutes mounts the reviewer dashboard listing.
func ArchiveRoutes(router *chi.Mux, archiveHandler *handlers.ArchiveHandler) {
	router.Get("/api/interviews", archiveHandler.ListHandler)
}
