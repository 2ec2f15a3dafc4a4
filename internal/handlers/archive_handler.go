package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"hireloop/interview/internal/archive"
	"hireloop/interview/internal/utils"
)

// ArchiveHandler serves the reviewer dashboard: completed interviews sorted
// by score, optionally filtered by candidate name.
type ArchiveHandler struct {
	store  *archive.Store
	logger *zap.Logger
}

func NewArchiveHandler(store *archive.Store, logger *zap.Logger) *ArchiveHandler {
	return &ArchiveHandler{
		store:  store,
		logger: logger,
	}
}

func (h *ArchiveHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	nameFilter := r.URL.Query().Get("name")

	interviews, err := h.store.List(r.Context(), nameFilter)
	if err != nil {
		h.logger.Error("Failed to list archived interviews", zap.Error(err))
		utils.Fail(w, http.StatusInternalServerError, "Failed to list interviews")
		return
	}

	utils.OK(w, "Interviews listed", interviews)
}
