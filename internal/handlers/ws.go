package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hireloop/interview/internal/interview"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Browser clients connect cross-origin in development.
		return true
	},
}

// SessionSocketHandler streams session snapshots over a websocket: the
// current snapshot on connect, then one message per session mutation. This
// is how the interview UI keeps its countdown and chat in sync without
// polling.
type SessionSocketHandler struct {
	controller *interview.Controller
	logger     *zap.Logger
}

func NewSessionSocketHandler(controller *interview.Controller, logger *zap.Logger) *SessionSocketHandler {
	return &SessionSocketHandler{
		controller: controller,
		logger:     logger,
	}
}

func (h *SessionSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := h.controller.Subscribe()
	defer cancel()

	// Drain incoming frames so close messages and pings are processed; the
	// read error ends the connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(h.controller.Snapshot()); err != nil {
		return
	}

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
