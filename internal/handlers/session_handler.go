package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
)

// SessionHandler handles conversation session HTTP requests
type SessionHandler struct {
	memory interfaces.ConversationMemory
	logger arbor.ILogger
}

// NewSessionHandler creates a new session handler with dependencies
func NewSessionHandler(memory interfaces.ConversationMemory, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		memory: memory,
		logger: logger,
	}
}

// ListHandler handles GET /api/sessions?context= requests
func (h *SessionHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	websiteContext := r.URL.Query().Get("context")
	sessions := h.memory.ListSessions(websiteContext)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// HistoryHandler handles GET /api/sessions/history?session_id=&context= requests
func (h *SessionHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		WriteError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	websiteContext := r.URL.Query().Get("context")

	info := h.memory.SessionInfo(sessionID, websiteContext)
	WriteJSON(w, http.StatusOK, info)
}

// ClearHandler handles DELETE /api/sessions?session_id=&context= requests.
// Omitting session_id clears every session in the context.
func (h *SessionHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	websiteContext := r.URL.Query().Get("context")

	if sessionID == "" {
		cleared := h.memory.ClearContext(websiteContext)
		h.logger.Info().
			Str("context", websiteContext).
			Int("cleared", cleared).
			Msg("Cleared conversation context")
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":  "success",
			"cleared": cleared,
		})
		return
	}

	if !h.memory.ClearSession(sessionID, websiteContext) {
		WriteError(w, http.StatusNotFound, "Session not found")
		return
	}
	WriteSuccess(w, "Session cleared")
}
