package interfaces

import (
	"time"

	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// ConversationMemory stores per-session chat history keyed by
// (session id, website context). Implementations are safe for concurrent use;
// AddExchange appends the user/assistant pair atomically.
type ConversationMemory interface {
	// AddExchange appends a user/assistant exchange to a session, creating
	// the session if needed.
	AddExchange(sessionID, websiteContext, userMessage, assistantMessage string)

	// FormattedHistory renders the most recent maxMessages messages for
	// prompt inclusion. Empty string for an empty or unknown session.
	FormattedHistory(sessionID, websiteContext string, maxMessages int) string

	// SessionInfo returns a summary for a session, creating it if needed.
	SessionInfo(sessionID, websiteContext string) *models.SessionInfo

	// ListSessions lists sessions, optionally filtered by website context
	// (empty string lists all).
	ListSessions(websiteContext string) []*models.SessionInfo

	// ClearSession removes one session. Returns true if it existed.
	ClearSession(sessionID, websiteContext string) bool

	// ClearContext removes every session for a website context and returns
	// the number removed.
	ClearContext(websiteContext string) int

	// PruneIdle removes sessions not updated within maxIdle and returns the
	// number removed.
	PruneIdle(maxIdle time.Duration) int
}
