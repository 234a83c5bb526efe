package memory

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// DefaultWebsiteContext groups sessions that arrive without an explicit
// website context.
const DefaultWebsiteContext = "default"

// Service is an in-memory conversation store keyed by website context and
// session ID. Session count per context is bounded; when the bound is
// exceeded the oldest session by creation time is evicted. Safe for
// concurrent use.
type Service struct {
	mu          sync.RWMutex
	contexts    map[string]map[string]*models.Conversation
	maxSessions int
	logger      arbor.ILogger
}

// NewService creates a conversation memory service with the given per-context
// session bound.
func NewService(maxSessionsPerContext int, logger arbor.ILogger) *Service {
	if maxSessionsPerContext <= 0 {
		maxSessionsPerContext = 100
	}
	return &Service{
		contexts:    make(map[string]map[string]*models.Conversation),
		maxSessions: maxSessionsPerContext,
		logger:      logger,
	}
}

func normalizeContext(websiteContext string) string {
	if websiteContext == "" {
		return DefaultWebsiteContext
	}
	return websiteContext
}

// getOrCreateLocked returns the conversation for (session, context),
// creating it and evicting the oldest session if the context is full.
// Caller must hold the write lock.
func (s *Service) getOrCreateLocked(sessionID, websiteContext string) *models.Conversation {
	sessions, ok := s.contexts[websiteContext]
	if !ok {
		sessions = make(map[string]*models.Conversation)
		s.contexts[websiteContext] = sessions
	}

	if conv, ok := sessions[sessionID]; ok {
		return conv
	}

	if len(sessions) >= s.maxSessions {
		s.evictOldestLocked(sessions, websiteContext)
	}

	now := time.Now()
	conv := &models.Conversation{
		SessionID:      sessionID,
		WebsiteContext: websiteContext,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	sessions[sessionID] = conv
	return conv
}

func (s *Service) evictOldestLocked(sessions map[string]*models.Conversation, websiteContext string) {
	var oldestID string
	var oldest time.Time
	for id, conv := range sessions {
		if oldestID == "" || conv.CreatedAt.Before(oldest) {
			oldestID = id
			oldest = conv.CreatedAt
		}
	}
	if oldestID != "" {
		delete(sessions, oldestID)
		s.logger.Debug().
			Str("session_id", oldestID).
			Str("website_context", websiteContext).
			Msg("Evicted oldest session")
	}
}

// AddExchange appends a user/assistant exchange to a session atomically,
// creating the session if needed.
func (s *Service) AddExchange(sessionID, websiteContext, userMessage, assistantMessage string) {
	websiteContext = normalizeContext(websiteContext)

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreateLocked(sessionID, websiteContext)
	conv.AddMessage("user", userMessage)
	conv.AddMessage("assistant", assistantMessage)
}

// FormattedHistory renders the most recent maxMessages messages for prompt
// inclusion. Unknown sessions yield an empty string without being created.
func (s *Service) FormattedHistory(sessionID, websiteContext string, maxMessages int) string {
	websiteContext = normalizeContext(websiteContext)

	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions, ok := s.contexts[websiteContext]
	if !ok {
		return ""
	}
	conv, ok := sessions[sessionID]
	if !ok {
		return ""
	}
	return conv.FormatForPrompt(maxMessages)
}

// SessionInfo returns a summary for a session, creating it if needed.
func (s *Service) SessionInfo(sessionID, websiteContext string) *models.SessionInfo {
	websiteContext = normalizeContext(websiteContext)

	s.mu.Lock()
	defer s.mu.Unlock()

	conv := s.getOrCreateLocked(sessionID, websiteContext)
	return &models.SessionInfo{
		SessionID:      conv.SessionID,
		WebsiteContext: conv.WebsiteContext,
		MessageCount:   len(conv.Messages),
		CreatedAt:      conv.CreatedAt,
	}
}

// ListSessions lists sessions, optionally filtered by website context.
func (s *Service) ListSessions(websiteContext string) []*models.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var infos []*models.SessionInfo
	for ctxName, sessions := range s.contexts {
		if websiteContext != "" && ctxName != websiteContext {
			continue
		}
		for _, conv := range sessions {
			infos = append(infos, &models.SessionInfo{
				SessionID:      conv.SessionID,
				WebsiteContext: conv.WebsiteContext,
				MessageCount:   len(conv.Messages),
				CreatedAt:      conv.CreatedAt,
			})
		}
	}
	return infos
}

// ClearSession removes one session. Returns true if it existed.
func (s *Service) ClearSession(sessionID, websiteContext string) bool {
	websiteContext = normalizeContext(websiteContext)

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, ok := s.contexts[websiteContext]
	if !ok {
		return false
	}
	if _, ok := sessions[sessionID]; !ok {
		return false
	}
	delete(sessions, sessionID)
	return true
}

// ClearContext removes every session for a website context and returns the
// number removed.
func (s *Service) ClearContext(websiteContext string) int {
	websiteContext = normalizeContext(websiteContext)

	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, ok := s.contexts[websiteContext]
	if !ok {
		return 0
	}
	removed := len(sessions)
	delete(s.contexts, websiteContext)

	if removed > 0 {
		s.logger.Info().
			Str("website_context", websiteContext).
			Int("removed", removed).
			Msg("Cleared website context sessions")
	}
	return removed
}

// PruneIdle removes sessions not updated within maxIdle and returns the
// number removed.
func (s *Service) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for ctxName, sessions := range s.contexts {
		for id, conv := range sessions {
			if conv.UpdatedAt.Before(cutoff) {
				delete(sessions, id)
				removed++
			}
		}
		if len(sessions) == 0 {
			delete(s.contexts, ctxName)
		}
	}

	if removed > 0 {
		s.logger.Info().
			Int("removed", removed).
			Msg("Pruned idle sessions")
	}
	return removed
}
