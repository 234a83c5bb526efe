package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/services/rag"
)

// QueryHandler handles question answering HTTP requests
type QueryHandler struct {
	chain  *rag.Chain
	logger arbor.ILogger
}

// NewQueryHandler creates a new query handler with dependencies
func NewQueryHandler(chain *rag.Chain, logger arbor.ILogger) *QueryHandler {
	return &QueryHandler{
		chain:  chain,
		logger: logger,
	}
}

type queryRequest struct {
	Question       string `json:"question"`
	WebsiteContext string `json:"website_context"`
	SessionID      string `json:"session_id"`
	TopK           int    `json:"top_k"`
}

type projectQueryRequest struct {
	queryRequest
	Focus string `json:"focus"`
}

type contextQueryRequest struct {
	Question       string `json:"question"`
	Context        string `json:"context"`
	SessionID      string `json:"session_id"`
	WebsiteContext string `json:"website_context"`
}

// QueryHandler handles POST /api/query requests
func (h *QueryHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req queryRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		WriteError(w, http.StatusBadRequest, "question is required")
		return
	}
	// Mint a session so follow-up questions can carry the conversation
	if req.SessionID == "" {
		req.SessionID = common.NewSessionID()
	}

	h.logger.Info().
		Str("question", req.Question).
		Str("website_context", req.WebsiteContext).
		Str("session_id", req.SessionID).
		Msg("Query request received")

	response, err := h.chain.Query(r.Context(), req.Question, req.WebsiteContext, req.TopK, req.SessionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Query failed")
		WriteError(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, response)
}

// ProjectQueryHandler handles POST /api/query/project requests. The answer is
// grounded in retrieved documents plus a matched or generated project.
func (h *QueryHandler) ProjectQueryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req projectQueryRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		WriteError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = common.NewSessionID()
	}

	response, err := h.chain.QueryWithProject(r.Context(), req.Question, req.Focus, req.WebsiteContext, req.TopK, req.SessionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Project query failed")
		WriteError(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, response)
}

// ContextQueryHandler handles POST /api/query/context requests. The caller
// supplies the context text directly and retrieval is skipped.
func (h *QueryHandler) ContextQueryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req contextQueryRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.chain.QueryWithContext(r.Context(), req.Question, req.Context, req.SessionID, req.WebsiteContext)
	if err != nil {
		h.logger.Error().Err(err).Msg("Context query failed")
		WriteError(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"answer":     answer,
		"session_id": req.SessionID,
	})
}
