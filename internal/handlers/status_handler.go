package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
)

// StatusHandler handles health and version HTTP requests
type StatusHandler struct {
	llm      interfaces.LLMService
	embedder interfaces.EmbeddingService
	store    interfaces.VectorStore
	logger   arbor.ILogger
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(llm interfaces.LLMService, embedder interfaces.EmbeddingService, store interfaces.VectorStore, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		llm:      llm,
		embedder: embedder,
		store:    store,
		logger:   logger,
	}
}

// HealthHandler handles GET /api/health
func (h *StatusHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	llmStatus := "ok"
	if err := h.llm.HealthCheck(r.Context()); err != nil {
		llmStatus = err.Error()
	}

	embedderStatus := "ok"
	if !h.embedder.IsAvailable(r.Context()) {
		embedderStatus = "unavailable"
	}

	storeStatus := "ok"
	if _, err := h.store.Stats(r.Context()); err != nil {
		storeStatus = err.Error()
	}

	healthy := llmStatus == "ok" && embedderStatus == "ok" && storeStatus == "ok"
	statusCode := http.StatusOK
	if !healthy {
		statusCode = http.StatusServiceUnavailable
	}

	WriteJSON(w, statusCode, map[string]interface{}{
		"healthy":     healthy,
		"llm":         llmStatus,
		"embedder":    embedderStatus,
		"store":       storeStatus,
		"model":       h.llm.ModelName(),
		"embed_model": h.embedder.ModelName(),
		"version":     common.GetVersion(),
	})
}

// VersionHandler handles GET /api/version
func (h *StatusHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}
