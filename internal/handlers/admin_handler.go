package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
	"github.com/darukaa-earth/daruka-rag/internal/services/projects"
)

// AdminHandler handles collection and project administration requests
type AdminHandler struct {
	store    interfaces.VectorStore
	projects *projects.Matcher
	logger   arbor.ILogger
}

// NewAdminHandler creates a new admin handler with dependencies
func NewAdminHandler(store interfaces.VectorStore, matcher *projects.Matcher, logger arbor.ILogger) *AdminHandler {
	return &AdminHandler{
		store:    store,
		projects: matcher,
		logger:   logger,
	}
}

// StatsHandler handles GET /api/admin/stats requests
func (h *AdminHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, err := h.store.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to compute store stats")
		WriteError(w, http.StatusInternalServerError, "Failed to compute stats: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// CollectionsHandler handles GET and DELETE on /api/admin/collections.
// DELETE requires a name query parameter.
func (h *AdminHandler) CollectionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listCollections(w, r)
	case http.MethodDelete:
		h.deleteCollection(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AdminHandler) listCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.store.ListCollections(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list collections: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"collections": collections,
		"count":       len(collections),
	})
}

func (h *AdminHandler) deleteCollection(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	deleted, err := h.store.DeleteCollection(r.Context(), name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to delete collection: "+err.Error())
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Collection not found")
		return
	}

	h.logger.Info().Str("collection", name).Msg("Collection deleted")
	WriteSuccess(w, "Collection deleted")
}

// CollectionStatsHandler handles GET /api/admin/collections/stats?name= requests
func (h *AdminHandler) CollectionStatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	stats, err := h.store.CollectionStats(r.Context(), name)
	if err != nil {
		if errors.Is(err, interfaces.ErrCollectionNotFound) {
			WriteError(w, http.StatusNotFound, "Collection not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to read collection stats: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}

// ResetHandler handles POST /api/admin/reset requests. Every collection is
// deleted; the default collections are recreated on next use.
func (h *AdminHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	collections, err := h.store.ListCollections(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to list collections: "+err.Error())
		return
	}

	deleted := 0
	for _, name := range collections {
		ok, err := h.store.DeleteCollection(r.Context(), name)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to delete collection "+name+": "+err.Error())
			return
		}
		if ok {
			deleted++
		}
	}

	h.logger.Warn().Int("deleted", deleted).Msg("Vector store reset")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"deleted": deleted,
	})
}

// AddProjectHandler handles POST /api/admin/projects requests
func (h *AdminHandler) AddProjectHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var project models.ProjectMatch
	if !DecodeJSONBody(w, r, &project) {
		return
	}
	if strings.TrimSpace(project.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.projects.AddProject(r.Context(), &project); err != nil {
		h.logger.Error().Err(err).Str("project", project.Name).Msg("Failed to add project")
		WriteError(w, http.StatusInternalServerError, "Failed to add project: "+err.Error())
		return
	}

	h.logger.Info().Str("project", project.Name).Msg("Project added")
	WriteSuccess(w, "Project added")
}
