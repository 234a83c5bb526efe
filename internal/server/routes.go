package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Query (RAG question answering)
	mux.HandleFunc("/api/query", s.app.QueryHandler.QueryHandler)
	mux.HandleFunc("/api/query/project", s.app.QueryHandler.ProjectQueryHandler)
	mux.HandleFunc("/api/query/context", s.app.QueryHandler.ContextQueryHandler)

	// API routes - Ingestion
	mux.HandleFunc("/api/ingest/text", s.app.IngestHandler.TextHandler)
	mux.HandleFunc("/api/ingest/rows", s.app.IngestHandler.RowsHandler)
	mux.HandleFunc("/api/ingest/pdf", s.app.IngestHandler.PDFHandler)
	mux.HandleFunc("/api/upload", s.app.IngestHandler.PDFHandler)

	// API routes - Conversation sessions
	mux.HandleFunc("/api/sessions", s.handleSessionsRoute) // GET (list), DELETE (clear)
	mux.HandleFunc("/api/sessions/history", s.app.SessionHandler.HistoryHandler)

	// API routes - Administration
	mux.HandleFunc("/api/admin/stats", s.app.AdminHandler.StatsHandler)
	mux.HandleFunc("/api/admin/collections", s.app.AdminHandler.CollectionsHandler)
	mux.HandleFunc("/api/admin/collections/stats", s.app.AdminHandler.CollectionStatsHandler)
	mux.HandleFunc("/api/admin/projects", s.app.AdminHandler.AddProjectHandler)
	mux.HandleFunc("/api/admin/reset", s.app.AdminHandler.ResetHandler)

	// API routes - Status
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler)

	return mux
}

// handleSessionsRoute dispatches /api/sessions by method
func (s *Server) handleSessionsRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.app.SessionHandler.ListHandler(w, r)
	case http.MethodDelete:
		s.app.SessionHandler.ClearHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
