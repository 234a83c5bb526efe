package handlers

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/chunking"
	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/services/ingest"
)

const maxUploadBytes = 64 << 20

// IngestHandler handles content ingestion HTTP requests
type IngestHandler struct {
	ingest    *ingest.Service
	uploadDir string
	logger    arbor.ILogger
}

// NewIngestHandler creates a new ingest handler with dependencies
func NewIngestHandler(ingestService *ingest.Service, config *common.IngestConfig, logger arbor.ILogger) *IngestHandler {
	return &IngestHandler{
		ingest:    ingestService,
		uploadDir: config.UploadDir,
		logger:    logger,
	}
}

type ingestTextRequest struct {
	Collection  string                 `json:"collection"`
	Source      string                 `json:"source"`
	Text        string                 `json:"text"`
	ContentType string                 `json:"content_type"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type ingestRowsRequest struct {
	Collection string                   `json:"collection"`
	Source     string                   `json:"source"`
	Rows       []map[string]interface{} `json:"rows"`
	Metadata   map[string]interface{}   `json:"metadata"`
}

// TextHandler handles POST /api/ingest/text requests
func (h *IngestHandler) TextHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ingestTextRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Source == "" {
		req.Source = common.NewDocumentID()
	}

	result, err := h.ingest.IngestText(r.Context(), req.Collection, req.Source, req.Text,
		chunking.ContentType(req.ContentType), req.Metadata)
	if err != nil {
		h.logger.Error().Err(err).Str("source", req.Source).Msg("Text ingestion failed")
		WriteError(w, http.StatusInternalServerError, "Ingestion failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// RowsHandler handles POST /api/ingest/rows requests
func (h *IngestHandler) RowsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ingestRowsRequest
	if !DecodeJSONBody(w, r, &req) {
		return
	}
	if len(req.Rows) == 0 {
		WriteError(w, http.StatusBadRequest, "rows are required")
		return
	}
	if req.Source == "" {
		req.Source = common.NewDocumentID()
	}

	result, err := h.ingest.IngestRows(r.Context(), req.Collection, req.Source, req.Rows, req.Metadata)
	if err != nil {
		h.logger.Error().Err(err).Str("source", req.Source).Msg("Row ingestion failed")
		WriteError(w, http.StatusInternalServerError, "Ingestion failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// PDFHandler handles POST /api/ingest/pdf multipart uploads. The uploaded
// file is staged under the configured upload directory and removed after
// processing.
func (h *IngestHandler) PDFHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	collection := r.FormValue("collection")
	source := r.FormValue("source")
	if source == "" {
		source = filepath.Base(header.Filename)
	}

	path, err := h.stageUpload(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to stage PDF upload")
		WriteError(w, http.StatusInternalServerError, "Upload failed: "+err.Error())
		return
	}
	defer os.Remove(path)

	result, err := h.ingest.IngestPDF(r.Context(), collection, source, path, map[string]interface{}{
		"filename": header.Filename,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("source", source).Msg("PDF ingestion failed")
		WriteError(w, http.StatusInternalServerError, "Ingestion failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

func (h *IngestHandler) stageUpload(file io.Reader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(h.uploadDir, "upload-*.pdf")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
