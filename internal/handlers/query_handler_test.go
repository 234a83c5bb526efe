package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
	"github.com/darukaa-earth/daruka-rag/internal/services/memory"
	"github.com/darukaa-earth/daruka-rag/internal/services/rag"
)

// mockStore implements interfaces.VectorStore for testing
type mockStore struct {
	results []interfaces.SearchResult
}

func (m *mockStore) Add(ctx context.Context, collection string, documents []string, metadatas []map[string]interface{}, ids []string) (int, error) {
	return len(documents), nil
}

func (m *mockStore) Search(ctx context.Context, query string, collections []string, topK int, filter map[string]string) ([]interfaces.SearchResult, error) {
	return m.results, nil
}

func (m *mockStore) ListCollections(ctx context.Context) ([]string, error) { return nil, nil }

func (m *mockStore) DeleteCollection(ctx context.Context, name string) (bool, error) {
	return false, nil
}

func (m *mockStore) CollectionStats(ctx context.Context, name string) (*interfaces.CollectionStats, error) {
	return nil, interfaces.ErrCollectionNotFound
}

func (m *mockStore) Stats(ctx context.Context) (*interfaces.StoreStats, error) {
	return &interfaces.StoreStats{}, nil
}

// mockLLM implements interfaces.LLMService for testing
type mockLLM struct {
	answer string
}

func (m *mockLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return m.answer, nil
}

func (m *mockLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (m *mockLLM) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (m *mockLLM) HealthCheck(ctx context.Context) error { return nil }
func (m *mockLLM) ModelName() string                     { return "mock-model" }
func (m *mockLLM) Close() error                          { return nil }

func newQueryHandler(results []interfaces.SearchResult, answer string) (*QueryHandler, *memory.Service) {
	logger := common.GetLogger()
	retrievalConfig := &common.RetrievalConfig{
		TopK:              5,
		DefaultCollection: "daruka_documents",
		MaxSourceLength:   500,
	}
	memoryConfig := &common.MemoryConfig{
		MaxSessionsPerContext: 100,
		HistoryMaxMessages:    6,
	}
	retriever := rag.NewRetriever(&mockStore{results: results}, retrievalConfig, logger)
	mem := memory.NewService(memoryConfig.MaxSessionsPerContext, logger)
	chain := rag.NewChain(retriever, &mockLLM{answer: answer}, mem, nil, memoryConfig, logger)
	return NewQueryHandler(chain, logger), mem
}

func TestQueryHandlerAnswers(t *testing.T) {
	results := []interfaces.SearchResult{
		{Content: "Mangrove cover increased by 12 percent.", ChunkID: "report_chunk_0", Score: 0.91,
			Metadata: map[string]interface{}{"source": "report.pdf"}},
	}
	handler, _ := newQueryHandler(results, "Cover increased by 12 percent.")

	body := `{"question": "How did mangrove cover change?"}`
	req := httptest.NewRequest("POST", "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.QueryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response models.RAGResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if response.Answer != "Cover increased by 12 percent." {
		t.Errorf("unexpected answer: %s", response.Answer)
	}
	if response.DocumentsUsed != 1 {
		t.Errorf("expected 1 document used, got %d", response.DocumentsUsed)
	}
	if len(response.Sources) != 1 || response.Sources[0].Source != "report.pdf" {
		t.Errorf("unexpected sources: %+v", response.Sources)
	}
}

func TestQueryHandlerMintsSessionID(t *testing.T) {
	results := []interfaces.SearchResult{
		{Content: "Survey notes.", ChunkID: "notes_chunk_0", Score: 0.8,
			Metadata: map[string]interface{}{"source": "notes.txt"}},
	}
	handler, mem := newQueryHandler(results, "Answer.")

	req := httptest.NewRequest("POST", "/api/query", strings.NewReader(`{"question": "What was surveyed?"}`))
	rec := httptest.NewRecorder()
	handler.QueryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response models.RAGResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !strings.HasPrefix(response.SessionID, "sess_") {
		t.Fatalf("expected a minted session id, got %q", response.SessionID)
	}

	// The minted session carries the exchange for follow-up questions
	info := mem.SessionInfo(response.SessionID, "")
	if info.MessageCount != 2 {
		t.Errorf("expected 2 messages in minted session, got %d", info.MessageCount)
	}
}

func TestQueryHandlerKeepsProvidedSessionID(t *testing.T) {
	handler, _ := newQueryHandler(nil, "Answer.")

	body := `{"question": "Hello?", "session_id": "sess_fixed"}`
	req := httptest.NewRequest("POST", "/api/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.QueryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response models.RAGResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if response.SessionID != "sess_fixed" {
		t.Errorf("expected sess_fixed, got %q", response.SessionID)
	}
}

func TestQueryHandlerRequiresQuestion(t *testing.T) {
	handler, _ := newQueryHandler(nil, "")

	req := httptest.NewRequest("POST", "/api/query", strings.NewReader(`{"question": "  "}`))
	rec := httptest.NewRecorder()
	handler.QueryHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestQueryHandlerRejectsGet(t *testing.T) {
	handler, _ := newQueryHandler(nil, "")

	req := httptest.NewRequest("GET", "/api/query", nil)
	rec := httptest.NewRecorder()
	handler.QueryHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestQueryHandlerInvalidJSON(t *testing.T) {
	handler, _ := newQueryHandler(nil, "")

	req := httptest.NewRequest("POST", "/api/query", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.QueryHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestContextQueryHandler(t *testing.T) {
	handler, _ := newQueryHandler(nil, "The survey covers 14 sites.")

	body := `{"question": "How many sites?", "context": "The 2024 survey covers 14 sites."}`
	req := httptest.NewRequest("POST", "/api/query/context", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ContextQueryHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if response["answer"] != "The survey covers 14 sites." {
		t.Errorf("unexpected answer: %s", response["answer"])
	}
}
