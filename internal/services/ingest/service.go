package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/chunking"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// Result summarizes one ingestion operation.
type Result struct {
	Collection   string `json:"collection"`
	Source       string `json:"source"`
	StrategyUsed string `json:"strategy_used"`
	ChunksAdded  int    `json:"chunks_added"`
	ParentsAdded int    `json:"parents_added"`
	Pages        int    `json:"pages,omitempty"`
}

// Service routes incoming content through the chunking router and persists
// the chunks into the vector store.
type Service struct {
	router    *chunking.Router
	semantic  *chunking.SemanticChunker
	store     interfaces.VectorStore
	extractor interfaces.PDFExtractor
	logger    arbor.ILogger
}

// NewService creates an ingestion service.
func NewService(router *chunking.Router, semantic *chunking.SemanticChunker, store interfaces.VectorStore, extractor interfaces.PDFExtractor, logger arbor.ILogger) *Service {
	return &Service{
		router:    router,
		semantic:  semantic,
		store:     store,
		extractor: extractor,
		logger:    logger,
	}
}

// SanitizeCollection normalizes a collection name: lowercased, spaces and
// dots become underscores.
func SanitizeCollection(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, ".", "_")
	return name
}

// IngestText routes raw text through the chunking router and stores the
// result.
func (s *Service) IngestText(ctx context.Context, collection, source, text string, contentType chunking.ContentType, metadata map[string]interface{}) (*Result, error) {
	result := s.router.RouteAndChunk(chunking.RawText{Text: text}, contentType, source, metadata)
	return s.persist(ctx, collection, source, result)
}

// IngestRows routes row-structured data through the chunking router and
// stores the result.
func (s *Service) IngestRows(ctx context.Context, collection, source string, rows []map[string]interface{}, metadata map[string]interface{}) (*Result, error) {
	result := s.router.RouteAndChunk(chunking.RowRecords{Rows: rows}, chunking.ContentTypeAuto, source, metadata)
	return s.persist(ctx, collection, source, result)
}

// IngestTable stores a pre-extracted table.
func (s *Service) IngestTable(ctx context.Context, collection, source string, table models.ExtractedTable, metadata map[string]interface{}) (*Result, error) {
	result := s.router.RouteAndChunk(chunking.PreExtractedTable{Table: table}, chunking.ContentTypeAuto, source, metadata)
	return s.persist(ctx, collection, source, result)
}

// IngestPDF extracts a PDF page by page, chunks each page independently and
// stores the globally re-indexed chunks.
func (s *Service) IngestPDF(ctx context.Context, collection, source, path string, metadata map[string]interface{}) (*Result, error) {
	extracted, err := s.extractor.ExtractPages(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("PDF extraction failed: %w", err)
	}

	pages := make([]chunking.Page, 0, len(extracted))
	for _, page := range extracted {
		pages = append(pages, chunking.Page{Number: page.PageNumber, Text: page.Text})
	}

	chunks := s.semantic.ChunkPages(pages, source, metadata)
	result, err := s.persist(ctx, collection, source, models.ChunkResult{
		Chunks:       chunks,
		StrategyUsed: string(models.ChunkStrategySemantic),
	})
	if err != nil {
		return nil, err
	}
	result.Pages = len(pages)
	return result, nil
}

// persist writes a chunk result into the vector store. Parent chunks are
// stored alongside children so hierarchical context survives retrieval.
func (s *Service) persist(ctx context.Context, collection, source string, result models.ChunkResult) (*Result, error) {
	collection = SanitizeCollection(collection)
	if collection == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	added, err := s.addChunks(ctx, collection, result.Chunks)
	if err != nil {
		return nil, err
	}
	parentsAdded, err := s.addChunks(ctx, collection, result.ParentChunks)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("collection", collection).
		Str("source", source).
		Str("strategy", result.StrategyUsed).
		Int("chunks", added).
		Int("parents", parentsAdded).
		Msg("Ingestion completed")

	return &Result{
		Collection:   collection,
		Source:       source,
		StrategyUsed: result.StrategyUsed,
		ChunksAdded:  added,
		ParentsAdded: parentsAdded,
	}, nil
}

func (s *Service) addChunks(ctx context.Context, collection string, chunks []models.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	documents := make([]string, 0, len(chunks))
	metadatas := make([]map[string]interface{}, 0, len(chunks))
	ids := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		documents = append(documents, chunk.Content)
		metadatas = append(metadatas, chunk.Metadata)
		ids = append(ids, chunk.ChunkID)
	}

	added, err := s.store.Add(ctx, collection, documents, metadatas, ids)
	if err != nil {
		return added, fmt.Errorf("failed to store chunks in %s: %w", collection, err)
	}
	return added, nil
}
