package rag

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// NoDocumentsSentinel is returned by FormatContext when retrieval found
// nothing, so the generator is told explicitly rather than given an empty
// context block.
const NoDocumentsSentinel = "No relevant documents found."

// Retriever selects target collections for a query, runs the similarity
// search and shapes results for prompt and response use.
type Retriever struct {
	store  interfaces.VectorStore
	config *common.RetrievalConfig
	logger arbor.ILogger
}

// NewRetriever creates a retriever over the given vector store.
func NewRetriever(store interfaces.VectorStore, config *common.RetrievalConfig, logger arbor.ILogger) *Retriever {
	return &Retriever{
		store:  store,
		config: config,
		logger: logger,
	}
}

// Retrieve runs a similarity search and returns documents ordered by
// descending score, ties preserved in oracle order. With no context filter
// every known collection is searched; with one, the default collection plus
// at most one filter-matching collection.
func (r *Retriever) Retrieve(ctx context.Context, query, contextFilter string, topK int) ([]models.RetrievedDocument, error) {
	if topK <= 0 {
		topK = r.config.TopK
	}

	collections, err := r.selectCollections(ctx, contextFilter)
	if err != nil {
		return nil, err
	}

	results, err := r.store.Search(ctx, query, collections, topK, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieval search failed: %w", err)
	}

	documents := make([]models.RetrievedDocument, 0, len(results))
	for _, result := range results {
		documents = append(documents, models.RetrievedDocument{
			Content:  result.Content,
			Source:   metadataString(result.Metadata, "source"),
			ChunkID:  result.ChunkID,
			Score:    result.Score,
			Page:     metadataInt(result.Metadata, "page"),
			Metadata: result.Metadata,
		})
	}

	r.logger.Debug().
		Str("context_filter", contextFilter).
		Int("documents", len(documents)).
		Msg("Retrieval completed")

	return documents, nil
}

// selectCollections resolves the target collections for a query. A nil
// return searches everything. With a filter, the default collection is
// always included and the first collection whose normalized name contains
// the normalized filter string joins it.
func (r *Retriever) selectCollections(ctx context.Context, contextFilter string) ([]string, error) {
	if contextFilter == "" {
		return nil, nil
	}

	collections := []string{r.config.DefaultCollection}

	known, err := r.store.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	normalized := normalizeFilter(contextFilter)
	for _, name := range known {
		if name == r.config.DefaultCollection {
			continue
		}
		if strings.Contains(strings.ToLower(name), normalized) {
			collections = append(collections, name)
			break
		}
	}
	return collections, nil
}

// normalizeFilter lowercases the filter and replaces spaces with
// underscores to match collection naming.
func normalizeFilter(filter string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(filter)), " ", "_")
}

// FormatContext renders retrieved documents as numbered context blocks for
// the generation prompt.
func (r *Retriever) FormatContext(documents []models.RetrievedDocument) string {
	if len(documents) == 0 {
		return NoDocumentsSentinel
	}

	blocks := make([]string, 0, len(documents))
	for i, doc := range documents {
		source := doc.Source
		if source == "" {
			source = "unknown"
		}
		header := fmt.Sprintf("--- Document %d [Source: %s] ---", i+1, source)
		if doc.Page > 0 {
			header = fmt.Sprintf("--- Document %d [Source: %s, Page %d] ---", i+1, source, doc.Page)
		}
		blocks = append(blocks, header+"\n"+doc.Content)
	}
	return strings.Join(blocks, "\n\n")
}

// Sources shapes retrieved documents for the API response: content capped at
// the configured length with an ellipsis marker, scores rounded to four
// decimals. Order is preserved, never re-ranked.
func (r *Retriever) Sources(documents []models.RetrievedDocument) []models.SourceDocument {
	maxLen := r.config.MaxSourceLength
	if maxLen <= 0 {
		maxLen = 500
	}

	sources := make([]models.SourceDocument, 0, len(documents))
	for _, doc := range documents {
		content := doc.Content
		if len(content) > maxLen {
			content = content[:maxLen] + "..."
		}
		sources = append(sources, models.SourceDocument{
			Content: content,
			Source:  doc.Source,
			Page:    doc.Page,
			ChunkID: doc.ChunkID,
			Score:   roundScore(doc.Score),
		})
	}
	return sources
}

func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}

func metadataString(metadata map[string]interface{}, key string) string {
	if metadata == nil {
		return ""
	}
	if value, ok := metadata[key]; ok && value != nil {
		return fmt.Sprintf("%v", value)
	}
	return ""
}

func metadataInt(metadata map[string]interface{}, key string) int {
	if metadata == nil {
		return 0
	}
	switch v := metadata[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
