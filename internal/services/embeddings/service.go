package embeddings

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
)

// Service adapts an embedding-capable LLM provider to the EmbeddingService
// interface used by the vector store and retriever.
type Service struct {
	provider  interfaces.LLMService
	logger    arbor.ILogger
	modelName string
	dimension int
}

// NewService creates an embedding service backed by the given provider.
func NewService(provider interfaces.LLMService, modelName string, dimension int, logger arbor.ILogger) *Service {
	return &Service{
		provider:  provider,
		logger:    logger,
		modelName: modelName,
		dimension: dimension,
	}
}

// EmbedOne generates an embedding for a single text.
func (s *Service) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	embedding, err := s.provider.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return embedding, nil
}

// EmbedMany generates embeddings for multiple texts, preserving input order.
func (s *Service) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings, err := s.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate batch embeddings: %w", err)
	}

	s.logger.Debug().
		Int("count", len(embeddings)).
		Msg("Generated batch embeddings")

	return embeddings, nil
}

// EmbedQuery generates a query embedding. Queries and documents share the
// same embedding space for this provider.
func (s *Service) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return s.EmbedOne(ctx, query)
}

// ModelName returns the embedding model identifier.
func (s *Service) ModelName() string {
	return s.modelName
}

// Dimension returns the fixed embedding dimensionality.
func (s *Service) Dimension() int {
	return s.dimension
}

// IsAvailable reports whether the backing provider can serve embeddings.
func (s *Service) IsAvailable(ctx context.Context) bool {
	_, err := s.provider.Embed(ctx, "availability probe")
	return err == nil
}
