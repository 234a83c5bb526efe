package interfaces

import "context"

// EmbeddingService generates vector embeddings for documents and queries
type EmbeddingService interface {
	// Generate embedding for a single text
	EmbedOne(ctx context.Context, text string) ([]float32, error)

	// Generate embeddings for multiple texts, preserving input order
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)

	// Generate query embedding (may differ from document embedding)
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Get model information
	ModelName() string
	Dimension() int

	// Check if service is available
	IsAvailable(ctx context.Context) bool
}
