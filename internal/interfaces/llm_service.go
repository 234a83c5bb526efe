package interfaces

import (
	"context"
	"errors"
)

// ErrEmbeddingUnsupported is returned by providers that cannot generate
// embeddings (e.g. Claude). The factory pairs such providers with an
// embedding-capable one.
var ErrEmbeddingUnsupported = errors.New("embedding not supported by this provider")

// LLMService defines the language-model oracle: synchronous text generation
// plus embedding generation. Implementations are cloud providers (Claude,
// Gemini); callers treat the service as opaque.
type LLMService interface {
	// Generate produces a completion for a system prompt + user prompt pair.
	// Synchronous, no streaming, no retries.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Embed generates an embedding vector for the given text. Dimensionality
	// is model-defined and fixed per deployment.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// HealthCheck verifies the service can handle requests.
	HealthCheck(ctx context.Context) error

	// ModelName returns the generation model identifier.
	ModelName() string

	// Close releases provider resources.
	Close() error
}
