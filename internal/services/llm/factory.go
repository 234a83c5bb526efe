package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
)

// NewLLMService creates the generation and embedding services from
// configuration. The generation provider follows the configured provider (or
// the model name prefix when it disagrees). Claude cannot embed, so when
// Claude generates, a Gemini service backs the embedding side; when Gemini
// generates, one service serves both roles.
func NewLLMService(ctx context.Context, config *common.LLMConfig, logger arbor.ILogger) (generator interfaces.LLMService, embedder interfaces.LLMService, err error) {
	provider := detectProvider(config)

	logger.Info().
		Str("provider", provider).
		Str("model", config.Model).
		Msg("Initializing LLM service")

	switch provider {
	case "claude":
		claude, err := NewClaudeService(config, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Claude service: %w", err)
		}
		gemini, err := newEmbeddingBackend(ctx, config, logger)
		if err != nil {
			claude.Close()
			return nil, nil, err
		}
		return claude, gemini, nil

	case "gemini":
		gemini, err := NewGeminiService(ctx, config, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini service: %w", err)
		}
		return gemini, gemini, nil

	default:
		return nil, nil, fmt.Errorf("unsupported LLM provider '%s': must be 'claude' or 'gemini'", provider)
	}
}

// newEmbeddingBackend builds the Gemini service used solely for embeddings
// when the generation provider cannot embed.
func newEmbeddingBackend(ctx context.Context, config *common.LLMConfig, logger arbor.ILogger) (interfaces.LLMService, error) {
	// Copy the config so the embedding backend's model defaults don't clobber
	// the generation model.
	embedConfig := *config
	embedConfig.Model = ""

	gemini, err := NewGeminiService(ctx, &embedConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini embedding backend: %w", err)
	}
	return gemini, nil
}

// detectProvider resolves the provider from the model name prefix, falling
// back to the configured provider.
func detectProvider(config *common.LLMConfig) string {
	model := strings.ToLower(config.Model)
	switch {
	case strings.HasPrefix(model, "claude"):
		return "claude"
	case strings.HasPrefix(model, "gemini"):
		return "gemini"
	default:
		return config.Provider
	}
}
