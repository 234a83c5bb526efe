package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Chunking    ChunkingConfig  `toml:"chunking"`
	Retrieval   RetrievalConfig `toml:"retrieval"`
	LLM         LLMConfig       `toml:"llm"`
	Memory      MemoryConfig    `toml:"memory"`
	Ingest      IngestConfig    `toml:"ingest"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                      // "stdout", "file"
}

// ChunkingConfig controls the chunking router and its strategies
type ChunkingConfig struct {
	ChunkSize             int `toml:"chunk_size" validate:"gt=0"`             // Target chunk size in characters
	ChunkOverlap          int `toml:"chunk_overlap" validate:"gte=0"`         // Overlap between chunks
	HierarchicalThreshold int `toml:"hierarchical_threshold" validate:"gt=0"` // Text length above which hierarchical chunking kicks in
	MaxTableSize          int `toml:"max_table_size" validate:"gt=0"`         // Serialized size above which tables are partitioned
	ParentChunkSize       int `toml:"parent_chunk_size" validate:"gt=0"`
	ChildChunkSize        int `toml:"child_chunk_size" validate:"gt=0"`
	ParentOverlap         int `toml:"parent_overlap" validate:"gte=0"`
	ChildOverlap          int `toml:"child_overlap" validate:"gte=0"`
}

// RetrievalConfig controls collection targeting and project matching
type RetrievalConfig struct {
	TopK               int     `toml:"top_k" validate:"gt=0"`                     // Number of chunks to retrieve
	DefaultCollection  string  `toml:"default_collection" validate:"required"`    // Always-searched internal collection
	ProjectsCollection string  `toml:"projects_collection" validate:"required"`   // Dedicated collection for project matching
	MatchThreshold     float64 `toml:"match_threshold" validate:"gte=0,lte=1"`    // Minimum score for an existing project match
	MaxSourceLength    int     `toml:"max_source_length" validate:"gt=0"`         // Source content cap in responses
}

// LLMConfig controls the language-model and embedding providers
type LLMConfig struct {
	Provider          string  `toml:"provider" validate:"oneof=claude gemini"` // Default provider for generation
	Model             string  `toml:"model"`                                   // Generation model (provider-prefixed names allowed)
	EmbedModel        string  `toml:"embed_model"`                             // Embedding model (Gemini)
	EmbedDimension    int     `toml:"embed_dimension" validate:"gt=0"`
	AnthropicAPIKey   string  `toml:"anthropic_api_key"`
	GoogleAPIKey      string  `toml:"google_api_key"`
	Temperature       float32 `toml:"temperature" validate:"gte=0,lte=1"`
	MaxTokens         int     `toml:"max_tokens" validate:"gt=0"`
	Timeout           string  `toml:"timeout"`
	RequestsPerMinute int     `toml:"requests_per_minute" validate:"gt=0"` // Rate limit shared across providers
}

// MemoryConfig controls conversation memory bounds and pruning
type MemoryConfig struct {
	MaxSessionsPerContext int    `toml:"max_sessions_per_context" validate:"gt=0"`
	HistoryMaxMessages    int    `toml:"history_max_messages" validate:"gt=0"`
	PruneSchedule         string `toml:"prune_schedule"` // Cron schedule, empty disables pruning
	MaxIdle               string `toml:"max_idle"`       // e.g. "24h" - sessions idle longer are pruned
}

type IngestConfig struct {
	UploadDir string `toml:"upload_dir" validate:"required"` // Directory for temporary file uploads
}

// DefaultConfig returns configuration defaults matching a development setup
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/vectors",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Chunking: ChunkingConfig{
			ChunkSize:             800,
			ChunkOverlap:          150,
			HierarchicalThreshold: 5000,
			MaxTableSize:          5000,
			ParentChunkSize:       1024,
			ChildChunkSize:        256,
			ParentOverlap:         100,
			ChildOverlap:          50,
		},
		Retrieval: RetrievalConfig{
			TopK:               5,
			DefaultCollection:  "daruka_documents",
			ProjectsCollection: "daruka_projects",
			MatchThreshold:     0.6,
			MaxSourceLength:    500,
		},
		LLM: LLMConfig{
			Provider:          "claude",
			Model:             "claude-3-5-haiku-20241022",
			EmbedModel:        "gemini-embedding-001",
			EmbedDimension:    768,
			Temperature:       0.0,
			MaxTokens:         4096,
			Timeout:           "120s",
			RequestsPerMinute: 60,
		},
		Memory: MemoryConfig{
			MaxSessionsPerContext: 100,
			HistoryMaxMessages:    6,
			PruneSchedule:         "0 * * * *",
			MaxIdle:               "24h",
		},
		Ingest: IngestConfig{
			UploadDir: "./data/uploads",
		},
	}
}

// LoadFromFile loads configuration from a TOML file, applying defaults first
// and environment overrides last. An empty path returns defaults + env.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("DARUKA_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("DARUKA_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("DARUKA_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if path := os.Getenv("DARUKA_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if level := os.Getenv("DARUKA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.LLM.AnthropicAPIKey = key
	}

	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		config.LLM.GoogleAPIKey = key
	}

	if provider := os.Getenv("DARUKA_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}

	if model := os.Getenv("DARUKA_LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
}
