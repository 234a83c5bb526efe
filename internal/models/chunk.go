package models

import "fmt"

// ChunkStrategy tags a chunk with the strategy that produced it
type ChunkStrategy string

const (
	ChunkStrategySemantic           ChunkStrategy = "semantic"
	ChunkStrategyTable              ChunkStrategy = "table"
	ChunkStrategyQA                 ChunkStrategy = "qa"
	ChunkStrategyHierarchical       ChunkStrategy = "hierarchical"
	ChunkStrategyHierarchicalParent ChunkStrategy = "hierarchical_parent"
	ChunkStrategyHierarchicalChild  ChunkStrategy = "hierarchical_child"
)

// Chunk is the unit of retrievable content produced by every chunking
// strategy. ChunkID is unique within an ingestion batch and Content is never
// empty after trimming.
type Chunk struct {
	Content  string                 `json:"content"`
	ChunkID  string                 `json:"chunk_id"`
	Index    int                    `json:"index"`
	Strategy ChunkStrategy          `json:"strategy"`
	Metadata map[string]interface{} `json:"metadata"`

	// ParentID back-references the parent chunk for hierarchical children.
	ParentID string `json:"parent_id,omitempty"`
	// ChildIDs lists the children of a hierarchical parent, in order.
	ChildIDs []string `json:"child_ids,omitempty"`

	// Question/Answer are populated for Q&A chunks only.
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
}

// ChunkResult is the chunking router's output envelope. ParentChunks is
// populated only by the hierarchical strategy.
type ChunkResult struct {
	Chunks       []Chunk `json:"chunks"`
	StrategyUsed string  `json:"strategy_used"`
	ParentChunks []Chunk `json:"parent_chunks,omitempty"`
}

// NormalizeMetadata coerces a metadata map to scalar-only values for vector
// store ingestion. Strings, ints, floats and bools pass through, nil becomes
// an empty string, and everything else is coerced to its string
// representation.
func NormalizeMetadata(metadata map[string]interface{}) map[string]interface{} {
	if metadata == nil {
		return map[string]interface{}{}
	}

	normalized := make(map[string]interface{}, len(metadata))
	for key, value := range metadata {
		switch v := value.(type) {
		case nil:
			normalized[key] = ""
		case string, bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			normalized[key] = v
		default:
			normalized[key] = fmt.Sprintf("%v", v)
		}
	}
	return normalized
}
