package models

// RetrievedDocument is a document returned by the retriever for one query.
// Score is cosine similarity, higher is better. Page is zero when the source
// chunk carries no page number.
type RetrievedDocument struct {
	Content  string                 `json:"content"`
	Source   string                 `json:"source"`
	ChunkID  string                 `json:"chunk_id"`
	Score    float64                `json:"score"`
	Page     int                    `json:"page,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SourceDocument is the response-facing view of a retrieved document with
// content capped for transport.
type SourceDocument struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Page    int     `json:"page,omitempty"`
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
}

// RAGResponse is the answer composer's result for one query
type RAGResponse struct {
	Answer        string           `json:"answer"`
	Sources       []SourceDocument `json:"sources"`
	Query         string           `json:"query"`
	DocumentsUsed int              `json:"documents_used"`
	SessionID     string           `json:"session_id,omitempty"`
	Project       *ProjectMatch    `json:"project,omitempty"`
}
