package interfaces

import (
	"context"
	"errors"
)

// ErrCollectionNotFound is returned when an operation targets a collection
// that does not exist. Distinct from store failures.
var ErrCollectionNotFound = errors.New("collection not found")

// SearchResult is one ranked hit from a similarity search.
// Score = 1 - cosine distance, higher is better.
type SearchResult struct {
	Content  string                 `json:"content"`
	ChunkID  string                 `json:"chunk_id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

// CollectionStats holds per-collection counts
type CollectionStats struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StoreStats aggregates counts across all collections
type StoreStats struct {
	TotalCollections    int            `json:"total_collections"`
	TotalChunks         int            `json:"total_chunks"`
	Collections         []string       `json:"collections"`
	ChunksPerCollection map[string]int `json:"chunks_per_collection"`
}

// VectorStore is the nearest-neighbor oracle: named collections of embedded
// documents searchable by cosine similarity. Metadata values passed to Add
// must be scalar; callers normalize with models.NormalizeMetadata first.
type VectorStore interface {
	// Add stores documents with metadata under the given ids and returns the
	// number of documents added. documents, metadatas and ids must have equal
	// length.
	Add(ctx context.Context, collection string, documents []string, metadatas []map[string]interface{}, ids []string) (int, error)

	// Search runs a similarity search across the named collections and
	// returns ranked results, best first. A nil collections slice searches
	// every known collection. filter restricts results to records whose
	// metadata matches every key/value pair.
	Search(ctx context.Context, query string, collections []string, topK int, filter map[string]string) ([]SearchResult, error)

	// ListCollections returns all known collection names, sorted for
	// deterministic ordering.
	ListCollections(ctx context.Context) ([]string, error)

	// DeleteCollection removes a collection and its records. Returns true if
	// the collection existed.
	DeleteCollection(ctx context.Context, name string) (bool, error)

	// CollectionStats returns counts for one collection.
	CollectionStats(ctx context.Context, name string) (*CollectionStats, error)

	// Stats returns aggregate counts for the whole store.
	Stats(ctx context.Context) (*StoreStats, error)
}
