package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// Record is one embedded document persisted in Badger. Records are keyed by
// collection-qualified ID so the same document ID can live in different
// collections.
type Record struct {
	ID         string `badgerhold:"key"`
	Collection string `badgerhold:"index"`
	DocumentID string
	Content    string
	Metadata   map[string]interface{}
	Embedding  []float32
	CreatedAt  time.Time
}

// collectionMeta registers a collection so empty collections survive
// restarts and list operations.
type collectionMeta struct {
	Name      string `badgerhold:"key"`
	CreatedAt time.Time
}

// Store implements the VectorStore interface on BadgerDB. Embeddings are
// computed through the embedding service on Add and Search; similarity is
// cosine, reported as a score where higher is better.
type Store struct {
	db       *BadgerDB
	embedder interfaces.EmbeddingService
	logger   arbor.ILogger
}

// NewStore creates a vector store on the given database connection.
func NewStore(db *BadgerDB, embedder interfaces.EmbeddingService, logger arbor.ILogger) *Store {
	return &Store{
		db:       db,
		embedder: embedder,
		logger:   logger,
	}
}

// EnsureCollection registers a collection, creating it if missing.
func (s *Store) EnsureCollection(ctx context.Context, name string) error {
	meta := collectionMeta{Name: name, CreatedAt: time.Now()}
	if err := s.db.Store().Insert(name, &meta); err != nil && err != badgerhold.ErrKeyExists {
		return fmt.Errorf("failed to register collection %s: %w", name, err)
	}
	return nil
}

// Add stores documents with metadata under the given ids. Metadata is
// normalized to scalar values before persistence.
func (s *Store) Add(ctx context.Context, collection string, documents []string, metadatas []map[string]interface{}, ids []string) (int, error) {
	if len(documents) != len(ids) || len(documents) != len(metadatas) {
		return 0, fmt.Errorf("documents, metadatas and ids must have equal length: %d/%d/%d", len(documents), len(metadatas), len(ids))
	}
	if len(documents) == 0 {
		return 0, nil
	}

	if err := s.EnsureCollection(ctx, collection); err != nil {
		return 0, err
	}

	embeddings, err := s.embedder.EmbedMany(ctx, documents)
	if err != nil {
		return 0, fmt.Errorf("failed to embed documents for collection %s: %w", collection, err)
	}

	now := time.Now()
	for i := range documents {
		record := Record{
			ID:         collection + "/" + ids[i],
			Collection: collection,
			DocumentID: ids[i],
			Content:    documents[i],
			Metadata:   models.NormalizeMetadata(metadatas[i]),
			Embedding:  embeddings[i],
			CreatedAt:  now,
		}
		if err := s.db.Store().Upsert(record.ID, &record); err != nil {
			return i, fmt.Errorf("failed to store document %s: %w", ids[i], err)
		}
	}

	s.logger.Debug().
		Str("collection", collection).
		Int("count", len(documents)).
		Msg("Added documents to vector store")

	return len(documents), nil
}

// Search runs a cosine similarity search across the named collections. A nil
// collections slice searches every known collection. Results are merged,
// sorted by descending score (stable, so per-collection order breaks ties)
// and truncated to topK.
func (s *Store) Search(ctx context.Context, query string, collections []string, topK int, filter map[string]string) ([]interfaces.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}

	if collections == nil {
		known, err := s.ListCollections(ctx)
		if err != nil {
			return nil, err
		}
		collections = known
	}
	if len(collections) == 0 {
		return nil, nil
	}

	queryEmbedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	var results []interfaces.SearchResult
	for _, collection := range collections {
		var records []Record
		if err := s.db.Store().Find(&records, badgerhold.Where("Collection").Eq(collection).Index("Collection")); err != nil {
			return nil, fmt.Errorf("failed to scan collection %s: %w", collection, err)
		}

		for _, record := range records {
			if !matchesFilter(record.Metadata, filter) {
				continue
			}
			score := cosineSimilarity(queryEmbedding, record.Embedding)

			metadata := make(map[string]interface{}, len(record.Metadata)+1)
			for k, v := range record.Metadata {
				metadata[k] = v
			}
			metadata["collection"] = collection

			results = append(results, interfaces.SearchResult{
				Content:  record.Content,
				ChunkID:  record.DocumentID,
				Score:    score,
				Metadata: metadata,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	s.logger.Debug().
		Int("collections", len(collections)).
		Int("results", len(results)).
		Msg("Vector search completed")

	return results, nil
}

// ListCollections returns all known collection names, sorted.
func (s *Store) ListCollections(ctx context.Context) ([]string, error) {
	var metas []collectionMeta
	if err := s.db.Store().Find(&metas, nil); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	names := make([]string, 0, len(metas))
	for _, meta := range metas {
		names = append(names, meta.Name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteCollection removes a collection and all its records. Returns true if
// the collection existed.
func (s *Store) DeleteCollection(ctx context.Context, name string) (bool, error) {
	var meta collectionMeta
	if err := s.db.Store().Get(name, &meta); err != nil {
		if err == badgerhold.ErrNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up collection %s: %w", name, err)
	}

	if err := s.db.Store().DeleteMatching(&Record{}, badgerhold.Where("Collection").Eq(name).Index("Collection")); err != nil {
		return false, fmt.Errorf("failed to delete records for collection %s: %w", name, err)
	}
	if err := s.db.Store().Delete(name, &collectionMeta{}); err != nil {
		return false, fmt.Errorf("failed to delete collection %s: %w", name, err)
	}

	s.logger.Info().Str("collection", name).Msg("Deleted collection")
	return true, nil
}

// CollectionStats returns counts for one collection.
func (s *Store) CollectionStats(ctx context.Context, name string) (*interfaces.CollectionStats, error) {
	var meta collectionMeta
	if err := s.db.Store().Get(name, &meta); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to look up collection %s: %w", name, err)
	}

	count, err := s.db.Store().Count(&Record{}, badgerhold.Where("Collection").Eq(name).Index("Collection"))
	if err != nil {
		return nil, fmt.Errorf("failed to count collection %s: %w", name, err)
	}

	return &interfaces.CollectionStats{
		Name:  name,
		Count: int(count),
	}, nil
}

// Stats returns aggregate counts for the whole store.
func (s *Store) Stats(ctx context.Context) (*interfaces.StoreStats, error) {
	names, err := s.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	stats := &interfaces.StoreStats{
		TotalCollections:    len(names),
		Collections:         names,
		ChunksPerCollection: make(map[string]int, len(names)),
	}
	for _, name := range names {
		collStats, err := s.CollectionStats(ctx, name)
		if err != nil {
			return nil, err
		}
		stats.ChunksPerCollection[name] = collStats.Count
		stats.TotalChunks += collStats.Count
	}
	return stats, nil
}

// matchesFilter reports whether the metadata satisfies every filter pair.
func matchesFilter(metadata map[string]interface{}, filter map[string]string) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || fmt.Sprintf("%v", got) != want {
			return false
		}
	}
	return true
}

// cosineSimilarity computes the cosine similarity of two vectors. Mismatched
// or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
