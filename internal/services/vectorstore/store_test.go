package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
)

// stubEmbedder returns fixed vectors per text so similarity ordering is
// fully controlled by the test.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, _ := s.EmbedOne(ctx, t)
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return s.EmbedOne(ctx, query)
}

func (s *stubEmbedder) ModelName() string                   { return "stub" }
func (s *stubEmbedder) Dimension() int                      { return 3 }
func (s *stubEmbedder) IsAvailable(ctx context.Context) bool { return true }

func newTestStore(t *testing.T, embedder interfaces.EmbeddingService) *Store {
	t.Helper()
	db, err := NewBadgerDB(common.GetLogger(), &common.BadgerConfig{
		Path: filepath.Join(t.TempDir(), "vectors"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, embedder, common.GetLogger())
}

func TestAddAndSearchOrdering(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"query":    {1, 0, 0},
		"close":    {0.9, 0.1, 0},
		"closer":   {1, 0.01, 0},
		"far":      {0, 1, 0},
		"opposite": {0, 0, 1},
	}}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	docs := []string{"far", "closer", "opposite", "close"}
	metas := make([]map[string]interface{}, len(docs))
	ids := []string{"d1", "d2", "d3", "d4"}
	count, err := store.Add(ctx, "docs", docs, metas, ids)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	results, err := store.Search(ctx, "query", []string{"docs"}, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "closer", results[0].Content)
	assert.Equal(t, "close", results[1].Content)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
	assert.Equal(t, "docs", results[0].Metadata["collection"])
}

func TestSearchStableOnTies(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"query": {1, 0, 0},
		"tie-a": {1, 0, 0},
		"tie-b": {1, 0, 0},
	}}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	_, err := store.Add(ctx, "docs",
		[]string{"tie-a", "tie-b"},
		[]map[string]interface{}{nil, nil},
		[]string{"a", "b"})
	require.NoError(t, err)

	results, err := store.Search(ctx, "query", []string{"docs"}, 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, results[0].Score, results[1].Score)
}

func TestSearchAllCollectionsWhenNil(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	_, err := store.Add(ctx, "alpha", []string{"one"}, []map[string]interface{}{nil}, []string{"1"})
	require.NoError(t, err)
	_, err = store.Add(ctx, "beta", []string{"two"}, []map[string]interface{}{nil}, []string{"2"})
	require.NoError(t, err)

	results, err := store.Search(ctx, "anything", nil, 10, nil)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchMetadataFilter(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	_, err := store.Add(ctx, "docs",
		[]string{"tagged", "untagged"},
		[]map[string]interface{}{
			{"category": "faq"},
			{"category": "report"},
		},
		[]string{"t1", "t2"})
	require.NoError(t, err)

	results, err := store.Search(ctx, "q", []string{"docs"}, 10, map[string]string{"category": "faq"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "tagged", results[0].Content)
}

func TestMetadataNormalizedOnAdd(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	_, err := store.Add(ctx, "docs",
		[]string{"doc"},
		[]map[string]interface{}{{
			"str":   "keep",
			"num":   42,
			"null":  nil,
			"slice": []string{"a", "b"},
		}},
		[]string{"d"})
	require.NoError(t, err)

	results, err := store.Search(ctx, "doc", []string{"docs"}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "keep", results[0].Metadata["str"])
	assert.Equal(t, "", results[0].Metadata["null"])
	assert.Equal(t, "[a b]", results[0].Metadata["slice"])
}

func TestListAndDeleteCollections(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	_, err := store.Add(ctx, "zeta", []string{"z"}, []map[string]interface{}{nil}, []string{"z"})
	require.NoError(t, err)
	_, err = store.Add(ctx, "alpha", []string{"a"}, []map[string]interface{}{nil}, []string{"a"})
	require.NoError(t, err)

	names, err := store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)

	existed, err := store.DeleteCollection(ctx, "zeta")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = store.DeleteCollection(ctx, "zeta")
	require.NoError(t, err)
	assert.False(t, existed)

	names, err = store.ListCollections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, names)
}

func TestStats(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{}}
	store := newTestStore(t, embedder)
	ctx := context.Background()

	_, err := store.Add(ctx, "docs", []string{"x", "y"}, []map[string]interface{}{nil, nil}, []string{"x", "y"})
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCollections)
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Equal(t, 2, stats.ChunksPerCollection["docs"])

	_, err = store.CollectionStats(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrCollectionNotFound)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1}, []float32{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
