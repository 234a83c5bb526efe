package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// fakeStore records search arguments and returns canned results.
type fakeStore struct {
	collections  []string
	results      []interfaces.SearchResult
	searchedWith []string
	searchedNil  bool
}

func (f *fakeStore) Add(ctx context.Context, collection string, documents []string, metadatas []map[string]interface{}, ids []string) (int, error) {
	return len(documents), nil
}

func (f *fakeStore) Search(ctx context.Context, query string, collections []string, topK int, filter map[string]string) ([]interfaces.SearchResult, error) {
	f.searchedWith = collections
	f.searchedNil = collections == nil
	if len(f.results) > topK {
		return f.results[:topK], nil
	}
	return f.results, nil
}

func (f *fakeStore) ListCollections(ctx context.Context) ([]string, error) {
	return f.collections, nil
}
func (f *fakeStore) DeleteCollection(ctx context.Context, name string) (bool, error) {
	return false, nil
}
func (f *fakeStore) CollectionStats(ctx context.Context, name string) (*interfaces.CollectionStats, error) {
	return nil, interfaces.ErrCollectionNotFound
}
func (f *fakeStore) Stats(ctx context.Context) (*interfaces.StoreStats, error) {
	return &interfaces.StoreStats{}, nil
}

func testRetrievalConfig() *common.RetrievalConfig {
	return &common.RetrievalConfig{
		TopK:               5,
		DefaultCollection:  "daruka_documents",
		ProjectsCollection: "daruka_projects",
		MatchThreshold:     0.6,
		MaxSourceLength:    500,
	}
}

func TestRetrieveNoFilterSearchesAllCollections(t *testing.T) {
	store := &fakeStore{collections: []string{"daruka_documents", "site_alpha"}}
	r := NewRetriever(store, testRetrievalConfig(), common.GetLogger())

	_, err := r.Retrieve(context.Background(), "question", "", 5)
	require.NoError(t, err)
	assert.True(t, store.searchedNil, "expected nil collections for an unfiltered search")
}

func TestRetrieveFilterTargetsDefaultPlusMatch(t *testing.T) {
	store := &fakeStore{collections: []string{"daruka_documents", "site_alpha", "site_beta"}}
	r := NewRetriever(store, testRetrievalConfig(), common.GetLogger())

	_, err := r.Retrieve(context.Background(), "question", "Site Alpha", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"daruka_documents", "site_alpha"}, store.searchedWith)
}

func TestRetrieveFilterNoMatchKeepsDefaultOnly(t *testing.T) {
	store := &fakeStore{collections: []string{"daruka_documents", "site_alpha"}}
	r := NewRetriever(store, testRetrievalConfig(), common.GetLogger())

	_, err := r.Retrieve(context.Background(), "question", "unknown site", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"daruka_documents"}, store.searchedWith)
}

func TestRetrieveMapsResults(t *testing.T) {
	store := &fakeStore{results: []interfaces.SearchResult{{
		Content: "Mangrove cover expanded.",
		ChunkID: "doc_chunk_0",
		Score:   0.91,
		Metadata: map[string]interface{}{
			"source": "annual_report",
			"page":   3,
		},
	}}}
	r := NewRetriever(store, testRetrievalConfig(), common.GetLogger())

	docs, err := r.Retrieve(context.Background(), "mangroves", "", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "annual_report", docs[0].Source)
	assert.Equal(t, 3, docs[0].Page)
	assert.Equal(t, 0.91, docs[0].Score)
}

func TestFormatContextNumbersDocuments(t *testing.T) {
	r := NewRetriever(&fakeStore{}, testRetrievalConfig(), common.GetLogger())

	formatted := r.FormatContext([]models.RetrievedDocument{
		{Content: "First.", Source: "report", Page: 2},
		{Content: "Second.", Source: "faq"},
	})

	assert.Contains(t, formatted, "--- Document 1 [Source: report, Page 2] ---\nFirst.")
	assert.Contains(t, formatted, "--- Document 2 [Source: faq] ---\nSecond.")
	assert.Equal(t, 2, strings.Count(formatted, "--- Document"))
}

func TestFormatContextEmptySentinel(t *testing.T) {
	r := NewRetriever(&fakeStore{}, testRetrievalConfig(), common.GetLogger())
	assert.Equal(t, NoDocumentsSentinel, r.FormatContext(nil))
}

func TestSourcesTruncatesAndRounds(t *testing.T) {
	r := NewRetriever(&fakeStore{}, testRetrievalConfig(), common.GetLogger())

	long := strings.Repeat("x", 600)
	sources := r.Sources([]models.RetrievedDocument{
		{Content: long, Source: "big", Score: 0.123456},
		{Content: "short", Source: "small", Score: 0.5},
	})

	require.Len(t, sources, 2)
	assert.Len(t, sources[0].Content, 503)
	assert.True(t, strings.HasSuffix(sources[0].Content, "..."))
	assert.Equal(t, 0.1235, sources[0].Score)
	assert.Equal(t, "short", sources[1].Content)
}
