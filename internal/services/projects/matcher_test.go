package projects

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// fakeStore returns canned search results.
type fakeStore struct {
	results []interfaces.SearchResult
	added   int
}

func (f *fakeStore) Add(ctx context.Context, collection string, documents []string, metadatas []map[string]interface{}, ids []string) (int, error) {
	f.added += len(documents)
	return len(documents), nil
}

func (f *fakeStore) Search(ctx context.Context, query string, collections []string, topK int, filter map[string]string) ([]interfaces.SearchResult, error) {
	return f.results, nil
}

func (f *fakeStore) ListCollections(ctx context.Context) ([]string, error) { return nil, nil }
func (f *fakeStore) DeleteCollection(ctx context.Context, name string) (bool, error) {
	return false, nil
}
func (f *fakeStore) CollectionStats(ctx context.Context, name string) (*interfaces.CollectionStats, error) {
	return nil, interfaces.ErrCollectionNotFound
}
func (f *fakeStore) Stats(ctx context.Context) (*interfaces.StoreStats, error) {
	return &interfaces.StoreStats{}, nil
}

// fakeLLM returns a canned generation response.
type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.response, f.err
}
func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, interfaces.ErrEmbeddingUnsupported
}
func (f *fakeLLM) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return nil, interfaces.ErrEmbeddingUnsupported
}
func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) ModelName() string                     { return "fake" }
func (f *fakeLLM) Close() error                          { return nil }

func newTestMatcher(store *fakeStore, llm *fakeLLM) *Matcher {
	config := &common.RetrievalConfig{
		ProjectsCollection: "daruka_projects",
		MatchThreshold:     0.6,
		DefaultCollection:  "daruka_documents",
		TopK:               5,
		MaxSourceLength:    500,
	}
	return NewMatcher(store, llm, config, common.GetLogger())
}

func TestFindMatchingProjectAboveThreshold(t *testing.T) {
	store := &fakeStore{results: []interfaces.SearchResult{{
		Content: "Mangrove restoration in the Sundarbans.",
		ChunkID: "proj_1",
		Score:   0.82,
		Metadata: map[string]interface{}{
			"project_name":      "Sundarbans Mangrove MRV",
			"focus_areas":       "mangroves, carbon credits",
			"target_species":    "Bengal tiger,  fishing cat",
			"location":          "Sundarbans",
			"methodology":       "Bioacoustics and satellite imagery",
			"expected_outcomes": "baseline, credits,",
		},
	}}}
	m := newTestMatcher(store, &fakeLLM{})

	match, err := m.FindMatchingProject(context.Background(), "mangrove conservation", "coastal MRV", 3)
	require.NoError(t, err)
	require.NotNil(t, match)

	assert.Equal(t, "Sundarbans Mangrove MRV", match.Name)
	assert.Equal(t, models.ProjectTypeExisting, match.ProjectType)
	assert.Equal(t, []string{"mangroves", "carbon credits"}, match.FocusAreas)
	assert.Equal(t, []string{"Bengal tiger", "fishing cat"}, match.TargetSpecies)
	assert.Equal(t, []string{"baseline", "credits"}, match.ExpectedOutcomes)
	assert.Equal(t, 0.82, match.RelevanceScore)
	assert.Equal(t, "proj_1", match.SourceChunkID)
}

func TestFindMatchingProjectBelowThreshold(t *testing.T) {
	store := &fakeStore{results: []interfaces.SearchResult{{
		Content: "Unrelated project.",
		Score:   0.59,
	}}}
	m := newTestMatcher(store, &fakeLLM{})

	match, err := m.FindMatchingProject(context.Background(), "raptor conservation", "", 3)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestFindMatchingProjectAtThreshold(t *testing.T) {
	store := &fakeStore{results: []interfaces.SearchResult{{
		Content:  "Borderline project.",
		Score:    0.6,
		Metadata: map[string]interface{}{"project_name": "Borderline"},
	}}}
	m := newTestMatcher(store, &fakeLLM{})

	match, err := m.FindMatchingProject(context.Background(), "x", "", 3)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "Borderline", match.Name)
}

func TestFindMatchingProjectNoResults(t *testing.T) {
	m := newTestMatcher(&fakeStore{}, &fakeLLM{})

	match, err := m.FindMatchingProject(context.Background(), "x", "", 3)
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestGenerateProjectParsesJSON(t *testing.T) {
	llm := &fakeLLM{response: `{
		"project_name": "Raptor Watch Deccan",
		"focus_areas": ["raptor conservation"],
		"target_species": ["Indian vulture"],
		"location": "Deccan Plateau",
		"description": "Acoustic and visual raptor monitoring.",
		"methodology": "Bioacoustic arrays with community observers.",
		"expected_outcomes": ["population baseline"]
	}`}
	m := newTestMatcher(&fakeStore{}, llm)

	project := m.GenerateHypotheticalProject(context.Background(), "raptor conservation", "", "")
	assert.Equal(t, "Raptor Watch Deccan", project.Name)
	assert.Equal(t, models.ProjectTypeGenerated, project.ProjectType)
	assert.Equal(t, 1.0, project.RelevanceScore)
}

func TestGenerateProjectStripsCodeFences(t *testing.T) {
	llm := &fakeLLM{response: "```json\n{\"project_name\": \"Fenced Project\", \"location\": \"Assam\"}\n```"}
	m := newTestMatcher(&fakeStore{}, llm)

	project := m.GenerateHypotheticalProject(context.Background(), "wetlands", "", "")
	assert.Equal(t, "Fenced Project", project.Name)
	assert.Equal(t, "Assam", project.Location)
}

func TestGenerateProjectFallbackOnMalformedJSON(t *testing.T) {
	llm := &fakeLLM{response: "Sorry, I cannot produce JSON today."}
	m := newTestMatcher(&fakeStore{}, llm)

	project := m.GenerateHypotheticalProject(context.Background(), "raptor conservation", "", "")
	require.NotNil(t, project)
	assert.Equal(t, models.ProjectTypeGenerated, project.ProjectType)
	assert.Contains(t, project.Name, "raptor conservation")
	assert.Equal(t, []string{"raptor conservation"}, project.FocusAreas)
	assert.Equal(t, "India", project.Location)
	assert.Equal(t, 0.8, project.RelevanceScore)
}

func TestGetOrGenerateAlwaysReturnsProject(t *testing.T) {
	// No match in the store and a broken model still yields a project.
	m := newTestMatcher(&fakeStore{}, &fakeLLM{response: "not json"})

	project, err := m.GetOrGenerateProject(context.Background(), "grassland birds", "", false)
	require.NoError(t, err)
	require.NotNil(t, project)
	assert.Equal(t, models.ProjectTypeGenerated, project.ProjectType)
}

func TestGetOrGenerateForceSkipsSearch(t *testing.T) {
	store := &fakeStore{results: []interfaces.SearchResult{{
		Content:  "Would match.",
		Score:    0.95,
		Metadata: map[string]interface{}{"project_name": "Existing"},
	}}}
	llm := &fakeLLM{response: `{"project_name": "Forced Fresh"}`}
	m := newTestMatcher(store, llm)

	project, err := m.GetOrGenerateProject(context.Background(), "x", "", true)
	require.NoError(t, err)
	assert.Equal(t, "Forced Fresh", project.Name)
}

func TestAddProject(t *testing.T) {
	store := &fakeStore{}
	m := newTestMatcher(store, &fakeLLM{})

	err := m.AddProject(context.Background(), &models.ProjectMatch{
		Name:        "New Project",
		Description: "Desc",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.added)

	err = m.AddProject(context.Background(), &models.ProjectMatch{})
	assert.Error(t, err)
}
