package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// Capabilities is the static capability description embedded in project
// generation prompts.
const Capabilities = `
Daruka.Earth Core Capabilities:
1. AI-Powered Biodiversity Monitoring - Species identification using bioacoustics and computer vision
2. Multimodal Data Integration - Satellite, drone, IoT sensors, and field data fusion
3. Real-Time MRV (Monitoring, Reporting, Verification) - Digital MRV for carbon and biodiversity credits
4. Community-Driven Data Collection - Mobile tools for local communities as data stewards
5. Carbon Credit Generation - Measurable carbon sequestration tracking
6. Biodiversity Credit Assessment - Ecosystem health and species abundance metrics
7. Climate Risk Modeling - Predictive analytics using ML and climate data

Technology Stack:
- Bioacoustic AI models (custom trained for regional species)
- Satellite imagery analysis (land cover, vegetation indices)
- IoT sensor networks (AudioMoth recorders, environmental sensors)
- Cloud analytics platform for real-time processing

Proven Track Record:
- India's first biodiversity credit project in Sundarbans
- 300+ local data stewards empowered
- 1000+ hours of bioacoustic data processed
- Partnerships with Cornell Lab of Ornithology, IISER Tirupati
`

const generationSystemPrompt = "You are a conservation project designer. Output only valid JSON."

// Matcher finds existing conservation projects in the dedicated projects
// collection or synthesizes hypothetical ones via the language model.
type Matcher struct {
	store  interfaces.VectorStore
	llm    interfaces.LLMService
	config *common.RetrievalConfig
	logger arbor.ILogger
}

// NewMatcher creates a project matcher.
func NewMatcher(store interfaces.VectorStore, llm interfaces.LLMService, config *common.RetrievalConfig, logger arbor.ILogger) *Matcher {
	return &Matcher{
		store:  store,
		llm:    llm,
		config: config,
		logger: logger,
	}
}

// generatedProject mirrors the JSON shape requested from the model.
type generatedProject struct {
	ProjectName      string   `json:"project_name"`
	FocusAreas       []string `json:"focus_areas"`
	TargetSpecies    []string `json:"target_species"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	Methodology      string   `json:"methodology"`
	ExpectedOutcomes []string `json:"expected_outcomes"`
}

// FindMatchingProject searches the projects collection and returns the best
// match, or nil when the top score falls below the configured threshold.
func (m *Matcher) FindMatchingProject(ctx context.Context, focus, requirements string, topK int) (*models.ProjectMatch, error) {
	if topK <= 0 {
		topK = 3
	}

	searchQuery := fmt.Sprintf("%s. %s", focus, requirements)
	results, err := m.store.Search(ctx, searchQuery, []string{m.config.ProjectsCollection}, topK, nil)
	if err != nil {
		return nil, fmt.Errorf("project search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	best := results[0]
	if best.Score < m.config.MatchThreshold {
		m.logger.Debug().
			Float64("score", best.Score).
			Float64("threshold", m.config.MatchThreshold).
			Msg("Best project match below threshold")
		return nil, nil
	}

	metadata := best.Metadata
	return &models.ProjectMatch{
		Name:             metadataStringOr(metadata, "project_name", "Unnamed Project"),
		ProjectType:      models.ProjectTypeExisting,
		FocusAreas:       parseList(metadata["focus_areas"]),
		TargetSpecies:    parseList(metadata["target_species"]),
		Location:         metadataStringOr(metadata, "location", "India"),
		Description:      best.Content,
		Methodology:      metadataStringOr(metadata, "methodology", ""),
		ExpectedOutcomes: parseList(metadata["expected_outcomes"]),
		RelevanceScore:   best.Score,
		SourceChunkID:    best.ChunkID,
	}, nil
}

// GenerateHypotheticalProject synthesizes a project via the language model.
// Malformed model output falls back to a deterministic project built from
// the inputs alone; this method never fails on parse errors.
func (m *Matcher) GenerateHypotheticalProject(ctx context.Context, focus, requirements, grantContext string) *models.ProjectMatch {
	prompt := fmt.Sprintf(`You are helping Daruka.Earth create a project proposal for a conservation grant.

GRANT FOCUS: %s

GRANT REQUIREMENTS:
%s

ADDITIONAL CONTEXT:
%s

DARUKA.EARTH CAPABILITIES:
%s

Generate a realistic, achievable project proposal that:
1. Directly addresses the grant's focus area
2. Uses Daruka's actual technology capabilities (bioacoustics, satellite, AI, community involvement)
3. Has measurable outcomes
4. Is achievable within 1-2 years
5. Includes locations relevant to the grant (if in India, suggest specific regions)

Output as JSON (no markdown, just pure JSON):
{
    "project_name": "Creative but professional project name",
    "focus_areas": ["area1", "area2"],
    "target_species": ["species1", "species2"],
    "location": "Specific location in India or region",
    "description": "2-3 sentence project description",
    "methodology": "Brief methodology using Daruka's capabilities",
    "expected_outcomes": ["outcome1", "outcome2", "outcome3"]
}`, focus, requirements, grantContext, Capabilities)

	response, err := m.llm.Generate(ctx, generationSystemPrompt, prompt)
	if err != nil {
		m.logger.Warn().Err(err).Msg("Project generation call failed, using fallback project")
		return m.fallbackProject(focus)
	}

	var generated generatedProject
	if err := json.Unmarshal([]byte(stripCodeFences(response)), &generated); err != nil {
		m.logger.Warn().
			Err(err).
			Int("response_length", len(response)).
			Msg("Project generation returned malformed JSON, using fallback project")
		return m.fallbackProject(focus)
	}

	name := generated.ProjectName
	if name == "" {
		name = "Generated Conservation Project"
	}
	location := generated.Location
	if location == "" {
		location = "India"
	}

	return &models.ProjectMatch{
		Name:             name,
		ProjectType:      models.ProjectTypeGenerated,
		FocusAreas:       generated.FocusAreas,
		TargetSpecies:    generated.TargetSpecies,
		Location:         location,
		Description:      generated.Description,
		Methodology:      generated.Methodology,
		ExpectedOutcomes: generated.ExpectedOutcomes,
		// Generated specifically for this grant
		RelevanceScore: 1.0,
	}
}

// GetOrGenerateProject tries the search first unless forced, then falls back
// to generation. Always returns a project.
func (m *Matcher) GetOrGenerateProject(ctx context.Context, focus, requirements string, forceGenerate bool) (*models.ProjectMatch, error) {
	if !forceGenerate {
		existing, err := m.FindMatchingProject(ctx, focus, requirements, 3)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			m.logger.Info().
				Str("project", existing.Name).
				Float64("score", existing.RelevanceScore).
				Msg("Found matching project")
			return existing, nil
		}
	}

	m.logger.Info().Str("focus", focus).Msg("Generating hypothetical project")
	return m.GenerateHypotheticalProject(ctx, focus, requirements, ""), nil
}

// AddProject persists a project into the projects collection so later
// queries can match it. Used by the admin surface.
func (m *Matcher) AddProject(ctx context.Context, project *models.ProjectMatch) error {
	if project.Name == "" {
		return fmt.Errorf("project name is required")
	}

	metadata := map[string]interface{}{
		"project_name":      project.Name,
		"focus_areas":       strings.Join(project.FocusAreas, ", "),
		"target_species":    strings.Join(project.TargetSpecies, ", "),
		"location":          project.Location,
		"methodology":       project.Methodology,
		"expected_outcomes": strings.Join(project.ExpectedOutcomes, ", "),
	}

	id := "project_" + strings.ReplaceAll(strings.ToLower(project.Name), " ", "_")
	_, err := m.store.Add(ctx, m.config.ProjectsCollection,
		[]string{project.Description}, []map[string]interface{}{metadata}, []string{id})
	if err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}

	m.logger.Info().Str("project", project.Name).Msg("Added project to collection")
	return nil
}

// fallbackProject is the deterministic project returned when generation
// output cannot be parsed.
func (m *Matcher) fallbackProject(focus string) *models.ProjectMatch {
	return &models.ProjectMatch{
		Name:          fmt.Sprintf("Daruka Conservation Initiative - %s", focus),
		ProjectType:   models.ProjectTypeGenerated,
		FocusAreas:    []string{focus},
		TargetSpecies: []string{},
		Location:      "India",
		Description:   fmt.Sprintf("AI-powered conservation project focusing on %s using Daruka.Earth's dMRV platform.", focus),
		Methodology:   "Bioacoustic monitoring, satellite imagery analysis, and community-driven data collection.",
		ExpectedOutcomes: []string{
			"Species population baseline",
			"Ecosystem health metrics",
			"Community engagement",
		},
		RelevanceScore: 0.8,
	}
}

// stripCodeFences removes optional markdown code fence wrapping (with or
// without a language tag) from a model response.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	parts := strings.Split(content, "```")
	if len(parts) < 2 {
		return content
	}
	content = parts[1]
	content = strings.TrimPrefix(content, "json")
	return strings.TrimSpace(content)
}

// parseList splits a comma-separated metadata value, trimming items and
// dropping empties.
func parseList(value interface{}) []string {
	if value == nil {
		return []string{}
	}

	raw := fmt.Sprintf("%v", value)
	if raw == "" {
		return []string{}
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	if items == nil {
		return []string{}
	}
	return items
}

func metadataStringOr(metadata map[string]interface{}, key, fallback string) string {
	if value, ok := metadata[key]; ok && value != nil {
		if s := fmt.Sprintf("%v", value); s != "" {
			return s
		}
	}
	return fallback
}
