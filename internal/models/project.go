package models

// ProjectType distinguishes projects read from the vector store from projects
// synthesized by the language model.
type ProjectType string

const (
	// ProjectTypeExisting is a project read from the projects collection
	ProjectTypeExisting ProjectType = "existing"
	// ProjectTypeGenerated is a project synthesized for the current response
	ProjectTypeGenerated ProjectType = "generated"
)

// ProjectMatch is a matched or generated conservation project. Generated
// matches exist only for the current response unless explicitly added via the
// admin surface.
type ProjectMatch struct {
	Name             string      `json:"name"`
	ProjectType      ProjectType `json:"type"`
	FocusAreas       []string    `json:"focus_areas"`
	TargetSpecies    []string    `json:"target_species"`
	Location         string      `json:"location"`
	Description      string      `json:"description"`
	Methodology      string      `json:"methodology"`
	ExpectedOutcomes []string    `json:"expected_outcomes"`
	RelevanceScore   float64     `json:"relevance_score"`
	SourceChunkID    string      `json:"source_chunk_id,omitempty"`
}
