package models

// ExtractedTable is the canonical markdown + description representation of a
// table pulled out of a document or built from raw rows.
//
// Invariants: Rows equals the number of data rows in Markdown, Columns equals
// the header cell count.
type ExtractedTable struct {
	Markdown    string                 `json:"markdown"`
	Description string                 `json:"description"`
	Title       string                 `json:"title,omitempty"`
	Rows        int                    `json:"rows"`
	Columns     int                    `json:"columns"`
	Context     string                 `json:"context,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
