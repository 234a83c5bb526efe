package tables

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// markdownTablePattern matches a pipe table: header row, separator row, one
// or more data rows.
var markdownTablePattern = regexp.MustCompile(`\|[^\n]+\|\n\|[-:|\s]+\|\n(?:\|[^\n]+\|\n?)+`)

// Extractor detects tabular regions in text and converts raw rows into the
// canonical markdown + description representation used for embedding.
type Extractor struct{}

// NewExtractor creates a table extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// DetectTables scans text for markdown pipe tables and tab-separated blocks.
// The two detectors run independently over the whole text and their results
// are concatenated, markdown tables first.
func (e *Extractor) DetectTables(text string) []models.ExtractedTable {
	var tables []models.ExtractedTable

	for _, match := range markdownTablePattern.FindAllString(text, -1) {
		headers, rows := parseMarkdownTable(match)
		if len(headers) == 0 {
			continue
		}
		table := e.ToTable(rows, headers, "")
		tables = append(tables, table)
	}

	tables = append(tables, e.detectTSVBlocks(text)...)
	return tables
}

// detectTSVBlocks finds runs of consecutive tab-separated lines. A block
// qualifies when it spans at least two lines and every line has at least two
// cells.
func (e *Extractor) detectTSVBlocks(text string) []models.ExtractedTable {
	var tables []models.ExtractedTable
	var block [][]string

	flush := func() {
		if len(block) >= 2 {
			tables = append(tables, e.ToTable(block, nil, ""))
		}
		block = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "\t") {
			cells := strings.Split(line, "\t")
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			if len(cells) >= 2 {
				block = append(block, cells)
				continue
			}
		}
		flush()
	}
	flush()
	return tables
}

// ToTable builds an ExtractedTable from raw rows. When headers is nil the
// first row is consumed as the header row, which reduces the data row count
// by one.
func (e *Extractor) ToTable(rows [][]string, headers []string, title string) models.ExtractedTable {
	if headers == nil && len(rows) > 0 {
		headers = rows[0]
		rows = rows[1:]
	}

	markdown := renderMarkdown(headers, rows)
	table := models.ExtractedTable{
		Markdown: markdown,
		Title:    title,
		Rows:     len(rows),
		Columns:  len(headers),
	}
	table.Description = e.Describe(table, headers, rows)
	return table
}

// Describe synthesizes a deterministic natural-language summary of the
// table. The summary, not the markdown, is what search embeddings key on.
func (e *Extractor) Describe(table models.ExtractedTable, headers []string, rows [][]string) string {
	var parts []string

	if table.Title != "" {
		parts = append(parts, fmt.Sprintf("Table: %s.", table.Title))
	}
	parts = append(parts, fmt.Sprintf("This table has %d rows and %d columns.", len(rows), len(headers)))
	if len(headers) > 0 {
		parts = append(parts, fmt.Sprintf("Columns: %s.", strings.Join(headers, ", ")))
	}

	var samples []string
	for _, row := range rows {
		if len(samples) == 3 {
			break
		}
		if len(row) > 0 && strings.TrimSpace(row[0]) != "" {
			samples = append(samples, strings.TrimSpace(row[0]))
		}
	}
	if len(samples) > 0 {
		parts = append(parts, fmt.Sprintf("First column values include: %s.", strings.Join(samples, ", ")))
	}

	return strings.Join(parts, " ")
}

// FormatAsContext renders the table for inclusion in a retrieval context
// block: optional title heading, description, markdown, optional
// surrounding context.
func (e *Extractor) FormatAsContext(table models.ExtractedTable) string {
	var b strings.Builder
	if table.Title != "" {
		fmt.Fprintf(&b, "## %s\n", table.Title)
	}
	b.WriteString(table.Description)
	b.WriteString("\n\n")
	b.WriteString(table.Markdown)
	if table.Context != "" {
		fmt.Fprintf(&b, "\nContext: %s", table.Context)
	}
	return b.String()
}

// SplitLarge partitions a table whose serialized markdown exceeds maxSize
// into parts of max(10, rows/3) rows each. Every part is re-serialized with
// the original header and separator row and tagged with its part number.
// Tables at or under the limit come back as a single unsplit part.
func (e *Extractor) SplitLarge(table models.ExtractedTable, maxSize int) []models.ExtractedTable {
	if len(table.Markdown) <= maxSize {
		return []models.ExtractedTable{table}
	}

	headers, rows := parseMarkdownTable(table.Markdown)
	if len(rows) == 0 {
		return []models.ExtractedTable{table}
	}

	rowsPerPart := len(rows) / 3
	if rowsPerPart < 10 {
		rowsPerPart = 10
	}

	totalParts := (len(rows) + rowsPerPart - 1) / rowsPerPart
	parts := make([]models.ExtractedTable, 0, totalParts)
	for p := 0; p < totalParts; p++ {
		start := p * rowsPerPart
		end := start + rowsPerPart
		if end > len(rows) {
			end = len(rows)
		}
		partRows := rows[start:end]

		part := models.ExtractedTable{
			Markdown: renderMarkdown(headers, partRows),
			Title:    table.Title,
			Rows:     len(partRows),
			Columns:  len(headers),
			Context:  table.Context,
			Metadata: map[string]interface{}{
				"part":        p + 1,
				"total_parts": totalParts,
			},
		}
		part.Description = fmt.Sprintf("%s (Part %d/%d)",
			e.Describe(part, headers, partRows), p+1, totalParts)
		parts = append(parts, part)
	}
	return parts
}

// renderMarkdown serializes headers and rows as a markdown pipe table.
// Cells are escaped so embedded pipes and newlines cannot break the grid.
func renderMarkdown(headers []string, rows [][]string) string {
	var b strings.Builder

	writeRow := func(cells []string, width int) {
		b.WriteString("|")
		for i := 0; i < width; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(" " + escapeCell(cell) + " |")
		}
		b.WriteString("\n")
	}

	width := len(headers)
	writeRow(headers, width)
	b.WriteString("|")
	for i := 0; i < width; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, width)
	}
	return strings.TrimRight(b.String(), "\n")
}

func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "\n", " ")
	cell = strings.ReplaceAll(cell, `\`, `\\`)
	cell = strings.ReplaceAll(cell, "|", `\|`)
	return strings.TrimSpace(cell)
}

// parseMarkdownTable splits a pipe table back into headers and data rows.
// The separator row is discarded.
func parseMarkdownTable(markdown string) (headers []string, rows [][]string) {
	lines := strings.Split(strings.TrimSpace(markdown), "\n")
	dataStart := false
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		cells := splitRow(line)
		if i == 0 {
			headers = cells
			continue
		}
		if !dataStart && isSeparatorRow(cells) {
			dataStart = true
			continue
		}
		rows = append(rows, cells)
	}
	return headers, rows
}

// splitRow splits a pipe-table row into cells. Backslash-escaped pipes and
// backslashes are cell content, not delimiters, and come back unescaped so
// parse inverts renderMarkdown exactly.
func splitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")

	var cells []string
	var cell strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			if r != '|' && r != '\\' {
				cell.WriteRune('\\')
			}
			cell.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteRune(r)
		}
	}
	if escaped {
		cell.WriteRune('\\')
	}
	// A well-formed row ends with a closing pipe, leaving a final empty
	// fragment to discard. Keep the fragment when it has content so rows
	// missing the closing pipe still parse.
	if last := strings.TrimSpace(cell.String()); last != "" {
		cells = append(cells, last)
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		if strings.Trim(cell, "-:") != "" {
			return false
		}
	}
	return true
}
