package chunking

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// ContentType selects a chunking strategy explicitly, or "auto" to let the
// router detect one from the content's structure.
type ContentType string

const (
	ContentTypeAuto         ContentType = "auto"
	ContentTypeSemantic     ContentType = "semantic"
	ContentTypeTable        ContentType = "table"
	ContentTypeQA           ContentType = "qa"
	ContentTypeHierarchical ContentType = "hierarchical"
)

// StrategyTableDetected is reported when auto-detection finds a table inside
// raw text. Text-embedded tables are expected to be pre-extracted upstream,
// so the router signals the finding instead of chunking the region twice.
const StrategyTableDetected = "table_detected"

// Content is the router's input. Exactly one concrete variant is passed per
// call; the router dispatches on the variant rather than inspecting runtime
// types.
type Content interface {
	isContent()
}

// RawText is unstructured text, subject to auto-detection.
type RawText struct {
	Text string
}

// PreExtractedTable is a table already pulled out of its source document.
type PreExtractedTable struct {
	Table models.ExtractedTable
}

// RowRecords is row-structured data, one map per row.
type RowRecords struct {
	Rows []map[string]interface{}
}

// SingleRecord is one mapping of scalar fields.
type SingleRecord struct {
	Record map[string]interface{}
}

// QAPairs is explicit question/answer material.
type QAPairs struct {
	Pairs []QAPair
}

func (RawText) isContent()           {}
func (PreExtractedTable) isContent() {}
func (RowRecords) isContent()        {}
func (SingleRecord) isContent()      {}
func (QAPairs) isContent()           {}

// Structural detection for raw text. A table region is either pipe-delimited
// or has runs of tab-separated cells.
var (
	pipeTablePattern = regexp.MustCompile(`\|.*\|.*\|`)
	tsvPattern       = regexp.MustCompile(`(?:\S+[ ]*\t){2,}\S+`)
)

// Router inspects content and dispatches it to the right chunking strategy.
type Router struct {
	semantic              *SemanticChunker
	table                 *TableChunker
	qa                    *QAChunker
	hierarchical          *HierarchicalChunker
	hierarchicalThreshold int
}

// NewRouter wires the four strategies behind one routing entry point.
func NewRouter(semantic *SemanticChunker, table *TableChunker, qa *QAChunker, hierarchical *HierarchicalChunker, hierarchicalThreshold int) *Router {
	if hierarchicalThreshold <= 0 {
		hierarchicalThreshold = 5000
	}
	return &Router{
		semantic:              semantic,
		table:                 table,
		qa:                    qa,
		hierarchical:          hierarchical,
		hierarchicalThreshold: hierarchicalThreshold,
	}
}

// RouteAndChunk chunks content with the strategy selected by contentType, or
// by structural detection when contentType is "auto". Routing never fails on
// malformed content; the worst case is an empty chunk list.
func (r *Router) RouteAndChunk(content Content, contentType ContentType, source string, metadata map[string]interface{}) models.ChunkResult {
	switch v := content.(type) {
	case RawText:
		return r.routeText(v.Text, contentType, source, metadata)
	case PreExtractedTable:
		return models.ChunkResult{
			Chunks:       r.table.Chunk(v.Table, source, metadata),
			StrategyUsed: string(models.ChunkStrategyTable),
		}
	case QAPairs:
		return models.ChunkResult{
			Chunks:       r.qa.ChunkPairs(v.Pairs, source, metadata),
			StrategyUsed: string(models.ChunkStrategyQA),
		}
	case RowRecords:
		return r.routeRows(v.Rows, source, metadata)
	case SingleRecord:
		return r.routeRecord(v.Record, source, metadata)
	default:
		return models.ChunkResult{StrategyUsed: "unknown"}
	}
}

func (r *Router) routeText(text string, contentType ContentType, source string, metadata map[string]interface{}) models.ChunkResult {
	switch contentType {
	case ContentTypeSemantic:
		return models.ChunkResult{
			Chunks:       r.semantic.Chunk(text, source, metadata),
			StrategyUsed: string(models.ChunkStrategySemantic),
		}
	case ContentTypeQA:
		return models.ChunkResult{
			Chunks:       r.qa.ChunkText(text, source, metadata),
			StrategyUsed: string(models.ChunkStrategyQA),
		}
	case ContentTypeHierarchical:
		return r.chunkHierarchical(text, source, metadata)
	case ContentTypeTable:
		return r.chunkEmbeddedTables(text, source, metadata)
	}

	// Auto-detection, strongest structural signal first.
	if hasTablePattern(text) {
		return models.ChunkResult{StrategyUsed: StrategyTableDetected}
	}
	if pairs := r.qa.ExtractPairs(text); len(pairs) > 0 {
		return models.ChunkResult{
			Chunks:       r.qa.ChunkPairs(pairs, source, metadata),
			StrategyUsed: string(models.ChunkStrategyQA),
		}
	}
	if len(text) > r.hierarchicalThreshold {
		return r.chunkHierarchical(text, source, metadata)
	}
	return models.ChunkResult{
		Chunks:       r.semantic.Chunk(text, source, metadata),
		StrategyUsed: string(models.ChunkStrategySemantic),
	}
}

func (r *Router) chunkHierarchical(text, source string, metadata map[string]interface{}) models.ChunkResult {
	children, parents := r.hierarchical.Chunk(text, source, metadata)
	return models.ChunkResult{
		Chunks:       children,
		StrategyUsed: string(models.ChunkStrategyHierarchical),
		ParentChunks: parents,
	}
}

// chunkEmbeddedTables handles an explicit table content type on raw text by
// extracting each table region and chunking it.
func (r *Router) chunkEmbeddedTables(text, source string, metadata map[string]interface{}) models.ChunkResult {
	extractor := r.table.extractor
	var chunks []models.Chunk
	for i, table := range extractor.DetectTables(text) {
		tableSource := source
		if i > 0 {
			tableSource = fmt.Sprintf("%s_%d", source, i)
		}
		chunks = append(chunks, r.table.Chunk(table, tableSource, metadata)...)
	}
	return models.ChunkResult{
		Chunks:       chunks,
		StrategyUsed: string(models.ChunkStrategyTable),
	}
}

// routeRows picks the Q&A strategy when the row keys identify question and
// answer columns; otherwise every row is flattened and semantically chunked
// on its own, with all rows' chunks accumulated into one result.
func (r *Router) routeRows(rows []map[string]interface{}, source string, metadata map[string]interface{}) models.ChunkResult {
	if len(rows) == 0 {
		return models.ChunkResult{StrategyUsed: string(models.ChunkStrategySemantic)}
	}
	if RowsHaveQAColumns(rows) {
		return models.ChunkResult{
			Chunks:       r.qa.ChunkFromRows(rows, source, metadata),
			StrategyUsed: string(models.ChunkStrategyQA),
		}
	}

	var chunks []models.Chunk
	for i, row := range rows {
		rowSource := fmt.Sprintf("%s_row_%d", source, i)
		rowChunks := r.semantic.Chunk(flattenRecord(row), rowSource, metadata)
		for j := range rowChunks {
			rowChunks[j].Index = len(chunks) + j
		}
		chunks = append(chunks, rowChunks...)
	}
	return models.ChunkResult{
		Chunks:       chunks,
		StrategyUsed: string(models.ChunkStrategySemantic),
	}
}

func (r *Router) routeRecord(record map[string]interface{}, source string, metadata map[string]interface{}) models.ChunkResult {
	if len(record) == 0 {
		return models.ChunkResult{StrategyUsed: string(models.ChunkStrategySemantic)}
	}
	return models.ChunkResult{
		Chunks:       r.semantic.Chunk(flattenRecord(record), source, metadata),
		StrategyUsed: string(models.ChunkStrategySemantic),
	}
}

// flattenRecord renders a mapping as "key: value" lines. Keys are sorted so
// identical records always flatten to identical text.
func flattenRecord(record map[string]interface{}) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, record[k]))
	}
	return strings.Join(lines, "\n")
}

func hasTablePattern(text string) bool {
	return pipeTablePattern.MatchString(text) || tsvPattern.MatchString(text)
}
