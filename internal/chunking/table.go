package chunking

import (
	"fmt"
	"hash/fnv"

	"github.com/darukaa-earth/daruka-rag/internal/models"
	"github.com/darukaa-earth/daruka-rag/internal/services/tables"
)

// TableChunker turns extracted tables into chunks. Small tables become one
// chunk each; tables over the size threshold degrade to the extractor's
// row partitioning, one chunk per part.
type TableChunker struct {
	extractor    *tables.Extractor
	maxTableSize int
}

// NewTableChunker creates a table chunker with the given serialized-size
// threshold in characters.
func NewTableChunker(extractor *tables.Extractor, maxTableSize int) *TableChunker {
	if maxTableSize <= 0 {
		maxTableSize = 5000
	}
	return &TableChunker{
		extractor:    extractor,
		maxTableSize: maxTableSize,
	}
}

// Chunk converts one table into chunks. Chunk content is the description
// followed by a blank line and the markdown, so embeddings key on the
// natural-language summary first.
func (c *TableChunker) Chunk(table models.ExtractedTable, source string, extra map[string]interface{}) []models.Chunk {
	baseID := fmt.Sprintf("%s_table_%d", source, tableHash(table.Markdown))
	parts := c.extractor.SplitLarge(table, c.maxTableSize)

	chunks := make([]models.Chunk, 0, len(parts))
	for i, part := range parts {
		chunkID := baseID
		if len(parts) > 1 {
			chunkID = fmt.Sprintf("%s_part%d", baseID, i+1)
		}

		metadata := map[string]interface{}{
			"source":     source,
			"chunk_type": string(models.ChunkStrategyTable),
			"rows":       part.Rows,
			"columns":    part.Columns,
		}
		if part.Title != "" {
			metadata["title"] = part.Title
		}
		for k, v := range part.Metadata {
			metadata[k] = v
		}
		for k, v := range extra {
			metadata[k] = v
		}

		chunks = append(chunks, models.Chunk{
			Content:  part.Description + "\n\n" + part.Markdown,
			ChunkID:  chunkID,
			Index:    i,
			Strategy: models.ChunkStrategyTable,
			Metadata: metadata,
		})
	}
	return chunks
}

// ChunkRows builds a table from raw rows and chunks it.
func (c *TableChunker) ChunkRows(rows [][]string, headers []string, title, source string, extra map[string]interface{}) []models.Chunk {
	if len(rows) == 0 && len(headers) == 0 {
		return nil
	}
	return c.Chunk(c.extractor.ToTable(rows, headers, title), source, extra)
}

// tableHash derives a short stable ID suffix from the table content.
func tableHash(markdown string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(markdown))
	return h.Sum32() % 10000
}
