package chunking

import (
	"fmt"

	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// SemanticChunker produces fixed-size overlapping chunks that respect
// paragraph and sentence boundaries where possible. It is the default
// strategy for prose of moderate length.
type SemanticChunker struct {
	splitter *Splitter
}

// NewSemanticChunker creates a semantic chunker with the given chunk size
// and overlap in characters.
func NewSemanticChunker(chunkSize, overlap int) *SemanticChunker {
	return &SemanticChunker{
		splitter: NewSplitter(chunkSize, overlap),
	}
}

// Chunk splits content into semantic chunks. Each chunk carries the source
// name, its index, the batch total and its character count in metadata, plus
// any caller-supplied metadata. Empty or whitespace-only content yields an
// empty slice.
func (c *SemanticChunker) Chunk(content, source string, extra map[string]interface{}) []models.Chunk {
	pieces := c.splitter.Split(content)
	if len(pieces) == 0 {
		return nil
	}

	chunks := make([]models.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		metadata := map[string]interface{}{
			"source":       source,
			"chunk_index":  i,
			"total_chunks": len(pieces),
			"chunk_type":   string(models.ChunkStrategySemantic),
			"char_count":   len(piece),
		}
		for k, v := range extra {
			metadata[k] = v
		}
		chunks = append(chunks, models.Chunk{
			Content:  piece,
			ChunkID:  fmt.Sprintf("%s_chunk_%d", source, i),
			Index:    i,
			Strategy: models.ChunkStrategySemantic,
			Metadata: metadata,
		})
	}
	return chunks
}

// Page is one page of a paginated document, numbered from 1.
type Page struct {
	Number int
	Text   string
}

// ChunkPages chunks each page independently so no chunk straddles a page
// boundary, then re-indexes the chunks globally. Every chunk records both the
// page it came from and its global index, and total_chunks reflects the
// whole document rather than a single page.
func (c *SemanticChunker) ChunkPages(pages []Page, source string, extra map[string]interface{}) []models.Chunk {
	var chunks []models.Chunk
	global := 0

	for _, page := range pages {
		pageSource := fmt.Sprintf("%s_page_%d", source, page.Number)
		for _, chunk := range c.Chunk(page.Text, pageSource, extra) {
			chunk.ChunkID = fmt.Sprintf("%s_chunk_%d", source, global)
			chunk.Index = global
			chunk.Metadata["source"] = source
			chunk.Metadata["page"] = page.Number
			chunk.Metadata["global_index"] = global
			chunk.Metadata["chunk_index"] = global
			chunks = append(chunks, chunk)
			global++
		}
	}

	// Stamp the document-wide total once all pages are chunked.
	for i := range chunks {
		chunks[i].Metadata["total_chunks"] = len(chunks)
	}
	return chunks
}
