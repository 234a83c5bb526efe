package chunking

import (
	"fmt"

	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// HierarchicalChunker splits long documents into large parent windows and
// small child windows. Children are what gets indexed for retrieval; parents
// provide surrounding context for display.
type HierarchicalChunker struct {
	parentSplitter *Splitter
	childSplitter  *Splitter
}

// NewHierarchicalChunker creates a hierarchical chunker with independent
// parent and child window configurations.
func NewHierarchicalChunker(parentSize, parentOverlap, childSize, childOverlap int) *HierarchicalChunker {
	return &HierarchicalChunker{
		parentSplitter: NewSplitter(parentSize, parentOverlap),
		childSplitter:  NewSplitter(childSize, childOverlap),
	}
}

// Chunk splits content into parents and their children. Every child carries
// its parent's ID and every parent lists its children's IDs in order.
func (c *HierarchicalChunker) Chunk(content, source string, extra map[string]interface{}) (children, parents []models.Chunk) {
	parentPieces := c.parentSplitter.Split(content)

	for p, parentPiece := range parentPieces {
		parentID := fmt.Sprintf("%s_parent_%d", source, p)
		childPieces := c.childSplitter.Split(parentPiece)

		childIDs := make([]string, 0, len(childPieces))
		for ci, childPiece := range childPieces {
			childID := fmt.Sprintf("%s_child_%d_%d", source, p, ci)
			childIDs = append(childIDs, childID)

			metadata := map[string]interface{}{
				"source":      source,
				"chunk_type":  string(models.ChunkStrategyHierarchicalChild),
				"parent_id":   parentID,
				"chunk_index": ci,
				"char_count":  len(childPiece),
			}
			for k, v := range extra {
				metadata[k] = v
			}
			children = append(children, models.Chunk{
				Content:  childPiece,
				ChunkID:  childID,
				Index:    len(children),
				Strategy: models.ChunkStrategyHierarchicalChild,
				Metadata: metadata,
				ParentID: parentID,
			})
		}

		metadata := map[string]interface{}{
			"source":      source,
			"chunk_type":  string(models.ChunkStrategyHierarchicalParent),
			"chunk_index": p,
			"child_count": len(childIDs),
			"char_count":  len(parentPiece),
		}
		for k, v := range extra {
			metadata[k] = v
		}
		parents = append(parents, models.Chunk{
			Content:  parentPiece,
			ChunkID:  parentID,
			Index:    p,
			Strategy: models.ChunkStrategyHierarchicalParent,
			Metadata: metadata,
			ChildIDs: childIDs,
		})
	}
	return children, parents
}

// ParentForChild finds the parent chunk owning the given child ID. A linear
// scan is fine here: documents have bounded chunk counts and this runs at
// ingestion or display time, not on the query path.
func ParentForChild(parents []models.Chunk, childID string) *models.Chunk {
	for i := range parents {
		for _, id := range parents[i].ChildIDs {
			if id == childID {
				return &parents[i]
			}
		}
	}
	return nil
}

// FormatWithParent renders a child chunk together with its parent context
// for display.
func FormatWithParent(child models.Chunk, parents []models.Chunk) string {
	parent := ParentForChild(parents, child.ChunkID)
	if parent == nil {
		return child.Content
	}
	return fmt.Sprintf("[Parent Context]\n%s\n\n[Specific Section]\n%s", parent.Content, child.Content)
}
