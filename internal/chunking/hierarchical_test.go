package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchicalParentChildLinks(t *testing.T) {
	c := NewHierarchicalChunker(1024, 100, 256, 50)

	text := strings.Repeat("Ranger patrols cover the core zone every morning. ", 120)
	children, parents := c.Chunk(text, "patrol", nil)

	require.NotEmpty(t, parents)
	require.NotEmpty(t, children)

	childCount := 0
	for _, parent := range parents {
		require.NotEmpty(t, parent.ChildIDs)
		assert.Equal(t, len(parent.ChildIDs), parent.Metadata["child_count"])
		childCount += len(parent.ChildIDs)
	}
	assert.Equal(t, len(children), childCount)

	for _, child := range children {
		parent := ParentForChild(parents, child.ChunkID)
		require.NotNil(t, parent, "child %s has no parent", child.ChunkID)
		assert.Equal(t, parent.ChunkID, child.ParentID)
		assert.Equal(t, parent.ChunkID, child.Metadata["parent_id"])
	}
}

func TestFormatWithParent(t *testing.T) {
	c := NewHierarchicalChunker(512, 50, 128, 20)

	text := strings.Repeat("Camera traps were serviced along the river line. ", 40)
	children, parents := c.Chunk(text, "maint", nil)
	require.NotEmpty(t, children)

	formatted := FormatWithParent(children[0], parents)
	assert.Contains(t, formatted, "[Parent Context]")
	assert.Contains(t, formatted, "[Specific Section]")
	assert.Contains(t, formatted, children[0].Content)
}

func TestFormatWithParentUnknownChild(t *testing.T) {
	orphan := newTestRouter().semantic.Chunk("standalone text", "solo", nil)[0]
	assert.Equal(t, orphan.Content, FormatWithParent(orphan, nil))
}
