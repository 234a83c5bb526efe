package tables

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTableHeadersFromFirstRow(t *testing.T) {
	e := NewExtractor()

	table := e.ToTable([][]string{
		{"species", "count"},
		{"tiger", "4"},
		{"leopard", "7"},
	}, nil, "")

	assert.Equal(t, 2, table.Rows)
	assert.Equal(t, 2, table.Columns)
	assert.Contains(t, table.Markdown, "| species | count |")
	assert.Contains(t, table.Markdown, "| tiger | 4 |")
}

func TestToTableExplicitHeaders(t *testing.T) {
	e := NewExtractor()

	table := e.ToTable([][]string{
		{"tiger", "4"},
	}, []string{"species", "count"}, "Census")

	assert.Equal(t, 1, table.Rows)
	assert.Contains(t, table.Description, "Table: Census.")
	assert.Contains(t, table.Description, "This table has 1 rows and 2 columns.")
	assert.Contains(t, table.Description, "Columns: species, count.")
	assert.Contains(t, table.Description, "First column values include: tiger.")
}

func TestCellEscaping(t *testing.T) {
	e := NewExtractor()

	table := e.ToTable([][]string{
		{"name", "note"},
		{"a|b", "line one\nline two"},
	}, nil, "")

	assert.Contains(t, table.Markdown, `a\|b`)
	assert.Contains(t, table.Markdown, "line one line two")
	assert.NotContains(t, table.Markdown, "a|b |")
}

func TestDetectMarkdownTable(t *testing.T) {
	e := NewExtractor()

	text := "Intro text.\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n| 3 | 4 |\n\nTrailing text."
	tables := e.DetectTables(text)
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Rows)
	assert.Equal(t, 2, tables[0].Columns)
}

func TestDetectTSVBlock(t *testing.T) {
	e := NewExtractor()

	text := "notes above\nspecies\tcount\ntiger\t4\nleopard\t7\nnotes below"
	tables := e.DetectTables(text)
	require.Len(t, tables, 1)
	assert.Equal(t, 2, tables[0].Rows)
	assert.Contains(t, tables[0].Markdown, "| species | count |")
}

func TestDetectTablesConcatenatesBothKinds(t *testing.T) {
	e := NewExtractor()

	text := "| a | b |\n| --- | --- |\n| 1 | 2 |\n\nx\ty\n1\t2\n"
	tables := e.DetectTables(text)
	assert.Len(t, tables, 2)
}

func TestSplitLargeNeverEmptyParts(t *testing.T) {
	e := NewExtractor()

	rows := make([][]string, 35)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("row%d", i), strings.Repeat("v", 200)}
	}
	table := e.ToTable(rows, []string{"id", "value"}, "Big")
	require.Greater(t, len(table.Markdown), 5000)

	parts := e.SplitLarge(table, 5000)

	// 35 rows, max(10, 35/3)=11 per part, 4 parts.
	require.Len(t, parts, 4)
	for i, part := range parts {
		assert.Greater(t, part.Rows, 0, "part %d has no rows", i)
		assert.Equal(t, i+1, part.Metadata["part"])
		assert.Equal(t, 4, part.Metadata["total_parts"])
		assert.Contains(t, part.Description, fmt.Sprintf("(Part %d/4)", i+1))
		assert.Contains(t, part.Markdown, "| id | value |")
	}
}

func TestSplitLargeReassembles(t *testing.T) {
	e := NewExtractor()

	rows := make([][]string, 40)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("row%d", i), strings.Repeat("v", 150)}
	}
	table := e.ToTable(rows, []string{"id", "value"}, "")

	parts := e.SplitLarge(table, 1000)

	var reassembled [][]string
	for _, part := range parts {
		_, partRows := parseMarkdownTable(part.Markdown)
		reassembled = append(reassembled, partRows...)
	}
	require.Len(t, reassembled, 40)
	for i, row := range reassembled {
		assert.Equal(t, fmt.Sprintf("row%d", i), row[0])
	}
}

func TestSplitLargePreservesEscapedCells(t *testing.T) {
	e := NewExtractor()

	value := "a|b " + strings.Repeat("v", 200)
	rows := make([][]string, 35)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("row%d", i), value}
	}
	table := e.ToTable(rows, []string{"id", "value"}, "")
	require.Greater(t, len(table.Markdown), 5000)

	parts := e.SplitLarge(table, 5000)
	require.Greater(t, len(parts), 1)

	var reassembled [][]string
	for _, part := range parts {
		headers, partRows := parseMarkdownTable(part.Markdown)
		require.Equal(t, []string{"id", "value"}, headers)
		reassembled = append(reassembled, partRows...)
	}
	require.Len(t, reassembled, 35)
	for i, row := range reassembled {
		require.Len(t, row, 2)
		assert.Equal(t, fmt.Sprintf("row%d", i), row[0])
		assert.Equal(t, value, row[1])
	}
}

func TestSplitRowEscapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "| a | b |", []string{"a", "b"}},
		{"escaped pipe", `| a\|b | c |`, []string{"a|b", "c"}},
		{"escaped backslash", `| a\\ | c |`, []string{`a\`, "c"}},
		{"backslash then pipe cell", `| a\\\|b | c |`, []string{`a\|b`, "c"}},
		{"missing closing pipe", "| a | b", []string{"a", "b"}},
		{"empty trailing cell", "| a |  |", []string{"a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitRow(tt.line))
		})
	}
}

func TestCellEscapingRoundTrip(t *testing.T) {
	e := NewExtractor()

	table := e.ToTable([][]string{{`a|b`, `c\d`}}, []string{"x", "y"}, "")
	headers, rows := parseMarkdownTable(table.Markdown)

	assert.Equal(t, []string{"x", "y"}, headers)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{`a|b`, `c\d`}, rows[0])
}

func TestSplitLargeSmallTableUntouched(t *testing.T) {
	e := NewExtractor()

	table := e.ToTable([][]string{{"a", "b"}, {"1", "2"}}, nil, "")
	parts := e.SplitLarge(table, 5000)
	require.Len(t, parts, 1)
	assert.Equal(t, table.Markdown, parts[0].Markdown)
}

func TestFormatAsContext(t *testing.T) {
	e := NewExtractor()

	table := e.ToTable([][]string{{"tiger", "4"}}, []string{"species", "count"}, "Census")
	table.Context = "Annual census data."

	formatted := e.FormatAsContext(table)
	assert.True(t, strings.HasPrefix(formatted, "## Census\n"))
	assert.Contains(t, formatted, table.Description)
	assert.Contains(t, formatted, table.Markdown)
	assert.Contains(t, formatted, "Context: Annual census data.")
}
