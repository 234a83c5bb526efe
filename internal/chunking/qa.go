package chunking

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/darukaa-earth/daruka-rag/internal/models"
)

// QAPair is one extracted question/answer pair.
type QAPair struct {
	Question string
	Answer   string
}

// Column name fragments used to auto-detect question and answer columns in
// row-structured data.
var (
	questionIndicators = []string{"question", "q", "query", "faq"}
	answerIndicators   = []string{"answer", "a", "response", "reply"}
)

// qaPattern pairs a marker regex, which locates the start of each candidate
// pair, with a pair regex applied to the text between consecutive markers.
type qaPattern struct {
	marker *regexp.Regexp
	pair   *regexp.Regexp
}

// The three recognized free-text layouts, in priority order. The first
// pattern that yields any pairs wins and later patterns are not tried.
var qaPatterns = []qaPattern{
	{
		marker: regexp.MustCompile(`(?i)Q:`),
		pair:   regexp.MustCompile(`(?is)\AQ:\s*(.+?)\s*A:\s*(.+)\z`),
	},
	{
		marker: regexp.MustCompile(`(?i)Question:`),
		pair:   regexp.MustCompile(`(?is)\AQuestion:\s*(.+?)\s*Answer:\s*(.+)\z`),
	},
	{
		marker: regexp.MustCompile(`(?i)\*\*Question:?\*\*`),
		pair:   regexp.MustCompile(`(?is)\A\*\*Question:?\*\*\s*(.+?)\s*\*\*Answer:?\*\*\s*(.+)\z`),
	},
}

// QAChunker turns question/answer material into one chunk per pair.
type QAChunker struct{}

// NewQAChunker creates a Q&A chunker.
func NewQAChunker() *QAChunker {
	return &QAChunker{}
}

// ExtractPairs pulls question/answer pairs out of free text. Each layout is
// tried in priority order and the first one producing pairs is used. Pairs
// with an empty question or answer are dropped.
func (c *QAChunker) ExtractPairs(text string) []QAPair {
	for _, pattern := range qaPatterns {
		pairs := extractWithPattern(text, pattern)
		if len(pairs) > 0 {
			return pairs
		}
	}
	return nil
}

// extractWithPattern segments the text at each marker occurrence and matches
// the pair expression inside each segment. Segmenting first keeps the
// answer capture from running past the next question.
func extractWithPattern(text string, pattern qaPattern) []QAPair {
	starts := pattern.marker.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return nil
	}

	var pairs []QAPair
	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		segment := text[loc[0]:end]

		match := pattern.pair.FindStringSubmatch(strings.TrimSpace(segment))
		if match == nil {
			continue
		}
		question := strings.TrimSpace(match[1])
		answer := strings.TrimSpace(match[2])
		if question == "" || answer == "" {
			continue
		}
		pairs = append(pairs, QAPair{Question: question, Answer: answer})
	}
	return pairs
}

// ChunkText extracts pairs from free text and chunks them. Text with no
// recognizable pairs yields an empty slice.
func (c *QAChunker) ChunkText(text, source string, extra map[string]interface{}) []models.Chunk {
	return c.ChunkPairs(c.ExtractPairs(text), source, extra)
}

// ChunkPairs turns explicit pairs into chunks, one per pair. Pairs with an
// empty question or answer are dropped silently.
func (c *QAChunker) ChunkPairs(pairs []QAPair, source string, extra map[string]interface{}) []models.Chunk {
	var chunks []models.Chunk
	for _, pair := range pairs {
		question := strings.TrimSpace(pair.Question)
		answer := strings.TrimSpace(pair.Answer)
		if question == "" || answer == "" {
			continue
		}
		i := len(chunks)
		metadata := map[string]interface{}{
			"source":      source,
			"chunk_index": i,
			"chunk_type":  string(models.ChunkStrategyQA),
			"question":    question,
		}
		for k, v := range extra {
			metadata[k] = v
		}
		chunks = append(chunks, models.Chunk{
			Content:  fmt.Sprintf("Q: %s\nA: %s", question, answer),
			ChunkID:  fmt.Sprintf("%s_qa_%d", source, i),
			Index:    i,
			Strategy: models.ChunkStrategyQA,
			Metadata: metadata,
			Question: question,
			Answer:   answer,
		})
	}
	for i := range chunks {
		chunks[i].Metadata["total_chunks"] = len(chunks)
	}
	return chunks
}

// ChunkFromRows auto-detects the question and answer columns in
// row-structured data and chunks each row as one pair. Rows missing either
// side are skipped.
func (c *QAChunker) ChunkFromRows(rows []map[string]interface{}, source string, extra map[string]interface{}) []models.Chunk {
	var pairs []QAPair
	for _, row := range rows {
		qKey, aKey := detectQAColumns(row)
		if qKey == "" || aKey == "" {
			continue
		}
		pairs = append(pairs, QAPair{
			Question: fmt.Sprintf("%v", row[qKey]),
			Answer:   fmt.Sprintf("%v", row[aKey]),
		})
	}
	return c.ChunkPairs(pairs, source, extra)
}

// RowsHaveQAColumns reports whether the row keys identify both a question
// and an answer column. The router uses this to pick the Q&A strategy for
// row-structured input.
func RowsHaveQAColumns(rows []map[string]interface{}) bool {
	if len(rows) == 0 {
		return false
	}
	qKey, aKey := detectQAColumns(rows[0])
	return qKey != "" && aKey != ""
}

// detectQAColumns finds the question and answer keys of a row by substring
// match against the indicator lists. Keys are scanned in sorted order for
// deterministic detection, and a key claimed by the question side is not
// considered for the answer side.
func detectQAColumns(row map[string]interface{}) (qKey, aKey string) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if qKey == "" && matchesIndicator(key, questionIndicators) {
			qKey = key
		}
	}
	for _, key := range keys {
		if key != qKey && aKey == "" && matchesIndicator(key, answerIndicators) {
			aKey = key
		}
	}
	return qKey, aKey
}

func matchesIndicator(key string, indicators []string) bool {
	lowered := strings.ToLower(key)
	for _, ind := range indicators {
		if strings.Contains(lowered, ind) {
			return true
		}
	}
	return false
}
