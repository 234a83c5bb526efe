package chunking

import (
	"strings"
)

// defaultSeparators orders split points from strongest to weakest structural
// boundary. The empty separator is the character-level fallback.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter splits text recursively on an ordered list of separators,
// preferring the strongest boundary present in the text and falling back to
// weaker ones for oversized pieces. Merged chunks overlap by carrying the
// tail of the previous chunk forward.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter with the given target chunk size and
// overlap, both in characters.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// Split breaks text into chunks of at most chunkSize characters where the
// separator structure allows it. A single unbreakable run longer than
// chunkSize is returned as-is rather than cut mid-token.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitWith(text, s.separators)
}

func (s *Splitter) splitWith(text string, separators []string) []string {
	// Pick the first separator that actually occurs in the text.
	separator := separators[len(separators)-1]
	remaining := separators
	for i, sep := range separators {
		if sep == "" {
			separator = ""
			remaining = separators[i+1:]
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	splits := splitOn(text, separator)

	var final []string
	var good []string
	for _, piece := range splits {
		if len(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good, separator)...)
			good = nil
		}
		if len(remaining) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitWith(piece, remaining)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good, separator)...)
	}
	return final
}

// splitOn splits text on the separator, keeping the separator attached to
// the preceding piece so joins reconstruct the original boundaries. An empty
// separator splits into individual characters.
func splitOn(text, separator string) []string {
	if separator == "" {
		runes := []rune(text)
		pieces := make([]string, 0, len(runes))
		for _, r := range runes {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, separator)
	pieces := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// merge greedily accumulates pieces up to chunkSize, then starts the next
// chunk with the trailing pieces that fit inside the overlap window.
func (s *Splitter) merge(splits []string, separator string) []string {
	sepLen := len(separator)

	var docs []string
	var current []string
	total := 0

	for _, piece := range splits {
		pieceLen := len(piece)
		joinLen := 0
		if len(current) > 0 {
			joinLen = sepLen
		}
		if total+pieceLen+joinLen > s.chunkSize && len(current) > 0 {
			if doc := joinTrimmed(current, separator); doc != "" {
				docs = append(docs, doc)
			}
			// Drop leading pieces until the carried tail fits the overlap.
			for total > s.overlap || (total+pieceLen+sepLenIf(len(current) > 0, sepLen) > s.chunkSize && total > 0) {
				drop := len(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
			}
		}
		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, piece)
		total += pieceLen
	}

	if doc := joinTrimmed(current, separator); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinTrimmed(pieces []string, separator string) string {
	return strings.TrimSpace(strings.Join(pieces, separator))
}

func sepLenIf(cond bool, sepLen int) int {
	if cond {
		return sepLen
	}
	return 0
}
