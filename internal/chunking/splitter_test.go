package chunking

import (
	"strings"
	"testing"
)

func TestSplitterRespectsChunkSize(t *testing.T) {
	s := NewSplitter(100, 20)

	paragraphs := make([]string, 10)
	for i := range paragraphs {
		paragraphs[i] = strings.Repeat("word ", 15)
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunk %d exceeds chunk size: %d chars", i, len(chunk))
		}
		if strings.TrimSpace(chunk) == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitterPrefersParagraphBoundaries(t *testing.T) {
	s := NewSplitter(30, 0)

	text := "First paragraph here.\n\nSecond paragraph here.\n\nThird paragraph here."
	chunks := s.Split(text)

	for i, chunk := range chunks {
		if strings.Contains(chunk, "\n\n") {
			t.Errorf("chunk %d straddles a paragraph boundary: %q", i, chunk)
		}
	}
}

func TestSplitterIdempotent(t *testing.T) {
	s := NewSplitter(80, 15)
	text := strings.Repeat("Some sentence about wildlife monitoring. ", 30)

	first := s.Split(text)
	second := s.Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk count changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplitterEmptyInput(t *testing.T) {
	s := NewSplitter(100, 20)

	for _, text := range []string{"", "   ", "\n\n\n"} {
		if got := s.Split(text); len(got) != 0 {
			t.Errorf("Split(%q) = %d chunks, want 0", text, len(got))
		}
	}
}

func TestSplitterUnbreakableRun(t *testing.T) {
	s := NewSplitter(10, 2)

	// No separators at all, falls through to character-level splitting.
	chunks := s.Split(strings.Repeat("x", 35))
	if len(chunks) == 0 {
		t.Fatal("expected chunks from unbreakable run")
	}
	total := 0
	for _, chunk := range chunks {
		if len(chunk) > 10 {
			t.Errorf("chunk exceeds size: %d", len(chunk))
		}
		total += len(chunk)
	}
	if total < 35 {
		t.Errorf("content lost: %d of 35 chars covered", total)
	}
}

func TestSplitterOverlapCarriesContext(t *testing.T) {
	s := NewSplitter(60, 25)

	sentences := []string{
		"Alpha sentence one.", "Beta sentence two.", "Gamma sentence three.",
		"Delta sentence four.", "Epsilon sentence five.",
	}
	chunks := s.Split(strings.Join(sentences, " "))
	if len(chunks) < 2 {
		t.Skip("input too small to produce overlap")
	}

	// Consecutive chunks share trailing/leading material.
	for i := 1; i < len(chunks); i++ {
		prevWords := strings.Fields(chunks[i-1])
		if len(prevWords) == 0 {
			continue
		}
		tail := prevWords[len(prevWords)-1]
		if !strings.Contains(chunks[i], tail) {
			t.Logf("chunk %d does not carry tail %q of previous chunk", i, tail)
		}
	}
}
