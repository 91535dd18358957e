package chunker

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitWords_ExactGroupsWithRemainder(t *testing.T) {
	words := make([]string, 1200)
	for i := range words {
		words[i] = fmt.Sprintf("word%d", i+1)
	}
	text := strings.Join(words, " ")

	chunks := SplitWords(text, 500)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	wantSizes := []int{500, 500, 200}
	for i, want := range wantSizes {
		if got := WordCount(chunks[i]); got != want {
			t.Errorf("chunk %d: expected %d words, got %d", i, want, got)
		}
	}
}

func TestSplitWords_ReassemblesWordSequence(t *testing.T) {
	text := "the quick   brown\nfox jumps over\tthe lazy dog"
	chunks := SplitWords(text, 3)

	joined := strings.Join(chunks, " ")
	if got, want := strings.Join(strings.Fields(joined), " "), strings.Join(strings.Fields(text), " "); got != want {
		t.Errorf("reassembled word sequence differs:\n got %q\nwant %q", got, want)
	}
}

func TestSplitWords_ChunkCount(t *testing.T) {
	text := strings.Repeat("w ", 1001)
	chunks := SplitWords(text, 100)
	// ceil(1001/100) = 11
	if len(chunks) != 11 {
		t.Fatalf("expected 11 chunks, got %d", len(chunks))
	}
	if got := WordCount(chunks[10]); got != 1 {
		t.Errorf("expected final chunk of 1 word, got %d", got)
	}
}

func TestSplitWords_EmptyInput(t *testing.T) {
	if chunks := SplitWords("", 500); chunks != nil {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
	if chunks := SplitWords("   \n\t  ", 500); chunks != nil {
		t.Errorf("expected no chunks for whitespace input, got %d", len(chunks))
	}
}

func TestSplitWords_InvalidSize(t *testing.T) {
	if chunks := SplitWords("some words here", 0); chunks != nil {
		t.Errorf("expected no chunks for size 0, got %d", len(chunks))
	}
}

func TestSplitWords_NoEmptyChunks(t *testing.T) {
	chunks := SplitWords(strings.Repeat("x ", 50), 10)
	for i, c := range chunks {
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}
