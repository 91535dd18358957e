package chunker

import "strings"

// SplitWords splits text on whitespace and groups the words into ordered
// chunks of exactly size words each. The final chunk holds the remainder.
// Empty input yields no chunks. Boundaries may fall mid-sentence; this
// split is length-bounded, not semantically aware.
func SplitWords(text string, size int) []string {
	if size <= 0 {
		return nil
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]string, 0, (len(words)+size-1)/size)
	for i := 0; i < len(words); i += size {
		end := min(i+size, len(words))
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// WordCount reports the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
