package chunker

import (
	"strings"
	"unicode"

	"github.com/dcunha/narravox/internal/errdefs"
)

// Clean normalizes text before chunking: whitespace runs collapse to a
// single space, double quotes become single quotes, non-printable runes
// are dropped and the result is trimmed. Clean is idempotent.
func Clean(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errdefs.Validationf("input text is empty")
	}

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if !unicode.IsPrint(r) {
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		if r == '"' {
			b.WriteByte('\'')
		} else {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if out == "" {
		return "", errdefs.Validationf("input text has no printable content")
	}
	return out, nil
}

// SplitSentences splits cleaned text at sentence boundaries. A boundary is
// a terminal punctuation mark (., ! or ?) followed by whitespace and then
// an upper-case letter. Abbreviations followed by lower-case text are left
// alone.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = j
		i = j - 1
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// PackSentences greedily packs the sentences of cleaned text into chunks
// of at most maxChars bytes: a sentence joins the current chunk if the
// chunk, one separating space and the sentence still fit. A single
// sentence longer than maxChars becomes a chunk of its own, unsplit; the
// speech provider enforces its own hard limit on such chunks. Joining all
// chunks with single spaces reconstructs the cleaned text.
func PackSentences(text string, maxChars int) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current strings.Builder
	for _, s := range sentences {
		if current.Len() == 0 {
			current.WriteString(s)
			continue
		}
		if current.Len()+1+len(s) <= maxChars {
			current.WriteByte(' ')
			current.WriteString(s)
			continue
		}
		chunks = append(chunks, current.String())
		current.Reset()
		current.WriteString(s)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
