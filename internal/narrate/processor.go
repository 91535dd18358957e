// Package narrate drives chunk-by-chunk rewriting of document text into
// audiobook narrative.
package narrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/dcunha/narravox/internal/chunker"
	"github.com/dcunha/narravox/internal/llm"
)

// DefaultChunkWords bounds one model call's input when the caller does
// not override it.
const DefaultChunkWords = 500

// Invoker performs one model call per chunk. *llm.Client satisfies it;
// tests inject fakes.
type Invoker interface {
	Invoke(ctx context.Context, target llm.Target, prompt, chunk string) (string, error)
}

// ProgressFunc receives synchronous status notifications between chunks.
// It is never called concurrently with a chunk's own network call.
type ProgressFunc func(current, total int, message string)

// ChunkError records one contained per-chunk failure. Index is the
// 1-based chunk number referenced by the inline marker.
type ChunkError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// Result is the ordered output of one processing run. Text holds the
// per-chunk results joined by blank lines, with an inline marker standing
// in for every failed chunk, so entry count always equals TotalChunks.
type Result struct {
	Text        string
	TotalChunks int
	ChunkErrors []ChunkError
}

// ProcessAll cleans and word-chunks text, then rewrites each chunk with
// the target model, strictly in order: chunk N is never sent before chunk
// N-1's outcome is recorded. A failing chunk becomes an inline error
// marker and processing continues; a single bad chunk never aborts the
// batch. No retries happen here.
func ProcessAll(ctx context.Context, inv Invoker, target llm.Target, prompt, text string, chunkWords int, progress ProgressFunc) (Result, error) {
	cleaned, err := chunker.Clean(text)
	if err != nil {
		return Result{}, err
	}
	if chunkWords <= 0 {
		chunkWords = DefaultChunkWords
	}

	chunks := chunker.SplitWords(cleaned, chunkWords)
	total := len(chunks)
	res := Result{TotalChunks: total}
	parts := make([]string, 0, total)

	for i, chunk := range chunks {
		if progress != nil {
			progress(i+1, total, fmt.Sprintf("processing chunk %d of %d (%d words)", i+1, total, chunker.WordCount(chunk)))
		}

		out, err := inv.Invoke(ctx, target, prompt, chunk)
		if err != nil {
			res.ChunkErrors = append(res.ChunkErrors, ChunkError{Index: i + 1, Message: err.Error()})
			parts = append(parts, fmt.Sprintf("[chunk %d failed: %s]", i+1, err))
			if progress != nil {
				progress(i+1, total, fmt.Sprintf("chunk %d of %d failed: %s", i+1, total, err))
			}
			continue
		}

		parts = append(parts, out)
		if progress != nil {
			progress(i+1, total, fmt.Sprintf("chunk %d of %d done", i+1, total))
		}
	}

	res.Text = strings.Join(parts, "\n\n")
	return res, nil
}
