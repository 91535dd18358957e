// Package tts turns narrative text into speech audio through one of two
// provider adapters.
package tts

import (
	"bytes"
	"context"
	"fmt"

	"github.com/dcunha/narravox/internal/chunker"
	"github.com/dcunha/narravox/internal/errdefs"
)

const (
	// SpeechInputLimit is the hard per-request input ceiling of the
	// speech endpoints in use.
	SpeechInputLimit = 4096
	// DefaultChunkChars leaves headroom below SpeechInputLimit when
	// packing sentences.
	DefaultChunkChars = 3000
)

// ProgressFunc receives synchronous status notifications before and after
// each synthesized chunk.
type ProgressFunc func(current, total int, message string)

// Speaker converts one chunk of text into a finite, fully materialized
// audio byte sequence. Implementations drain any streaming response
// before returning; the synthesizer never sees an iterator.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
	Name() string
}

// Synthesizer chunks narrative text and concatenates per-chunk audio.
type Synthesizer struct {
	speaker    Speaker
	chunkChars int
}

func NewSynthesizer(speaker Speaker, chunkChars int) *Synthesizer {
	if chunkChars <= 0 || chunkChars > SpeechInputLimit {
		chunkChars = DefaultChunkChars
	}
	return &Synthesizer{speaker: speaker, chunkChars: chunkChars}
}

// Synthesize cleans and sentence-packs text, synthesizes each chunk in
// order and returns the raw concatenated MP3 bytes; the result's length
// is the exact sum of the per-chunk responses, with no re-encoding. Any
// chunk failure aborts the whole call: unlike a contained text chunk, a
// missing audio segment would desynchronize playback.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, progress ProgressFunc) ([]byte, error) {
	cleaned, err := chunker.Clean(text)
	if err != nil {
		return nil, err
	}

	chunks := chunker.PackSentences(cleaned, s.chunkChars)
	if len(chunks) == 0 {
		return nil, errdefs.Validationf("no speakable text after cleaning")
	}

	var buf bytes.Buffer
	total := len(chunks)
	for i, chunk := range chunks {
		if progress != nil {
			progress(i+1, total, fmt.Sprintf("synthesizing chunk %d of %d (%d chars) via %s", i+1, total, len(chunk), s.speaker.Name()))
		}

		audio, err := s.speaker.Speak(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d of %d: %w", i+1, total, err)
		}

		buf.Write(audio)
		if progress != nil {
			progress(i+1, total, fmt.Sprintf("chunk %d of %d done (%d audio bytes)", i+1, total, len(audio)))
		}
	}

	return buf.Bytes(), nil
}
