package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dcunha/narravox/internal/config"
	"github.com/dcunha/narravox/internal/store"
)

func newTestWorker(t *testing.T) *Worker {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store init failed: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		ChunkWords:    500,
		TTSChunkChars: 3000,
		JobTTL:        time.Hour,
	}
	return NewWorker(nil, st, log, cfg)
}

func TestWorker_UnsupportedFormatFails(t *testing.T) {
	w := newTestWorker(t)
	job := NewJob("archive.zip", []byte("data"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed status, got %q", snap.Status)
	}
	if len(snap.Progress.Errors) == 0 {
		t.Error("expected a recorded error")
	}
}

func TestWorker_EmptyDocumentFails(t *testing.T) {
	w := newTestWorker(t)
	job := NewJob("empty.txt", []byte("   \n\n\t  "))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed status for empty document, got %q", snap.Status)
	}
	if snap.TextArtifact != "" {
		t.Errorf("expected no text artifact, got %q", snap.TextArtifact)
	}
}
