package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("report.pdf", []byte("content"))
	if job.ID == "" || len(job.ID) != 26 {
		t.Errorf("expected 26-char job ID, got %q", job.ID)
	}
	if job.Status != StatusQueued {
		t.Errorf("expected queued status, got %q", job.Status)
	}
	if string(job.FileData()) != "content" {
		t.Errorf("expected file data preserved, got %q", job.FileData())
	}

	other := NewJob("report.pdf", nil)
	if other.ID == job.ID {
		t.Error("expected distinct job IDs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("doc.txt", nil)

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusExtracting, "extracting"},
		{StatusNarrating, "narrating"},
		{StatusDescribingImages, "describing_images"},
		{StatusSynthesizing, "synthesizing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("doc.txt", nil)
	job.AddError("chunk 3 failed")
	job.AddError("chunk 7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "chunk 3 failed" {
		t.Errorf("expected first error %q, got %q", "chunk 3 failed", snap.Progress.Errors[0])
	}
}

func TestJob_SetProgress(t *testing.T) {
	job := NewJob("doc.txt", nil)
	job.SetProgress(2, 5, "processing chunk 2 of 5")

	snap := job.Snapshot()
	if snap.Progress.ChunksProcessed != 2 || snap.Progress.TotalChunks != 5 {
		t.Errorf("unexpected progress: %+v", snap.Progress)
	}
	if snap.Progress.LastMessage != "processing chunk 2 of 5" {
		t.Errorf("expected last message recorded, got %q", snap.Progress.LastMessage)
	}
}

func TestJob_CountersAndArtifacts(t *testing.T) {
	job := NewJob("doc.pdf", nil)
	job.AddChunkFailures(1)
	job.AddChunkFailures(2)
	job.SetImagesTotal(4)
	job.SetAudioBytes(12345)
	job.SetArtifacts("j.txt", "")
	job.SetArtifacts("", "j.mp3")

	snap := job.Snapshot()
	if snap.Progress.ChunksFailed != 3 {
		t.Errorf("expected 3 failed chunks, got %d", snap.Progress.ChunksFailed)
	}
	if snap.Progress.ImagesTotal != 4 {
		t.Errorf("expected 4 images, got %d", snap.Progress.ImagesTotal)
	}
	if snap.Progress.AudioBytes != 12345 {
		t.Errorf("expected audio bytes recorded, got %d", snap.Progress.AudioBytes)
	}
	if snap.TextArtifact != "j.txt" || snap.AudioArtifact != "j.mp3" {
		t.Errorf("expected both artifacts recorded, got %q %q", snap.TextArtifact, snap.AudioArtifact)
	}
}

func TestJob_SetMeta(t *testing.T) {
	job := NewJob("doc.pdf", nil)
	job.SetMeta("A Title", "abc123")

	snap := job.Snapshot()
	if snap.Title != "A Title" {
		t.Errorf("expected title recorded, got %q", snap.Title)
	}
	if snap.ContentHash != "abc123" {
		t.Errorf("expected content hash recorded, got %q", snap.ContentHash)
	}
}

func TestJob_SetMetaConcurrentWithSnapshot(t *testing.T) {
	// Snapshot readers poll while the worker records extraction metadata;
	// both sides must go through the job lock.
	job := NewJob("doc.pdf", nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			job.SetMeta("Concurrent Title", ContentHashHex([]byte{byte(i)}))
		}
	}()
	for i := 0; i < 1000; i++ {
		_ = job.Snapshot()
	}
	<-done

	if job.Snapshot().Title != "Concurrent Title" {
		t.Errorf("expected final title visible, got %q", job.Snapshot().Title)
	}
}

func TestJob_SetImageProgressPreservesChunkCounters(t *testing.T) {
	job := NewJob("doc.pdf", nil)
	job.SetProgress(3, 3, "chunk 3 of 3 done")
	job.SetImageProgress(2, 5, "describing 5 images in one vision call")

	snap := job.Snapshot()
	if snap.Progress.ChunksProcessed != 3 || snap.Progress.TotalChunks != 3 {
		t.Errorf("chunk counters clobbered by image progress: %+v", snap.Progress)
	}
	if snap.Progress.ImagesDescribed != 2 || snap.Progress.ImagesTotal != 5 {
		t.Errorf("unexpected image counters: %+v", snap.Progress)
	}
	if snap.Progress.LastMessage != "describing 5 images in one vision call" {
		t.Errorf("expected image message recorded, got %q", snap.Progress.LastMessage)
	}
}

func TestJob_ReleaseFileData(t *testing.T) {
	job := NewJob("doc.txt", []byte("bytes"))
	job.ReleaseFileData()
	if job.FileData() != nil {
		t.Error("expected file data released")
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := NewJob("doc.txt", nil)
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("doc.txt", nil)
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob("old.txt", nil)
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := NewJob("new.txt", nil)
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
