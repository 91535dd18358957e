package tts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dcunha/narravox/internal/errdefs"
)

// fakeSpeaker returns a distinct payload per chunk and can fail a
// selected 1-based call number.
type fakeSpeaker struct {
	calls  []string
	failOn int
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) ([]byte, error) {
	f.calls = append(f.calls, text)
	if f.failOn == len(f.calls) {
		return nil, errdefs.Upstream("fake", 500, "synthesis failed")
	}
	return []byte(fmt.Sprintf("AUDIO[%d:%d]", len(f.calls), len(text))), nil
}

func (f *fakeSpeaker) Name() string { return "fake" }

func sentencesText(n, wordsEach int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString("Sentence number ")
		for j := 0; j < wordsEach; j++ {
			b.WriteString("word ")
		}
		b.WriteString(fmt.Sprintf("%d ends here. ", i+1))
	}
	return b.String()
}

func TestSynthesize_ConcatenatesAllChunks(t *testing.T) {
	sp := &fakeSpeaker{}
	syn := NewSynthesizer(sp, 200)

	audio, err := syn.Synthesize(context.Background(), sentencesText(10, 10), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sp.calls) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(sp.calls))
	}

	var wantLen int
	for i, chunk := range sp.calls {
		wantLen += len(fmt.Sprintf("AUDIO[%d:%d]", i+1, len(chunk)))
	}
	if len(audio) != wantLen {
		t.Errorf("expected %d concatenated bytes, got %d", wantLen, len(audio))
	}

	// Output starts with the first chunk's bytes, untouched.
	first := fmt.Sprintf("AUDIO[1:%d]", len(sp.calls[0]))
	if !strings.HasPrefix(string(audio), first) {
		t.Errorf("expected output to begin with first chunk audio %q", first)
	}
}

func TestSynthesize_ChunksRespectLimit(t *testing.T) {
	sp := &fakeSpeaker{}
	syn := NewSynthesizer(sp, 150)

	_, err := syn.Synthesize(context.Background(), sentencesText(8, 8), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, chunk := range sp.calls {
		if len(chunk) > 150 {
			t.Errorf("chunk %d exceeds limit: %d chars", i, len(chunk))
		}
	}
}

func TestSynthesize_FailFast(t *testing.T) {
	sp := &fakeSpeaker{failOn: 2}
	syn := NewSynthesizer(sp, 150)

	_, err := syn.Synthesize(context.Background(), sentencesText(10, 10), nil)
	if err == nil {
		t.Fatal("expected error from failing chunk")
	}
	if !strings.Contains(err.Error(), "chunk 2 of") {
		t.Errorf("expected chunk position in error, got %q", err)
	}
	if !errdefs.IsUpstream(err) {
		t.Errorf("expected wrapped UpstreamError, got %v", err)
	}
	// No chunks after the failure were attempted.
	if len(sp.calls) != 2 {
		t.Errorf("expected synthesis to stop at chunk 2, got %d calls", len(sp.calls))
	}
}

func TestSynthesize_EmptyTextFailsValidation(t *testing.T) {
	sp := &fakeSpeaker{}
	syn := NewSynthesizer(sp, 150)

	_, err := syn.Synthesize(context.Background(), "   \t ", nil)
	if !errdefs.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(sp.calls) != 0 {
		t.Errorf("expected no synthesis calls, got %d", len(sp.calls))
	}
}

func TestSynthesize_ProgressSequence(t *testing.T) {
	sp := &fakeSpeaker{}
	syn := NewSynthesizer(sp, 150)

	var messages []string
	progress := func(current, total int, message string) {
		messages = append(messages, message)
	}

	_, err := syn.Synthesize(context.Background(), sentencesText(6, 8), progress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two notifications per chunk: one before, one after.
	if len(messages) != 2*len(sp.calls) {
		t.Fatalf("expected %d progress calls, got %d", 2*len(sp.calls), len(messages))
	}
	if !strings.Contains(messages[0], "synthesizing chunk 1 of") {
		t.Errorf("unexpected first message %q", messages[0])
	}
	if !strings.Contains(messages[1], "done") {
		t.Errorf("unexpected second message %q", messages[1])
	}
}

func TestNewOpenAISpeaker_RequiresKey(t *testing.T) {
	_, err := NewOpenAISpeaker("", "", "")
	if !errdefs.IsValidation(err) {
		t.Fatalf("expected ValidationError for missing key, got %v", err)
	}
}

func TestNewElevenLabsSpeaker_RequiresKeyAndVoice(t *testing.T) {
	if _, err := NewElevenLabsSpeaker("", "v", "", nil); !errdefs.IsValidation(err) {
		t.Fatalf("expected ValidationError for missing key, got %v", err)
	}
	if _, err := NewElevenLabsSpeaker("k", "", "", nil); !errdefs.IsValidation(err) {
		t.Fatalf("expected ValidationError for missing voice, got %v", err)
	}
}

func TestElevenLabsSpeak_VoiceSettings(t *testing.T) {
	var captured elevenLabsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte("mp3bytes"))
	}))
	defer srv.Close()

	// Default settings apply when none are given.
	sp, err := NewElevenLabsSpeaker("key", "voice", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp.baseURL = srv.URL
	if _, err := sp.Speak(context.Background(), "Hello there."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.VoiceSettings != RecommendedSettings {
		t.Errorf("expected recommended settings, got %+v", captured.VoiceSettings)
	}

	// Custom settings override the defaults per speaker.
	custom := VoiceSettings{Stability: 0.2, SimilarityBoost: 0.3, Style: 0.9, UseSpeakerBoost: false}
	sp, err = NewElevenLabsSpeaker("key", "voice", "", &custom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sp.baseURL = srv.URL
	if _, err := sp.Speak(context.Background(), "Hello again."); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if captured.VoiceSettings != custom {
		t.Errorf("expected custom settings, got %+v", captured.VoiceSettings)
	}
}

func TestOpenAISpeak_RejectsOversizedInput(t *testing.T) {
	sp, err := NewOpenAISpeaker("key", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Leave the URL pointing at the real endpoint; the oversize check
	// must reject before any request is built.
	_, err = sp.Speak(context.Background(), strings.Repeat("a", SpeechInputLimit+1))
	if !errdefs.IsValidation(err) {
		t.Fatalf("expected ValidationError for oversized input, got %v", err)
	}
}

func TestElevenLabsSpeak_RejectsOversizedInput(t *testing.T) {
	sp, err := NewElevenLabsSpeaker("key", "voice", "", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = sp.Speak(context.Background(), strings.Repeat("a", SpeechInputLimit+1))
	if !errdefs.IsValidation(err) {
		t.Fatalf("expected ValidationError for oversized input, got %v", err)
	}
}
