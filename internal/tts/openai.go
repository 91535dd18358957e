package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dcunha/narravox/internal/errdefs"
)

const defaultOpenAIURL = "https://api.openai.com/v1/audio/speech"

// OpenAISpeaker synthesizes speech with the OpenAI audio API. Responses
// are raw MP3 bytes.
type OpenAISpeaker struct {
	apiKey     string
	model      string
	voice      string
	url        string
	httpClient *http.Client
}

// NewOpenAISpeaker validates the credential before any network call is
// attempted.
func NewOpenAISpeaker(apiKey, model, voice string) (*OpenAISpeaker, error) {
	if apiKey == "" {
		return nil, errdefs.Validationf("openai api key is required for speech synthesis")
	}
	if model == "" {
		model = "tts-1"
	}
	if voice == "" {
		voice = "alloy"
	}
	return &OpenAISpeaker{
		apiKey: apiKey,
		model:  model,
		voice:  voice,
		url:    defaultOpenAIURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

func (s *OpenAISpeaker) Name() string { return "openai" }

type openAISpeechRequest struct {
	Model string `json:"model"`
	Voice string `json:"voice"`
	Input string `json:"input"`
}

func (s *OpenAISpeaker) Speak(ctx context.Context, text string) ([]byte, error) {
	if len(text) > SpeechInputLimit {
		return nil, errdefs.Validationf("chunk of %d chars exceeds the %d character speech input limit", len(text), SpeechInputLimit)
	}

	body, err := json.Marshal(openAISpeechRequest{
		Model: s.model,
		Voice: s.voice,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai speech api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, errdefs.Upstream("openai", resp.StatusCode, string(respBody))
	}

	// Drain the full stream here; callers get a finite byte sequence.
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, errdefs.Upstream("openai", resp.StatusCode, "empty audio response")
	}
	return audio, nil
}
