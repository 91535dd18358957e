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

const defaultElevenLabsURL = "https://api.elevenlabs.io"

// VoiceSettings tunes ElevenLabs delivery per request.
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// RecommendedSettings works well for long-form narration.
var RecommendedSettings = VoiceSettings{
	Stability:       0.75,
	SimilarityBoost: 0.85,
	Style:           0.4,
	UseSpeakerBoost: true,
}

// ElevenLabsSpeaker synthesizes speech with the ElevenLabs API.
type ElevenLabsSpeaker struct {
	apiKey     string
	voiceID    string
	modelID    string
	settings   VoiceSettings
	baseURL    string
	httpClient *http.Client
}

// NewElevenLabsSpeaker builds a speaker for one voice. A nil settings
// falls back to RecommendedSettings.
func NewElevenLabsSpeaker(apiKey, voiceID, modelID string, settings *VoiceSettings) (*ElevenLabsSpeaker, error) {
	if apiKey == "" {
		return nil, errdefs.Validationf("elevenlabs api key is required for speech synthesis")
	}
	if voiceID == "" {
		return nil, errdefs.Validationf("elevenlabs voice id is required")
	}
	if modelID == "" {
		modelID = "eleven_flash_v2_5"
	}
	applied := RecommendedSettings
	if settings != nil {
		applied = *settings
	}
	return &ElevenLabsSpeaker{
		apiKey:   apiKey,
		voiceID:  voiceID,
		modelID:  modelID,
		settings: applied,
		baseURL:  defaultElevenLabsURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

func (s *ElevenLabsSpeaker) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

func (s *ElevenLabsSpeaker) Speak(ctx context.Context, text string) ([]byte, error) {
	if len(text) > SpeechInputLimit {
		return nil, errdefs.Validationf("chunk of %d chars exceeds the %d character speech input limit", len(text), SpeechInputLimit)
	}

	body, err := json.Marshal(elevenLabsRequest{
		Text:          text,
		ModelID:       s.modelID,
		VoiceSettings: s.settings,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", s.baseURL, s.voiceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", s.apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return nil, errdefs.Upstream("elevenlabs", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio response: %w", err)
	}
	if len(audio) == 0 {
		return nil, errdefs.Upstream("elevenlabs", resp.StatusCode, "empty audio response")
	}
	return audio, nil
}

// Voice describes one ElevenLabs voice.
type Voice struct {
	ID          string `json:"voice_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PreviewURL  string `json:"preview_url,omitempty"`
}

type voicesResponse struct {
	Voices []Voice `json:"voices"`
}

// ListVoices fetches the voices available to the account.
func ListVoices(ctx context.Context, apiKey string) ([]Voice, error) {
	if apiKey == "" {
		return nil, errdefs.Validationf("elevenlabs api key is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, defaultElevenLabsURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("xi-api-key", apiKey)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errdefs.Upstream("elevenlabs", resp.StatusCode, string(respBody))
	}

	var parsed voicesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("parse voices response: %w", err)
	}
	return parsed.Voices, nil
}
