package api

import (
	"encoding/json"
	"net/http"

	"github.com/dcunha/narravox/internal/errdefs"
	"github.com/dcunha/narravox/internal/prompts"
	"github.com/dcunha/narravox/internal/tts"
)

type speechRequest struct {
	Text     string             `json:"text"`
	Provider string             `json:"provider,omitempty"`
	Voice    string             `json:"voice,omitempty"`
	Model    string             `json:"model,omitempty"`
	Settings *tts.VoiceSettings `json:"voice_settings,omitempty"`
}

// handleSpeech synthesizes short texts synchronously and returns MP3
// bytes. Long documents should go through /api/narrate with audio=true.
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	speaker, err := s.speakerFor(req.Provider, req.Voice, req.Model, req.Settings)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	syn := tts.NewSynthesizer(speaker, s.cfg.TTSChunkChars)
	audio, err := syn.Synthesize(r.Context(), req.Text, nil)
	if err != nil {
		s.log.Error("speech synthesis failed", "error", err)
		switch {
		case errdefs.IsValidation(err):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errdefs.IsUpstream(err):
			jsonError(w, err.Error(), http.StatusBadGateway)
		default:
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(audio)
}

func (s *Server) speakerFor(provider, voice, model string, settings *tts.VoiceSettings) (tts.Speaker, error) {
	switch provider {
	case "elevenlabs":
		if voice == "" {
			voice = s.cfg.ElevenLabsVoiceID
		}
		return tts.NewElevenLabsSpeaker(s.cfg.ElevenLabsAPIKey, voice, model, settings)
	case "", "openai":
		return tts.NewOpenAISpeaker(s.cfg.OpenAIAPIKey, model, voice)
	default:
		return nil, errdefs.Validationf("unknown speech provider: %s", provider)
	}
}

func (s *Server) handleVoices(w http.ResponseWriter, r *http.Request) {
	voices, err := tts.ListVoices(r.Context(), s.cfg.ElevenLabsAPIKey)
	if err != nil {
		if errdefs.IsValidation(err) {
			jsonError(w, err.Error(), http.StatusBadRequest)
		} else {
			jsonError(w, err.Error(), http.StatusBadGateway)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"voices": voices})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"default":  prompts.DefaultProfile,
		"profiles": prompts.List(),
	})
}
