package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dcunha/narravox/internal/extract"
	"github.com/dcunha/narravox/internal/llm"
	"github.com/dcunha/narravox/internal/pipeline"
	"github.com/dcunha/narravox/internal/prompts"
	"github.com/dcunha/narravox/internal/store"
)

// handleNarrate accepts a document upload (or a raw "text" form field) and
// queues a narration job.
func (s *Server) handleNarrate(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	filename, data, ok := s.readSubmission(w, r)
	if !ok {
		return
	}

	job := pipeline.NewJob(filename, data)
	job.Title = r.FormValue("title")
	job.Target = s.targetFromForm(r)

	job.PromptProfile = r.FormValue("profile")
	if job.PromptProfile != "" && !prompts.Exists(job.PromptProfile) {
		jsonError(w, fmt.Sprintf("unknown profile: %s", job.PromptProfile), http.StatusBadRequest)
		return
	}

	job.ChunkWords = s.cfg.ChunkWords
	if v := r.FormValue("chunk_words"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			job.ChunkWords = n
		}
	}

	job.WantAudio = r.FormValue("audio") == "true"
	job.SpeechProvider = r.FormValue("speech_provider")
	job.SpeechVoice = r.FormValue("voice")
	job.SpeechModel = r.FormValue("speech_model")

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/narrate/%s/status", job.ID),
	})
}

// readSubmission pulls the document out of the form: an uploaded file, or
// inline text treated as a plain text document.
func (s *Server) readSubmission(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		if text := r.FormValue("text"); text != "" {
			return "submission.txt", []byte(text), true
		}
		jsonError(w, "file or text is required", http.StatusBadRequest)
		return "", nil, false
	}
	defer file.Close()

	filename := store.Sanitize(header.Filename)
	if !extract.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return "", nil, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return "", nil, false
	}
	return filename, data, true
}

func (s *Server) targetFromForm(r *http.Request) llm.Target {
	target := llm.Target{
		Provider: llm.ProviderNative,
		Model:    s.cfg.TextModel,
	}
	if r.FormValue("provider") == string(llm.ProviderGateway) {
		target.Provider = llm.ProviderGateway
	}
	if m := r.FormValue("model"); m != "" {
		target.Model = m
	}
	if r.FormValue("thinking") == "true" {
		target.ExtendedThinking = true
		target.ThinkingBudget = s.cfg.ThinkingBudgetTokens
		if v := r.FormValue("thinking_budget"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				target.ThinkingBudget = n
			}
		}
	}
	return target
}

func (s *Server) handleNarrateStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleNarrateText(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.TextArtifact == "" {
		jsonError(w, fmt.Sprintf("narrative not ready (status %s)", snap.Status), http.StatusConflict)
		return
	}
	data, err := s.store.Read(snap.TextArtifact)
	if err != nil {
		jsonError(w, "narrative artifact unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleNarrateAudio(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.AudioArtifact == "" {
		jsonError(w, fmt.Sprintf("audio not ready (status %s)", snap.Status), http.StatusConflict)
		return
	}
	data, err := s.store.Read(snap.AudioArtifact)
	if err != nil {
		jsonError(w, "audio artifact unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snap.AudioArtifact))
	w.Write(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
