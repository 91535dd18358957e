package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dcunha/narravox/internal/config"
	"github.com/dcunha/narravox/internal/llm"
	"github.com/dcunha/narravox/internal/pipeline"
	"github.com/dcunha/narravox/internal/store"
)

// Server is the HTTP API server for narravox.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	client       *llm.Client
	store        *store.Store
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, client *llm.Client, st *store.Store, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		client:       client,
		store:        st,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/narrate", s.handleNarrate)
		r.Get("/api/narrate/{jobID}/status", s.handleNarrateStatus)
		r.Get("/api/narrate/{jobID}/text", s.handleNarrateText)
		r.Get("/api/narrate/{jobID}/audio", s.handleNarrateAudio)

		r.Post("/api/speech", s.handleSpeech)
		r.Get("/api/voices", s.handleVoices)
		r.Get("/api/profiles", s.handleProfiles)

		r.Get("/api/stats/llm", s.handleLLMStats)

		r.Get("/api/artifacts", s.handleListArtifacts)
		r.Delete("/api/artifacts/{name}", s.handleDeleteArtifact)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
