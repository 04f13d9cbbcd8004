package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/versefix/internal/config"
	"github.com/dgallion1/versefix/internal/pipeline"
	"github.com/dgallion1/versefix/internal/scan"
)

// Server is the HTTP API server for versefix.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	scanner      *scan.Scanner
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		scanner:      orch.Runner().Scanner(orch.Analysis()),
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
		r.Use(AuthMiddleware(s.cfg.VersefixAPIKey, s.log))

		r.Get("/api/words/{word}", s.handleWord)

		r.Post("/api/scans", s.handleScan)
		r.Post("/api/scans/batch", s.handleBatchScan)
		r.Get("/api/scans/{jobID}", s.handleScanStatus)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
