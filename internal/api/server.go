// Package api exposes the rendering pipeline over HTTP.
package api

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/labelpress/labelpress/pkg/cache"
	"github.com/labelpress/labelpress/pkg/pipeline"
)

// Server handles render requests. Responses for the idempotent modes
// (embedded, preview) are cached by request content; token mode mints
// fresh identifiers and always renders.
type Server struct {
	runner    *pipeline.Runner
	artifacts cache.Cache
	logger    *log.Logger
}

// NewServer creates a server. A nil artifact cache disables caching.
func NewServer(runner *pipeline.Runner, artifacts cache.Cache, logger *log.Logger) *Server {
	if artifacts == nil {
		artifacts = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{runner: runner, artifacts: artifacts, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/labels/render", s.handleRenderLabel)
		r.Post("/sheets/render", s.handleRenderSheets)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
