// Package api implements the HTTP server exposing grid workspaces.
//
// The server keeps grids in a [session.Store], runs structural analysis
// through a shared [pipeline.Runner], and drives the nested-grid protocol.
// All mutations go through the store's Update method, so concurrent
// requests against one workspace serialize and multi-step operations like
// enter/leave stay atomic.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Textrux/textrux/pkg/pipeline"
	"github.com/Textrux/textrux/pkg/session"
)

// Server wires the workspace store and analysis runner into an HTTP API.
type Server struct {
	store  session.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server. A nil logger falls back to the default
// logger.
func NewServer(store session.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: store, runner: runner, logger: logger}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Route("/api/grids", func(r chi.Router) {
		r.Post("/", s.handleCreateGrid)
		r.Get("/", s.handleListGrids)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGrid)
			r.Delete("/", s.handleDeleteGrid)
			r.Post("/cells", s.handleSetCells)
			r.Get("/analysis", s.handleAnalysis)
			r.Get("/render", s.handleRender)
			r.Post("/enter", s.handleEnter)
			r.Post("/leave", s.handleLeave)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// logRequests logs one line per request with method, path, status, and
// duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}
