// Package server exposes the generator over HTTP: generation on demand,
// the catalog of past runs, and the biome tables.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/graywick/mapforge/internal/metrics"
	"github.com/graywick/mapforge/internal/storage"
	"github.com/graywick/mapforge/pkg/biome"
)

// Server wires the generator to its catalog and metrics sinks.
type Server struct {
	log     zerolog.Logger
	store   storage.Backend
	metrics metrics.Recorder
	biomes  *biome.Table
}

// New creates a server around the given backends.
func New(log zerolog.Logger, store storage.Backend, rec metrics.Recorder) *Server {
	return &Server{
		log:     log,
		store:   store,
		metrics: rec,
		biomes:  biome.Builtin(),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Get("/maps", s.handleListMaps)
		r.Get("/maps/{id}", s.handleGetMap)
		r.Get("/biomes", s.handleBiomes)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// Start listens on addr until the listener fails.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("http server starting")
	return http.ListenAndServe(addr, s.Router())
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Warn().Err(err).Msg("encoding response")
	}
}

// respondError writes an error JSON response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
