// Package httpapi serves a read-only inspection API over a graph factory
// and its definition source: graph listings, per-graph topology, Mermaid
// diagrams, and aggregated runtime stats.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hexislab/patchbay/internal/dto"
	"github.com/hexislab/patchbay/internal/logging"
	presentation "github.com/hexislab/patchbay/internal/presentation/graph"
	"github.com/hexislab/patchbay/pkg/factory"
	"github.com/hexislab/patchbay/pkg/graphdef"
	"github.com/hexislab/patchbay/pkg/observability"
	"github.com/hexislab/patchbay/pkg/ports"
)

// Server answers the inspection routes. All routes are GET; the API never
// mutates the source or the factory cache.
type Server struct {
	factory *factory.Factory
	stats   *observability.Aggregator
	log     *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithStats attaches an aggregator behind GET /v1/stats.
func WithStats(agg *observability.Aggregator) Option {
	return func(s *Server) {
		s.stats = agg
	}
}

// WithLogger sets the logger for request-handling warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewHandler creates the HTTP handler for the inspection API.
func NewHandler(f *factory.Factory, opts ...Option) http.Handler {
	s := &Server{factory: f, log: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/graphs", s.listGraphs)
		r.Get("/graphs/{name}", s.getGraph)
		r.Get("/graphs/{name}/mermaid", s.getMermaid)
		r.Get("/stats", s.getStats)
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) listGraphs(w http.ResponseWriter, r *http.Request) {
	names, err := s.factory.Source().List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, dto.GraphList{Graphs: names})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	def, ok := s.loadDefinition(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, dto.FromDefinition(def))
}

func (s *Server) getMermaid(w http.ResponseWriter, r *http.Request) {
	def, ok := s.loadDefinition(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(presentation.Mermaid(def))); err != nil {
		s.log.Warn("mermaid response write failed", "error", err)
	}
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.writeError(w, http.StatusNotFound, "stats are not enabled")
		return
	}
	s.writeJSON(w, http.StatusOK, s.stats.Snapshot())
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) loadDefinition(w http.ResponseWriter, r *http.Request) (*graphdef.Definition, bool) {
	name := chi.URLParam(r, "name")
	def, err := s.factory.Source().Load(r.Context(), name)
	if errors.Is(err, ports.ErrDefinitionNotFound) {
		s.writeError(w, http.StatusNotFound, "no graph named "+name)
		return nil, false
	}
	if err != nil {
		s.log.Warn("definition load failed", "graph", name, "error", err)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return def, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, dto.Error{Error: msg})
}
