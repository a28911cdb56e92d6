// Package http exposes a definition-driven machine over a small JSON API.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/lattice"
	"github.com/go-chi/chi/v5"
)

// Engine is the surface the handler needs from a running machine.
type Engine interface {
	Dispatch(event string) (lattice.Result, error)
	State() string
	Events() []string
	Available() []string
	DOT() string
	Mermaid() string
}

// Server serves one machine instance. Handlers serialize dispatches with a
// mutex since the engine itself is not safe for concurrent use.
type Server struct {
	mu      sync.Mutex
	engine  Engine
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts a handler at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/state", s.getState)
	r.Get("/events", s.getEvents)
	r.Get("/graph", s.getGraph)
	r.Post("/dispatch", s.postDispatch)
	if s.metrics != nil {
		r.Get("/metrics", s.metrics.ServeHTTP)
	}
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// DispatchRequest is the body of POST /dispatch.
type DispatchRequest struct {
	Event string `json:"event"`
}

// DispatchResponse reports the dispatch outcome and the resulting state.
type DispatchResponse struct {
	Result string `json:"result"`
	State  string `json:"state"`
}

func (s *Server) postDispatch(w http.ResponseWriter, r *http.Request) {
	var body DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Dispatch: Invalid request body", "error", err)
		return
	}
	if body.Event == "" {
		http.Error(w, "Missing event", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	result, err := s.engine.Dispatch(body.Event)
	state := s.engine.State()
	s.mu.Unlock()

	if err != nil {
		http.Error(w, fmt.Sprintf("Dispatch error: %v", err), http.StatusBadRequest)
		s.logger.Warn("Dispatch failed", "event", body.Event, "error", err)
		return
	}

	s.logger.Debug("Dispatch handled", "event", body.Event, "result", result, "state", state)
	writeJSON(w, s.logger, DispatchResponse{
		Result: result.String(),
		State:  state,
	})
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	state := s.engine.State()
	available := s.engine.Available()
	s.mu.Unlock()

	writeJSON(w, s.logger, map[string]any{
		"state":     state,
		"available": available,
	})
}

func (s *Server) getEvents(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	events := s.engine.Events()
	s.mu.Unlock()

	writeJSON(w, s.logger, map[string][]string{"events": events})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "dot"
	}

	s.mu.Lock()
	var graph string
	switch format {
	case "dot":
		graph = s.engine.DOT()
	case "mermaid":
		graph = s.engine.Mermaid()
	}
	s.mu.Unlock()

	if graph == "" {
		http.Error(w, "Unknown format: expected dot or mermaid", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "lattice-http",
		"version": strings.TrimSpace(lattice.Version),
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
