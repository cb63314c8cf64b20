package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/lcm/internal/dto"
	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/registry"
	"github.com/aretw0/lcm/pkg/runner"
)

// Server exposes modes and runs over HTTP.
type Server struct {
	runner  *runner.Runner
	streams *StreamManager
	metrics http.Handler
	version string
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithStreams enables GET /events, fed by the given manager.
// The same manager's Hooks must be installed on the engine.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) { s.streams = sm }
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for r.
func NewHandler(r *runner.Runner, opts ...Option) http.Handler {
	s := &Server{
		runner:  r,
		version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := chi.NewRouter()
	mux.Get("/healthz", s.GetHealth)
	mux.Get("/info", s.GetInfo)

	mux.Route("/modes", func(rt chi.Router) {
		rt.Get("/", s.ListModes)
		rt.Get("/{mode}", s.GetMode)
		rt.Post("/{mode}/runs", s.CreateRun)
	})

	mux.Route("/runs", func(rt chi.Router) {
		rt.Get("/", s.ListRuns)
		rt.Get("/{id}", s.GetRun)
		rt.Delete("/{id}", s.DeleteRun)
	})

	if s.streams != nil {
		mux.Get("/events", s.SubscribeEvents)
	}
	if s.metrics != nil {
		mux.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return enableCORS(mux)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registry() *registry.Registry {
	return s.runner.Engine().Registry()
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "lcm-http",
		"version": s.version,
	})
}

// ListModes handles GET /modes.
func (s *Server) ListModes(w http.ResponseWriter, r *http.Request) {
	modes := s.registry().Modes()
	out := make([]dto.ModeSummary, len(modes))
	for i, m := range modes {
		out[i] = dto.Summarize(m)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetMode handles GET /modes/{mode}.
func (s *Server) GetMode(w http.ResponseWriter, r *http.Request) {
	m, err := s.registry().Mode(chi.URLParam(r, "mode"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, dto.Describe(m))
}

// CreateRun handles POST /modes/{mode}/runs.
// The optional body is a JSON object of initial parameters.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var params map[string]any
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid request body: %v", err)})
		s.logger.Warn("CreateRun: invalid request body", "error", err)
		return
	}

	mode := chi.URLParam(r, "mode")
	rec, err := s.runner.Run(r.Context(), mode, params)
	if err != nil {
		var actionErr *domain.ActionError
		if rec != nil && errors.As(err, &actionErr) {
			s.logger.Info("run failed", "mode", mode, "run_id", rec.ID, "action", actionErr.Action, "error", err)
			s.writeJSON(w, http.StatusUnprocessableEntity, rec)
			return
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

// ListRuns handles GET /runs, oldest first.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	store := s.runner.Store()
	if store == nil {
		s.writeJSON(w, http.StatusNotImplemented, errorBody{Error: "no run store configured"})
		return
	}

	ids, err := store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]dto.RunSummary, 0, len(ids))
	for _, id := range ids {
		rec, err := store.Load(r.Context(), id)
		if errors.Is(err, domain.ErrRunNotFound) {
			continue // deleted or expired since List
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		out = append(out, dto.SummarizeRun(rec))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetRun handles GET /runs/{id}.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	store := s.runner.Store()
	if store == nil {
		s.writeJSON(w, http.StatusNotImplemented, errorBody{Error: "no run store configured"})
		return
	}
	rec, err := store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// DeleteRun handles DELETE /runs/{id}.
func (s *Server) DeleteRun(w http.ResponseWriter, r *http.Request) {
	store := s.runner.Store()
	if store == nil {
		s.writeJSON(w, http.StatusNotImplemented, errorBody{Error: "no run store configured"})
		return
	}
	if err := store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type errorBody struct {
	Error string   `json:"error"`
	Valid []string `json:"valid,omitempty"`
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var unknown *domain.UnknownModeError
	switch {
	case errors.As(err, &unknown):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Valid: unknown.Valid})
	case errors.Is(err, domain.ErrRunNotFound):
		s.writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, domain.ErrLocked):
		s.writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		s.logger.Error("request failed", "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
