// Package http connects the UI to an evaluation server and serves what the UI
// produces: exported GeoJSON, the highlighted set and metrics.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/outliner/internal/logging"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/ports"
)

// Highlights exposes the highlighted set.
type Highlights interface {
	Snapshot() map[domain.HighlightKey]int
}

// Server routes requests to the configured services. Routes whose service is not
// configured answer 404.
type Server struct {
	router    chi.Router
	blobs     ports.BlobStore
	ledger    Highlights
	evaluator ports.Evaluator
	startup   *domain.StartupResponse
	metrics   http.Handler
	logger    *slog.Logger
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithBlobs serves exported blobs at GET /blobs/{ref}.
func WithBlobs(s ports.BlobStore) ServerOption {
	return func(srv *Server) {
		srv.blobs = s
	}
}

// WithHighlights serves the highlighted set at GET /highlights.
func WithHighlights(h Highlights) ServerOption {
	return func(srv *Server) {
		srv.ledger = h
	}
}

// WithEvaluator answers POST /ui with e.
func WithEvaluator(e ports.Evaluator) ServerOption {
	return func(srv *Server) {
		srv.evaluator = e
	}
}

// WithStartup answers GET /startup with r.
func WithStartup(r *domain.StartupResponse) ServerOption {
	return func(srv *Server) {
		srv.startup = r
	}
}

// WithMetrics serves h at GET /metrics.
func WithMetrics(h http.Handler) ServerOption {
	return func(srv *Server) {
		srv.metrics = h
	}
}

// WithServerLogger sets the request and error logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(srv *Server) {
		srv.logger = logger
	}
}

// NewHandler creates the HTTP handler.
func NewHandler(opts ...ServerOption) *Server {
	s := &Server{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(enableCORS)

	r.Get("/health", s.handleHealth)
	if s.blobs != nil {
		r.Get("/blobs/{ref}", s.handleBlob)
	}
	if s.ledger != nil {
		r.Get("/highlights", s.handleHighlights)
	}
	if s.evaluator != nil {
		r.Post("/ui", s.handleEvaluate)
	}
	if s.startup != nil {
		r.Get("/startup", s.handleStartup)
	}
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleBlob(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	blob, err := s.blobs.Open(r.Context(), ref)
	if errors.Is(err, domain.ErrBlobNotFound) {
		http.Error(w, "Blob not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to open blob", http.StatusInternalServerError)
		s.logger.Error("Failed to open blob", "ref", ref, "err", err)
		return
	}
	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	if _, err := w.Write(blob.Data); err != nil {
		s.logger.Warn("Blob write failed", "ref", ref, "err", err)
	}
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, s.ledger.Snapshot())
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req domain.EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Evaluate: Invalid request body", "err", err)
		return
	}
	resp, err := s.evaluator.Evaluate(r.Context(), req)
	if errors.Is(err, domain.ErrEvaluationRejected) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, "Evaluation failed", http.StatusInternalServerError)
		s.logger.Error("Evaluate failed", "err", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, resp)
}

func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, http.StatusOK, s.startup)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", middleware.GetReqID(r.Context()),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
