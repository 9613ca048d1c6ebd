// Package server exposes the analysis pipeline over HTTP: synchronous and
// asynchronous analysis endpoints plus a polling state machine for async
// results.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/sitelens/sitelens/internal/model"
)

// Runner executes one analysis. Satisfied by pipeline.Orchestrator.
type Runner interface {
	Run(ctx context.Context, rawInput string) (*model.CombinedReport, error)
}

// Version is stamped into health responses by the CLI layer.
var Version = "dev"

// Server is the HTTP front end.
type Server struct {
	runner Runner
	store  *analysisStore
	logger *slog.Logger
	router chi.Router

	// asyncTimeout bounds background analyses, which have no client
	// connection whose disconnect would cancel them.
	asyncTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithAsyncTimeout bounds background analysis runs.
func WithAsyncTimeout(d time.Duration) Option {
	return func(s *Server) { s.asyncTimeout = d }
}

// New creates a Server around the given runner.
func New(runner Runner, opts ...Option) *Server {
	s := &Server{
		runner:       runner,
		store:        newAnalysisStore(),
		logger:       slog.Default(),
		asyncTimeout: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/analyze/async", s.handleAnalyzeAsync)
	r.Get("/analyze/{analysis_id}", s.handleStatus)
	r.Delete("/analyze/{analysis_id}", s.handleDelete)

	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// analysisRequest is the request body for both analyze endpoints. The
// input field accepts either a JSON string (URL, HTML, natural-language
// prompt) or a structured object with url/html/screenshot fields.
type analysisRequest struct {
	Input json.RawMessage `json:"input"`
}

// rawInput flattens the input field to the string form the classifier
// expects: JSON strings are unquoted, objects pass through as JSON text.
func (r *analysisRequest) rawInput() (string, bool) {
	if len(r.Input) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(r.Input, &s); err == nil {
		return s, s != ""
	}

	var obj map[string]any
	if err := json.Unmarshal(r.Input, &obj); err == nil {
		return string(r.Input), true
	}
	return "", false
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encoding failed", "error", err)
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"name":    "sitelens",
		"version": Version,
		"endpoints": map[string]string{
			"analyze":       "/analyze",
			"analyze_async": "/analyze/async",
			"status":        "/analyze/{analysis_id}",
			"health":        "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return "", false
	}

	raw, ok := req.rawInput()
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "input field is required"})
		return "", false
	}
	return raw, true
}

// handleAnalyze runs the analysis synchronously within the request.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	id := uuid.NewString()
	s.store.put(id, StatusProcessing)

	s.logger.Info("synchronous analysis started", "analysis_id", id)

	report, err := s.runner.Run(r.Context(), raw)
	if err != nil {
		s.store.fail(id, err.Error())
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"analysis_id": id,
			"status":      StatusError,
			"error":       err.Error(),
		})
		return
	}

	s.store.complete(id, report)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"analysis_id": id,
		"status":      StatusCompleted,
		"result":      report,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// handleAnalyzeAsync queues the analysis and returns immediately with an
// id for polling.
func (s *Server) handleAnalyzeAsync(w http.ResponseWriter, r *http.Request) {
	raw, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}

	id := uuid.NewString()
	s.store.put(id, StatusPending)

	go s.runAsync(id, raw)

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"analysis_id": id,
		"status":      StatusPending,
		"message":     "Analysis started. Use GET /analyze/" + id + " to check status.",
	})
}

// runAsync executes a background analysis with its own timeout; the
// originating request's context is already gone.
func (s *Server) runAsync(id, raw string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.asyncTimeout)
	defer cancel()

	s.store.setProcessing(id)
	s.logger.Info("async analysis started", "analysis_id", id)

	report, err := s.runner.Run(ctx, raw)
	if err != nil {
		s.logger.Warn("async analysis failed", "analysis_id", id, "error", err)
		s.store.fail(id, err.Error())
		return
	}

	s.store.complete(id, report)
	s.logger.Info("async analysis completed", "analysis_id", id)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "analysis_id")

	rec, ok := s.store.get(id)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "analysis ID not found"})
		return
	}

	resp := map[string]any{
		"analysis_id": id,
		"status":      rec.Status,
		"timestamp":   rec.Timestamp.Format(time.RFC3339),
	}
	if rec.Result != nil {
		resp["result"] = rec.Result
	}
	if rec.Error != "" {
		resp["error"] = rec.Error
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "analysis_id")

	if !s.store.delete(id) {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: "analysis ID not found"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Analysis " + id + " deleted successfully",
	})
}

// ListenAndServe runs the HTTP server until the context is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
