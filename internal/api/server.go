// Package api exposes the retrieval pipeline over HTTP with JSON
// request/response bodies.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/stayscout/listingrag/internal/observability"
	"github.com/stayscout/listingrag/internal/rag"
	"github.com/stayscout/listingrag/internal/vector"
)

// ServiceName identifies this service in health responses.
const ServiceName = "rag-system"

// Service is the pipeline surface the handlers need. *rag.Pipeline
// implements it; tests substitute fakes.
type Service interface {
	Search(ctx context.Context, query string, topK int) ([]vector.SearchResult, error)
	SearchWithAnswer(ctx context.Context, query string, topK int) (*rag.Answer, error)
	Ingest(ctx context.Context) (int, error)
	Info(ctx context.Context) (*rag.CollectionInfo, error)
	GeneratorStatus() *rag.Status
}

// Config holds API server configuration.
type Config struct {
	ListenAddr string // e.g. ":8000"
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{ListenAddr: ":8000"}
}

// Server is the service's HTTP server. The pipeline is injected at
// construction; handlers hold no package-level state.
type Server struct {
	config  *Config
	service Service
	log     *slog.Logger
	server  *http.Server
}

// NewServer creates the API server around an injected Service.
func NewServer(config *Config, service Service, log *slog.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		config:  config,
		service: service,
		log:     log,
	}

	s.server = &http.Server{
		Addr:         config.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the full route table wrapped in middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/info", s.handleInfo)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/load-documents", s.handleLoadDocuments)
	mux.HandleFunc("/search-with-llm", s.handleSearchWithLLM)
	mux.HandleFunc("/llm-status", s.handleLLMStatus)
	mux.HandleFunc("/sample-queries", s.handleSampleQueries)

	return corsMiddleware(s.loggingMiddleware(tracingMiddleware(mux)))
}

// Start begins serving. Blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("starting API server", "addr", s.config.ListenAddr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping API server")
	return s.server.Shutdown(ctx)
}

// respondJSON writes a JSON response with the given status.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", "error", err)
	}
}

// respondError maps an error to the contract: validation failures
// surface verbatim as 400; everything else is a generic 500 with the
// detail kept in the logs.
func (s *Server) respondError(w http.ResponseWriter, err error, genericDetail string) {
	if rag.IsValidation(err) {
		s.respondJSON(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
		return
	}
	s.log.Error("request failed", "error", err)
	s.respondJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: genericDetail})
}

// corsMiddleware adds CORS headers for browser clients.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// tracingMiddleware opens a span per request.
func tracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := observability.StartPipelineSpan(r.Context(), "http "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
