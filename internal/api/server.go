// Package api provides the HTTP REST API for Ragger.
//
// Endpoints:
//
//	POST /api/index            → ingest text, file, or crawled URL content
//	POST /api/chat             → grounded question answering
//	POST /api/summary          → summarize indexed content
//	POST /api/createCollection → create a per-user collection (bearer token)
//	POST /api/clearIndex       → reset a collection
//	GET  /health               → liveness probe
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (logging, recovery)
//   - index.go: ingestion endpoint
//   - chat.go, summary.go: retrieval endpoints
//   - collections.go: collection management endpoints
//   - health.go: liveness probe
//   - response.go: JSON response helpers
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/raggerhq/ragger/internal/document"
	"github.com/raggerhq/ragger/internal/rag"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = ":8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout bounds request header reads (Slowloris protection).
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading an entire request,
	// uploads included.
	ReadTimeout = 60 * time.Second

	// WriteTimeout is the maximum duration for writing the response. Crawl
	// plus embedding can take a while on large sites.
	WriteTimeout = 180 * time.Second

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout = 120 * time.Second

	// DefaultMaxUploadBytes caps multipart upload size.
	DefaultMaxUploadBytes = 25 << 20 // 25 MiB

	// DefaultRequestBudget bounds the whole ingest pipeline for one request:
	// crawl, embed, and upsert together.
	DefaultRequestBudget = 120 * time.Second
)

// Ingestor writes chunks into a named collection.
type Ingestor interface {
	Ingest(ctx context.Context, collectionName string, chunks []document.Chunk) (int, error)
}

// Crawler loads chunks from a start URL.
type Crawler interface {
	Load(ctx context.Context, rawURL string) ([]document.Chunk, error)
}

// Answerer answers a query against a named collection.
type Answerer interface {
	Answer(ctx context.Context, collectionName, query string) (*rag.Answer, error)
}

// Summarizer summarizes the indexed content closest to a query.
type Summarizer interface {
	Summarize(ctx context.Context, collectionName, query string) (string, error)
}

// Collections creates and clears collections.
type Collections interface {
	Create(ctx context.Context, userID, projectName string) (string, error)
	Clear(ctx context.Context, name string) error
}

// TokenVerifier authenticates bearer tokens and returns the user ID.
type TokenVerifier interface {
	ParseBearer(header string) (string, error)
}

// ServerConfig contains everything the server needs. Logger, MaxUploadBytes
// and RequestBudget are optional; the rest are required.
type ServerConfig struct {
	Logger         *slog.Logger
	Ingestor       Ingestor
	Crawler        Crawler
	Answerer       Answerer
	Summarizer     Summarizer
	Collections    Collections
	Verifier       TokenVerifier
	MaxUploadBytes int64
	RequestBudget  time.Duration
}

// Server is the HTTP server for Ragger's REST API.
type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
}

// NewServer creates a new HTTP server with all routes registered.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.RequestBudget <= 0 {
		cfg.RequestBudget = DefaultRequestBudget
	}

	mux := http.NewServeMux()

	ih := &indexHandler{
		ingestor:  cfg.Ingestor,
		crawler:   cfg.Crawler,
		maxUpload: cfg.MaxUploadBytes,
		budget:    cfg.RequestBudget,
		logger:    logger,
	}
	ch := &chatHandler{answerer: cfg.Answerer, logger: logger}
	sh := &summaryHandler{summarizer: cfg.Summarizer, logger: logger}
	col := &collectionHandler{collections: cfg.Collections, verifier: cfg.Verifier, logger: logger}

	mux.HandleFunc("POST /api/index", ih.index)
	mux.HandleFunc("POST /api/chat", ch.chat)
	mux.HandleFunc("POST /api/summary", sh.summary)
	mux.HandleFunc("POST /api/createCollection", col.create)
	mux.HandleFunc("POST /api/clearIndex", col.clear)
	mux.HandleFunc("GET /health", health)

	return &Server{mux: mux, logger: logger}
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → handler.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware(s.logger), loggingMiddleware(s.logger))
}

// Run starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
