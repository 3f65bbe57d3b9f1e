// Package app provides application initialization and dependency wiring.
//
// App is the container that assembles the pipeline: Genkit runtime, embedding
// gateway, vector index client, document loaders, RAG services, and the HTTP
// server. Construction is fail-fast; Run blocks until the context is
// cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/raggerhq/ragger/internal/api"
	"github.com/raggerhq/ragger/internal/auth"
	"github.com/raggerhq/ragger/internal/collection"
	"github.com/raggerhq/ragger/internal/config"
	"github.com/raggerhq/ragger/internal/document"
	"github.com/raggerhq/ragger/internal/embedding"
	"github.com/raggerhq/ragger/internal/rag"
	"github.com/raggerhq/ragger/internal/vectorindex"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Genkit *genkit.Genkit
	Server *api.Server

	logger *slog.Logger
	cancel context.CancelFunc
}

// New builds the application from configuration. The GEMINI_API_KEY
// environment variable is read by the Genkit Google AI plugin directly.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(ctx)

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		cancel()
		return nil, fmt.Errorf("initializing genkit runtime")
	}

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	gateway := embedding.NewGateway(embedder, logger)

	index := vectorindex.New(vectorindex.Config{
		URL:    cfg.QdrantURL,
		APIKey: cfg.QdrantAPIKey,
	}, logger)

	locks := collection.NewLocks()
	manager := collection.NewManager(index, locks, logger)

	generator := rag.NewGenkitGenerator(g, cfg.FullChatModelName())
	ingestor := rag.NewIngestor(gateway, index, locks, logger)
	answerer := rag.NewAnswerer(gateway, index, generator, logger)
	summarizer := rag.NewSummarizer(gateway, index, generator, logger)

	crawler := document.NewCrawler(cfg.CrawlTimeout)
	verifier := auth.NewVerifier([]byte(cfg.JWTSecret))

	server := api.NewServer(api.ServerConfig{
		Logger:      logger,
		Ingestor:    ingestor,
		Crawler:     crawler,
		Answerer:    answerer,
		Summarizer:  summarizer,
		Collections: manager,
		Verifier:    verifier,
	})

	return &App{
		Config: cfg,
		Genkit: g,
		Server: server,
		logger: logger,
		cancel: cancel,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("ragger starting",
		"addr", a.Config.ListenAddr,
		"embedder_model", a.Config.EmbedderModel,
		"chat_model", a.Config.ChatModel)
	if err := a.Server.Run(ctx, a.Config.ListenAddr); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close releases application resources.
func (a *App) Close() error {
	a.logger.Info("shutting down application")
	if a.cancel != nil {
		a.cancel()
	}
	return nil
}
