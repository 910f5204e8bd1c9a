package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/stayscout/listingrag/internal/api"
	"github.com/stayscout/listingrag/internal/chunker"
	"github.com/stayscout/listingrag/internal/config"
	"github.com/stayscout/listingrag/internal/llm"
	"github.com/stayscout/listingrag/internal/llm/mistral"
	"github.com/stayscout/listingrag/internal/llm/openai"
	"github.com/stayscout/listingrag/internal/observability"
	"github.com/stayscout/listingrag/internal/rag"
	"github.com/stayscout/listingrag/internal/server"
	"github.com/stayscout/listingrag/internal/vector"
)

func main() {
	var (
		configPath string
		listenAddr string
	)

	rootCmd := &cobra.Command{
		Use:   "listingrag",
		Short: "Retrieval-augmented question answering over an apartment listing",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath, listenAddr)
		},
	}
	serveCmd.Flags().StringVar(&configPath, "config", "", "Config file path (optional)")
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address override (e.g. :8000)")

	providersCmd := &cobra.Command{
		Use:   "providers",
		Short: "List available LLM providers",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available LLM providers:")
			fmt.Println()
			for name, url := range llm.KnownProviders {
				fmt.Printf("  %-14s %s\n", name, url)
			}
			fmt.Println("  custom         (set base_url to any OpenAI-compatible endpoint)")
			fmt.Println()
			fmt.Println("Configure in a config file or via environment:")
			fmt.Println("  LISTINGRAG_LLM_PROVIDER=mistral")
			fmt.Println("  LISTINGRAG_LLM_API_KEY=...")
			fmt.Println("  LISTINGRAG_LLM_MODEL=mistral-large-latest")
		},
	}

	rootCmd.AddCommand(serveCmd, providersCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(configPath, listenAddr string) error {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}

	log := buildLogger(cfg.Log)
	slog.SetDefault(log)

	if cfg.LLM.APIKey == "" && cfg.LLM.Provider != "none" {
		return fmt.Errorf("LLM api_key is required (set LISTINGRAG_LLM_API_KEY)")
	}

	ctx := context.Background()

	tracing, err := observability.InitTracing(ctx, &observability.TracingConfig{
		ServiceName:    "listingrag",
		ServiceVersion: "0.1.0",
		OTLPEndpoint:   cfg.Tracing.Endpoint,
		SampleRate:     1.0,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	provider, err := buildProvider(cfg.LLM)
	if err != nil {
		return fmt.Errorf("create LLM provider: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("an embedding provider is required; provider %q resolves to none", cfg.LLM.Provider)
	}

	store, err := vector.NewQdrant(ctx, cfg.Vector.Host, cfg.Vector.Port, cfg.Vector.Collection)
	if err != nil {
		return fmt.Errorf("connect to qdrant: %w", err)
	}

	if err := store.EnsureCollection(ctx, cfg.Vector.Dimension); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	pipeline, err := rag.New(rag.Config{
		Store:      store,
		Provider:   provider,
		Chunker:    chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap),
		Generator:  rag.NewGenerator(provider, cfg.LLM.Model),
		Collection: cfg.Vector.Collection,
		SourcePath: cfg.Ingest.SourcePath,
		Logger:     log,
	})
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	// Ingest the source document on startup, but only into an empty
	// collection. POST /load-documents forces a re-ingest later.
	if _, statErr := os.Stat(cfg.Ingest.SourcePath); statErr == nil {
		n, skipped, err := pipeline.IngestIfEmpty(ctx)
		switch {
		case err != nil:
			return fmt.Errorf("initial ingest: %w", err)
		case skipped:
			log.Info("collection already populated, skipping ingest", "collection", cfg.Vector.Collection)
		default:
			log.Info("ingested source document", "chunks", n, "source", cfg.Ingest.SourcePath)
		}
	} else {
		log.Warn("source document not found, starting with existing collection", "path", cfg.Ingest.SourcePath)
	}

	apiServer := api.NewServer(&api.Config{ListenAddr: cfg.Server.ListenAddr}, pipeline, log)

	shutdown := server.NewShutdownHandler(nil, log)
	shutdown.RegisterHooks(
		server.APIServerShutdownHook(apiServer.Stop),
		server.TracingShutdownHook(tracing.Shutdown),
		server.VectorStoreShutdownHook(store.Close),
	)
	shutdown.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	select {
	case err := <-errCh:
		shutdown.Shutdown()
		shutdown.Wait()
		return err
	case <-shutdown.Done():
		return nil
	}
}

// buildProvider registers the known constructors and creates the
// configured provider, wrapped with retry and rate limiting.
func buildProvider(cfg config.LLMConfig) (llm.Provider, error) {
	factory := llm.NewFactory()

	factory.Register("mistral", func(pc llm.ProviderConfig) (llm.Provider, error) {
		return mistral.New(pc.APIKey, pc.Model, pc.BaseURL, pc.EmbedModel), nil
	})

	// Everything else speaks the OpenAI-compatible wire format.
	openAICompatible := func(pc llm.ProviderConfig) (llm.Provider, error) {
		baseURL := pc.BaseURL
		if baseURL == "" {
			baseURL = llm.KnownProviders[pc.Provider]
		}
		return openai.New(pc.APIKey, pc.Model, baseURL, pc.EmbedModel), nil
	}
	for name := range llm.KnownProviders {
		if name == "mistral" {
			continue
		}
		factory.Register(name, openAICompatible)
	}
	factory.Register("custom", func(pc llm.ProviderConfig) (llm.Provider, error) {
		if pc.BaseURL == "" {
			return nil, fmt.Errorf("custom provider requires base_url")
		}
		return openai.New(pc.APIKey, pc.Model, pc.BaseURL, pc.EmbedModel), nil
	})

	providerCfg := llm.DefaultProviderConfig()
	providerCfg.Provider = cfg.Provider
	providerCfg.APIKey = cfg.APIKey
	providerCfg.Model = cfg.Model
	providerCfg.BaseURL = cfg.BaseURL
	providerCfg.EmbedModel = cfg.EmbedModel
	// Request policy comes from config; the registered defaults match
	// DefaultProviderConfig, so explicit zeros disable a decorator.
	providerCfg.Timeout = cfg.Timeout
	providerCfg.MaxRetries = cfg.MaxRetries
	providerCfg.RetryDelay = cfg.RetryDelay
	providerCfg.RequestsPerMinute = cfg.RequestsPerMinute

	return factory.Create(providerCfg)
}

func buildLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
