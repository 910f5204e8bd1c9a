// Package rag implements the retrieval-augmented answering pipeline:
// chunking and indexing at ingestion time, embed, similarity search,
// prompt construction and answer generation at query time.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/stayscout/listingrag/internal/chunker"
	"github.com/stayscout/listingrag/internal/llm"
	"github.com/stayscout/listingrag/internal/observability"
	"github.com/stayscout/listingrag/internal/vector"
)

// Result-count bounds per operation. Plain retrieval is cheap and
// allows up to 10; answer generation pays per passage and caps at 5.
const (
	MaxSearchResults = 10
	MaxAnswerResults = 5
	DefaultResults   = 5
)

// FallbackAnswer is returned in place of a generated answer when the
// generation step fails after retrieval succeeded.
const FallbackAnswer = "Sorry, I couldn't generate a response at the moment."

// Answer combines a question with the generated response and the
// passages it was grounded in. Err carries the generation failure, if
// any; retrieval results are always present.
type Answer struct {
	Query    string
	Response string
	Results  []vector.SearchResult
	Err      string
}

// CollectionInfo describes the backing collection.
type CollectionInfo struct {
	Name          string
	DocumentCount uint64
}

// Status reports generator availability.
type Status struct {
	Available bool
	Model     string
	Err       string
}

// Pipeline orchestrates the adapters. It holds no mutable state of its
// own; the collection lives in the external store, and all dependencies
// are safe for concurrent use.
type Pipeline struct {
	store      vector.Store
	provider   llm.Provider
	chunker    *chunker.Chunker
	indexer    *vector.Indexer
	generator  *Generator
	collection string
	sourcePath string
	log        *slog.Logger
}

// Config holds pipeline construction parameters.
type Config struct {
	Store      vector.Store
	Provider   llm.Provider // embeddings; required
	Chunker    *chunker.Chunker
	Generator  *Generator
	Collection string
	SourcePath string
	Logger     *slog.Logger
}

// New constructs a Pipeline. The embedding provider is required;
// generation is optional.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("pipeline: store is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("pipeline: embedding provider is required")
	}
	if cfg.Chunker == nil {
		cfg.Chunker = chunker.New(0, 0)
	}
	if cfg.Generator == nil {
		cfg.Generator = NewGenerator(nil, "")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pipeline{
		store:      cfg.Store,
		provider:   cfg.Provider,
		chunker:    cfg.Chunker,
		indexer:    vector.NewIndexer(cfg.Provider, cfg.Store),
		generator:  cfg.Generator,
		collection: cfg.Collection,
		sourcePath: cfg.SourcePath,
		log:        cfg.Logger,
	}, nil
}

// Ingest reads the source document, chunks it and indexes every chunk.
// Returns the number of chunks indexed.
func (p *Pipeline) Ingest(ctx context.Context) (int, error) {
	ctx, span := observability.StartPipelineSpan(ctx, "ingest")
	defer span.End()

	data, err := os.ReadFile(p.sourcePath)
	if err != nil {
		observability.RecordError(span, err)
		return 0, fmt.Errorf("read source document: %w", err)
	}

	chunks := p.chunker.Chunk(string(data))
	if len(chunks) == 0 {
		return 0, nil
	}

	if err := p.indexer.IndexTexts(ctx, chunks); err != nil {
		observability.RecordError(span, err)
		return 0, fmt.Errorf("index document: %w", err)
	}

	p.log.Info("ingested source document", "path", p.sourcePath, "chunks", len(chunks))
	return len(chunks), nil
}

// IngestIfEmpty runs Ingest only when the collection holds no records.
// This is the startup guard against duplicate ingestion on restarts; it
// is a single-writer, startup-only operation and is not safe against
// two instances starting at once.
func (p *Pipeline) IngestIfEmpty(ctx context.Context) (int, bool, error) {
	count, err := p.store.Count(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		p.log.Info("collection already populated, skipping ingestion", "documents", count)
		return 0, true, nil
	}
	n, err := p.Ingest(ctx)
	return n, false, err
}

// Search validates the query, embeds it and returns the closest
// passages in ascending distance order.
func (p *Pipeline) Search(ctx context.Context, query string, topK int) ([]vector.SearchResult, error) {
	ctx, span := observability.StartPipelineSpan(ctx, "search")
	defer span.End()

	if err := validateQuery(query, topK, MaxSearchResults); err != nil {
		return nil, err
	}

	vectors, err := p.provider.Embed(ctx, []string{query})
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}

	results, err := p.store.Search(ctx, vectors[0], topK)
	if err != nil {
		observability.RecordError(span, err)
		return nil, fmt.Errorf("search collection: %w", err)
	}
	observability.RecordRetrieval(span, topK, len(results))
	return results, nil
}

// SearchWithAnswer retrieves passages and asks the generator for an
// answer. A generation failure degrades to a fallback answer with Err
// populated; retrieval or validation failures propagate as errors.
func (p *Pipeline) SearchWithAnswer(ctx context.Context, query string, topK int) (*Answer, error) {
	ctx, span := observability.StartPipelineSpan(ctx, "answer")
	defer span.End()

	if err := validateQuery(query, topK, MaxAnswerResults); err != nil {
		return nil, err
	}

	results, err := p.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	answer := &Answer{Query: query, Results: results}

	if !p.generator.Available() {
		answer.Response = "LLM not available. Here are the retrieved documents:"
		return answer, nil
	}

	passages := make([]string, len(results))
	for i, r := range results {
		passages[i] = r.Content
	}

	response, err := p.generator.Generate(ctx, query, passages)
	if err != nil {
		p.log.Warn("answer generation failed, returning retrieval results only", "error", err)
		observability.RecordError(span, err)
		answer.Response = FallbackAnswer
		answer.Err = err.Error()
		return answer, nil
	}

	answer.Response = response
	return answer, nil
}

// Info returns the collection name and current document count.
func (p *Pipeline) Info(ctx context.Context) (*CollectionInfo, error) {
	count, err := p.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	return &CollectionInfo{Name: p.collection, DocumentCount: count}, nil
}

// GeneratorStatus reports whether answer generation is configured and
// with which model.
func (p *Pipeline) GeneratorStatus() *Status {
	s := &Status{
		Available: p.generator.Available(),
		Model:     p.generator.Model(),
	}
	if !s.Available {
		s.Model = ""
		s.Err = "LLM not initialized"
	}
	return s
}

func validateQuery(query string, topK, max int) error {
	if strings.TrimSpace(query) == "" {
		return &ValidationError{Message: "Query cannot be empty or whitespace only"}
	}
	if topK <= 0 {
		return &ValidationError{Message: "n_results must be a positive integer"}
	}
	if topK > max {
		return &ValidationError{Message: fmt.Sprintf("n_results cannot exceed %d", max)}
	}
	return nil
}
