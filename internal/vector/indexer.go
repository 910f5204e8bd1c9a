package vector

import (
	"context"
	"fmt"

	"github.com/stayscout/listingrag/internal/llm"
)

// Indexer wraps an LLM provider to embed and store text chunks.
type Indexer struct {
	provider llm.Provider
	store    Store
}

// NewIndexer creates an Indexer.
func NewIndexer(provider llm.Provider, store Store) *Indexer {
	return &Indexer{provider: provider, store: store}
}

// IndexTexts embeds the given texts and upserts them with sequential
// ids starting at 0. Ids are scoped to the call, not globally stable.
func (ix *Indexer) IndexTexts(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	vectors, err := ix.provider.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(texts))
	}

	docs := make([]Document, len(texts))
	for i := range texts {
		docs[i] = Document{
			ID:      uint64(i),
			Content: texts[i],
			Vector:  vectors[i],
		}
	}
	return ix.store.Upsert(ctx, docs)
}
