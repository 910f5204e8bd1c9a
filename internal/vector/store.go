// Package vector provides the similarity-search storage layer: an
// abstract store plus a Qdrant-backed implementation.
package vector

import "context"

// Document is the persisted unit: a chunk of listing text with its
// embedding. IDs are assigned sequentially at ingestion time.
type Document struct {
	ID      uint64
	Content string
	Vector  []float32
}

// SearchResult is a single match from a similarity search. Distance is
// cosine distance (0 = identical direction); results are ordered
// ascending, index 0 most similar.
type SearchResult struct {
	Content  string
	Distance float32
}

// Store provides vector storage and similarity search over a single
// collection. Implementations are stateless wrappers around the
// external service and safe for concurrent use.
type Store interface {
	// EnsureCollection creates the collection with cosine distance if it
	// does not exist. Idempotent.
	EnsureCollection(ctx context.Context, dimension int) error
	// Upsert inserts or replaces documents.
	Upsert(ctx context.Context, docs []Document) error
	// Search returns at most topK closest documents, ascending distance.
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	// Count returns the number of stored documents.
	Count(ctx context.Context) (uint64, error)
	// Close releases resources.
	Close() error
}
