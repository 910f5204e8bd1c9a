package vector

import (
	"context"
	"errors"
	"testing"

	"github.com/stayscout/listingrag/internal/llm"
)

type fakeEmbedProvider struct {
	vectorsPerText int // vectors returned per call relative to input (1 = matching)
	err            error
}

func (f *fakeEmbedProvider) Complete(_ context.Context, _ *llm.Prompt, _ *llm.RequestOptions) (*llm.Response, error) {
	return nil, errors.New("not used")
}

func (f *fakeEmbedProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts) * f.vectorsPerText
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(i)}
	}
	return out, nil
}

func (f *fakeEmbedProvider) Name() string { return "fake" }

type fakeStore struct {
	upserted []Document
	err      error
}

func (f *fakeStore) EnsureCollection(context.Context, int) error { return nil }
func (f *fakeStore) Upsert(_ context.Context, docs []Document) error {
	if f.err != nil {
		return f.err
	}
	f.upserted = append(f.upserted, docs...)
	return nil
}
func (f *fakeStore) Search(context.Context, []float32, int) ([]SearchResult, error) {
	return nil, nil
}
func (f *fakeStore) Count(context.Context) (uint64, error) { return uint64(len(f.upserted)), nil }
func (f *fakeStore) Close() error                          { return nil }

func TestIndexTexts_SequentialIDs(t *testing.T) {
	store := &fakeStore{}
	ix := NewIndexer(&fakeEmbedProvider{vectorsPerText: 1}, store)

	texts := []string{"chunk zero", "chunk one", "chunk two"}
	if err := ix.IndexTexts(context.Background(), texts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.upserted) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(store.upserted))
	}
	for i, d := range store.upserted {
		if d.ID != uint64(i) {
			t.Errorf("document %d has id %d", i, d.ID)
		}
		if d.Content != texts[i] {
			t.Errorf("document %d content mismatch: %q", i, d.Content)
		}
	}
}

func TestIndexTexts_Empty(t *testing.T) {
	store := &fakeStore{}
	ix := NewIndexer(&fakeEmbedProvider{vectorsPerText: 1}, store)
	if err := ix.IndexTexts(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.upserted) != 0 {
		t.Error("empty input should not upsert")
	}
}

func TestIndexTexts_EmbedError(t *testing.T) {
	ix := NewIndexer(&fakeEmbedProvider{err: errors.New("embedding service down")}, &fakeStore{})
	if err := ix.IndexTexts(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected embedding error to propagate")
	}
}

func TestIndexTexts_CountMismatch(t *testing.T) {
	ix := NewIndexer(&fakeEmbedProvider{vectorsPerText: 2}, &fakeStore{})
	if err := ix.IndexTexts(context.Background(), []string{"x", "y"}); err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestIndexTexts_StoreError(t *testing.T) {
	ix := NewIndexer(&fakeEmbedProvider{vectorsPerText: 1}, &fakeStore{err: errors.New("write rejected")})
	if err := ix.IndexTexts(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected store error to propagate")
	}
}
