package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return f.vector, f.err
}

type fakeVectorStore struct {
	hits []ScoredDocument
	err  error
}

func (f *fakeVectorStore) Search(_ context.Context, _ []float32, limit int) ([]ScoredDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > limit {
		return f.hits[:limit], nil
	}
	return f.hits, nil
}

func newTestRetriever(embedder Embedder, vectors VectorSearcher) *Retriever {
	return NewRetriever(embedder, vectors, DefaultConfig(), zerolog.Nop())
}

func TestRetrieveEmptyIndexReturnsNothing(t *testing.T) {
	r := newTestRetriever(
		&fakeEmbedder{err: errors.New("embedding service down")},
		&fakeVectorStore{},
	)

	// No index built, dense channel failing: still no error, just empty.
	if texts := r.Retrieve(context.Background(), "anything", 5, true); len(texts) != 0 {
		t.Errorf("expected no results, got %v", texts)
	}
}

func TestRetrieveDenseFailureFallsBackToSparse(t *testing.T) {
	r := newTestRetriever(
		&fakeEmbedder{err: errors.New("connection refused")},
		&fakeVectorStore{},
	)
	r.BuildBM25Index(supportCorpus())

	texts := r.Retrieve(context.Background(), "returns accepted", 5, true)

	if len(texts) == 0 {
		t.Fatal("expected sparse-only results when the dense channel fails")
	}
	if texts[0] != "Returns accepted within 30 days of purchase." {
		t.Errorf("top result = %q, want the returns passage", texts[0])
	}
}

func TestRetrieveVectorStoreFailureFallsBackToSparse(t *testing.T) {
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.1, 0.2}},
		&fakeVectorStore{err: errors.New("vector store unavailable")},
	)
	r.BuildBM25Index(supportCorpus())

	if texts := r.Retrieve(context.Background(), "password reset", 5, true); len(texts) == 0 {
		t.Error("expected sparse-only results when the vector store fails")
	}
}

func TestDenseSearchAppliesScoreThreshold(t *testing.T) {
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeVectorStore{hits: []ScoredDocument{
			{Document: docReturns, Score: 0.92},
			{Document: docShipping, Score: 0.69},
		}},
	)

	results := r.DenseSearch(context.Background(), "returns", 5)

	if len(results) != 1 {
		t.Fatalf("expected threshold to drop 1 of 2 hits, got %d", len(results))
	}
	if results[0].Document.Text != docReturns.Text {
		t.Errorf("kept %q, want the above-threshold hit", results[0].Document.Text)
	}
}

func TestRetrieveDenseOnlySkipsFusion(t *testing.T) {
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeVectorStore{hits: []ScoredDocument{{Document: docPassword, Score: 0.9}}},
	)
	// A built sparse index must stay unused when hybrid is off.
	r.BuildBM25Index(supportCorpus())

	texts := r.Retrieve(context.Background(), "shipping", 3, false)

	if len(texts) != 1 || texts[0] != docPassword.Text {
		t.Errorf("dense-only retrieve = %v, want only the dense hit", texts)
	}
}

func TestHybridSearchFusesBothChannels(t *testing.T) {
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.1}},
		&fakeVectorStore{hits: []ScoredDocument{
			{Document: docShipping, Score: 0.95},
			{Document: docReturns, Score: 0.80},
		}},
	)
	r.BuildBM25Index(supportCorpus())

	results := r.HybridSearch(context.Background(), "returns accepted", 5)

	if len(results) < 2 {
		t.Fatalf("expected fused results from both channels, got %d", len(results))
	}
	// The returns passage appears in both channels and must outrank the
	// shipping passage, which only the dense channel produced.
	if results[0].Document.Text != docReturns.Text {
		t.Errorf("top fused document = %q, want the returns passage", results[0].Document.Text)
	}
}

func TestRetrieveDefaultsTopK(t *testing.T) {
	hits := make([]ScoredDocument, 0, 8)
	for i := 0; i < 8; i++ {
		hits = append(hits, ScoredDocument{Document: docReturns, Score: 0.9})
	}
	r := newTestRetriever(&fakeEmbedder{vector: []float32{0.1}}, &fakeVectorStore{hits: hits})

	if texts := r.Retrieve(context.Background(), "returns", 0, false); len(texts) != DefaultConfig().TopK {
		t.Errorf("got %d results, want the configured default %d", len(texts), DefaultConfig().TopK)
	}
}

func TestBuildBM25IndexSwapsWholesale(t *testing.T) {
	r := newTestRetriever(&fakeEmbedder{err: errors.New("down")}, &fakeVectorStore{})
	r.BuildBM25Index(supportCorpus())
	r.BuildBM25Index([]Document{{Text: "only refunds are covered now"}})

	if texts := r.Retrieve(context.Background(), "returns accepted", 5, true); len(texts) != 0 {
		t.Errorf("old corpus still visible after rebuild: %v", texts)
	}
	if texts := r.Retrieve(context.Background(), "refunds", 5, true); len(texts) != 1 {
		t.Errorf("new corpus not visible after rebuild: %v", texts)
	}
}
