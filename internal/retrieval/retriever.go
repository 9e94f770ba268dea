package retrieval

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Embedder produces a fixed-dimension embedding vector for a piece of text.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher runs similarity search against an external vector store and
// returns hits in descending similarity order.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]ScoredDocument, error)
}

// Config tunes the retrieval façade.
type Config struct {
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	Fusion         FusionConfig
}

// DefaultConfig returns the retrieval defaults.
func DefaultConfig() Config {
	return Config{
		TopK:           5,
		ScoreThreshold: 0.7,
		Fusion:         DefaultFusionConfig(),
	}
}

// Retriever combines dense vector search with sparse BM25 search over the
// knowledge base. The embedding and vector-store boundaries are external and
// may fail; those failures degrade to an empty channel instead of
// propagating, so Retrieve never errors out on the caller.
type Retriever struct {
	embedder Embedder
	vectors  VectorSearcher
	cfg      Config
	logger   zerolog.Logger

	// Swapped wholesale on rebuild so concurrent readers never observe a
	// partially built index.
	index atomic.Pointer[BM25Index]
}

func NewRetriever(embedder Embedder, vectors VectorSearcher, cfg Config, logger zerolog.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		vectors:  vectors,
		cfg:      cfg,
		logger:   logger,
	}
}

// BuildBM25Index (re)builds the sparse index over the given corpus. Until the
// first call, sparse search is silently disabled.
func (r *Retriever) BuildBM25Index(docs []Document) {
	r.index.Store(NewBM25Index(docs))
	r.logger.Info().Int("documents", len(docs)).Msg("Built BM25 index")
}

// DenseSearch embeds the query and searches the vector store, keeping only
// hits at or above the similarity threshold. Embedding or vector-store
// failures are logged and yield an empty result.
func (r *Retriever) DenseSearch(ctx context.Context, query string, topK int) []ScoredDocument {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to embed query, skipping dense search")
		return nil
	}

	hits, err := r.vectors.Search(ctx, vector, topK)
	if err != nil {
		r.logger.Error().Err(err).Msg("Vector search failed, skipping dense search")
		return nil
	}

	var results []ScoredDocument
	for _, hit := range hits {
		if hit.Score >= r.cfg.ScoreThreshold {
			results = append(results, hit)
		}
	}

	r.logger.Debug().Int("results", len(results)).Msg("Dense search complete")
	return results
}

// SparseSearch scores the query against the BM25 index. An unbuilt or empty
// index yields an empty result with a warning, never an error.
func (r *Retriever) SparseSearch(query string, topK int) []ScoredDocument {
	idx := r.index.Load()
	if idx == nil || idx.Size() == 0 {
		r.logger.Warn().Msg("BM25 index not built, skipping sparse search")
		return nil
	}

	results := idx.Search(query, topK)
	r.logger.Debug().Int("results", len(results)).Msg("Sparse search complete")
	return results
}

// HybridSearch runs both channels with a 2x candidate fan-out and fuses them
// with RRF. The channels are independent, so they run concurrently; fusion
// waits for both.
func (r *Retriever) HybridSearch(ctx context.Context, query string, topK int) []ScoredDocument {
	var dense, sparse []ScoredDocument

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dense = r.DenseSearch(gctx, query, topK*2)
		return nil
	})
	g.Go(func() error {
		sparse = r.SparseSearch(query, topK*2)
		return nil
	})
	// Channel failures are absorbed inside each leg, never returned.
	_ = g.Wait()

	if len(dense) == 0 && len(sparse) == 0 {
		r.logger.Warn().Str("query", query).Msg("No results from either search channel")
		return nil
	}
	if len(dense) == 0 {
		r.logger.Info().Msg("Using sparse search results only")
	} else if len(sparse) == 0 {
		r.logger.Info().Msg("Using dense search results only")
	}

	results := Fuse(dense, sparse, topK, r.cfg.Fusion)
	r.logger.Info().
		Int("results", len(results)).
		Int("dense", len(dense)).
		Int("sparse", len(sparse)).
		Msg("Hybrid search complete")
	return results
}

// Retrieve is the sole entry point for callers: it returns the texts of the
// top-k passages for the query, hybrid by default, dense-only otherwise. An
// empty slice signals "nothing found"; Retrieve never fails.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, useHybrid bool) []string {
	if topK <= 0 {
		topK = r.cfg.TopK
	}

	var results []ScoredDocument
	if useHybrid {
		results = r.HybridSearch(ctx, query, topK)
	} else {
		results = r.DenseSearch(ctx, query, topK)
	}

	texts := make([]string, 0, len(results))
	for _, res := range results {
		texts = append(texts, res.Document.Text)
	}
	return texts
}
