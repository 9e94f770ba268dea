package retrieval

import "sort"

// dedupKeyLen is how many leading runes of a document's text identify it
// during fusion. Chunk texts are the natural uniqueness key; two chunks
// sharing this prefix are treated as the same document.
const dedupKeyLen = 50

// FusionConfig holds the Reciprocal Rank Fusion weights.
type FusionConfig struct {
	DenseWeight  float64 `yaml:"dense_weight"`
	SparseWeight float64 `yaml:"sparse_weight"`
	RRFK         int     `yaml:"rrf_k"`
}

// DefaultFusionConfig returns the standard RRF weighting.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		DenseWeight:  0.7,
		SparseWeight: 0.3,
		RRFK:         60,
	}
}

// Fuse combines a dense and a sparse result list into a single ranking using
// Reciprocal Rank Fusion: a document at 1-indexed rank r in a channel with
// weight w contributes w/(rrf_k + r), and a document present in both channels
// accumulates both contributions. Rank-based fusion sidesteps the fact that
// cosine similarities and BM25 scores live on incomparable scales.
//
// If exactly one list is empty the other's top-k is returned as-is, channel
// scores intact: fusion adds no value with only one ranked list present.
func Fuse(dense, sparse []ScoredDocument, topK int, cfg FusionConfig) []ScoredDocument {
	if len(dense) == 0 && len(sparse) == 0 {
		return nil
	}
	if len(dense) == 0 {
		return truncate(sparse, topK)
	}
	if len(sparse) == 0 {
		return truncate(dense, topK)
	}

	scores := make(map[string]float64)
	docs := make(map[string]Document)
	var order []string

	for rank, res := range dense {
		key := dedupKey(res.Document.Text)
		if _, seen := scores[key]; !seen {
			order = append(order, key)
			docs[key] = res.Document
		}
		scores[key] = cfg.DenseWeight / float64(cfg.RRFK+rank+1)
	}
	for rank, res := range sparse {
		key := dedupKey(res.Document.Text)
		if _, seen := scores[key]; !seen {
			order = append(order, key)
			docs[key] = res.Document
		}
		scores[key] += cfg.SparseWeight / float64(cfg.RRFK+rank+1)
	}

	// Ties keep insertion order: dense results first, then sparse-only ones.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if len(order) > topK {
		order = order[:topK]
	}

	results := make([]ScoredDocument, 0, len(order))
	for _, key := range order {
		results = append(results, ScoredDocument{Document: docs[key], Score: scores[key]})
	}
	return results
}

func truncate(results []ScoredDocument, topK int) []ScoredDocument {
	if len(results) > topK {
		return results[:topK]
	}
	return results
}

func dedupKey(text string) string {
	runes := []rune(text)
	if len(runes) > dedupKeyLen {
		runes = runes[:dedupKeyLen]
	}
	return string(runes)
}
