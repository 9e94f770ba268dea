package retrieval

import (
	"math"
	"sort"
)

// BM25 parameters, standard Okapi values.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// BM25Index is an immutable sparse index over a fixed, ordered corpus.
// The corpus and the per-document statistics stay index-aligned: the score
// at position i belongs to the document at position i. Rebuild a fresh index
// and swap it in rather than mutating one that concurrent readers may hold.
type BM25Index struct {
	docs      []Document
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	idf       map[string]float64
}

// NewBM25Index tokenizes every document and precomputes term frequencies and
// inverse document frequencies for the whole corpus.
func NewBM25Index(docs []Document) *BM25Index {
	idx := &BM25Index{
		docs:      docs,
		termFreqs: make([]map[string]int, len(docs)),
		docLens:   make([]int, len(docs)),
		idf:       make(map[string]float64),
	}

	df := make(map[string]int)
	totalLen := 0
	for i, doc := range docs {
		tokens := Tokenize(doc.Text)
		freqs := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			freqs[tok]++
		}
		for tok := range freqs {
			df[tok]++
		}
		idx.termFreqs[i] = freqs
		idx.docLens[i] = len(tokens)
		totalLen += len(tokens)
	}

	if len(docs) > 0 {
		idx.avgDocLen = float64(totalLen) / float64(len(docs))
	}

	// Non-negative IDF variant: ln(1 + (N - df + 0.5)/(df + 0.5)).
	n := float64(len(docs))
	for tok, freq := range df {
		idx.idf[tok] = math.Log(1 + (n-float64(freq)+0.5)/(float64(freq)+0.5))
	}

	return idx
}

// Size returns the number of documents in the corpus.
func (idx *BM25Index) Size() int {
	return len(idx.docs)
}

// rawScores computes the BM25 score of every corpus document for the query
// tokens, index-aligned with the corpus.
func (idx *BM25Index) rawScores(queryTokens []string) []float64 {
	scores := make([]float64, len(idx.docs))
	for _, tok := range queryTokens {
		idf, known := idx.idf[tok]
		if !known {
			continue
		}
		for i, freqs := range idx.termFreqs {
			tf := float64(freqs[tok])
			if tf == 0 {
				continue
			}
			lenNorm := 1 - bm25B + bm25B*float64(idx.docLens[i])/idx.avgDocLen
			scores[i] += idf * tf * (bm25K1 + 1) / (tf + bm25K1*lenNorm)
		}
	}
	return scores
}

// Search returns the top-k documents by BM25 score in descending order, ties
// broken by corpus order. Scores are normalized against the best score in the
// selection. Documents scoring zero are excluded even if that leaves fewer
// than k results.
func (idx *BM25Index) Search(query string, topK int) []ScoredDocument {
	scores := idx.rawScores(Tokenize(query))

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if len(order) > topK {
		order = order[:topK]
	}

	var maxScore float64
	if len(order) > 0 {
		maxScore = scores[order[0]]
	}
	if maxScore <= 0 {
		return nil
	}

	var results []ScoredDocument
	for _, i := range order {
		if scores[i] <= 0 {
			break
		}
		results = append(results, ScoredDocument{
			Document: idx.docs[i],
			Score:    scores[i] / maxScore,
		})
	}
	return results
}
