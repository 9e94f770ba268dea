package retrieval

// Document is a single knowledge-base passage as stored in the indexes.
type Document struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	File   string `json:"file,omitempty"`
}

// ScoredDocument pairs a document with a relevance score. Dense scores are
// cosine similarities, sparse scores are normalized BM25 scores and fused
// scores are RRF sums, so scores from different channels are not comparable.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}
