package search

import "github.com/helpdesk-labs/support-agent/internal/middleware"

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty" description:"Max results (default: 10)"`
}

// SetDefaults fills in the limit when the caller left it out.
func (r *SearchRequest) SetDefaults() {
	if r.Limit == 0 {
		r.Limit = 10
	}
}

func (r *SearchRequest) Validate() error {
	if r.Query == "" {
		return middleware.ErrEmptyQuery
	}
	if r.Limit < 0 {
		return middleware.ErrInvalidLimit
	}
	return nil
}

type SearchResult struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	File    string  `json:"file,omitempty"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

type SearchResponse struct {
	Query  string         `json:"query"`
	Result []SearchResult `json:"result"`
	Count  int            `json:"count"`
	Method string         `json:"method"` // "semantic", "keyword", "hybrid"
}
