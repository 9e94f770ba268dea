package search

import (
	"context"
	"net/http"

	"github.com/emicklei/go-restful/v3"

	"github.com/helpdesk-labs/support-agent/internal/middleware"
	"github.com/helpdesk-labs/support-agent/internal/retrieval"
)

// Searcher is the retrieval surface the handlers need; satisfied by
// *retrieval.Retriever.
type Searcher interface {
	DenseSearch(ctx context.Context, query string, topK int) []retrieval.ScoredDocument
	SparseSearch(query string, topK int) []retrieval.ScoredDocument
	HybridSearch(ctx context.Context, query string, topK int) []retrieval.ScoredDocument
}

type Handler struct {
	searcher Searcher
}

func NewHandler(searcher Searcher) *Handler {
	return &Handler{searcher: searcher}
}

// SemanticSearch handles POST /search/v1/semantic
func (h *Handler) SemanticSearch(req *restful.Request, resp *restful.Response) {
	h.serve(req, resp, "semantic", func(ctx context.Context, query string, limit int) []retrieval.ScoredDocument {
		return h.searcher.DenseSearch(ctx, query, limit)
	})
}

// KeywordSearch handles POST /search/v1/keyword
func (h *Handler) KeywordSearch(req *restful.Request, resp *restful.Response) {
	h.serve(req, resp, "keyword", func(_ context.Context, query string, limit int) []retrieval.ScoredDocument {
		return h.searcher.SparseSearch(query, limit)
	})
}

// HybridSearch handles POST /search/v1/hybrid
func (h *Handler) HybridSearch(req *restful.Request, resp *restful.Response) {
	h.serve(req, resp, "hybrid", h.searcher.HybridSearch)
}

func (h *Handler) serve(req *restful.Request, resp *restful.Response, method string, search func(context.Context, string, int) []retrieval.ScoredDocument) {
	var searchReq SearchRequest
	if err := req.ReadEntity(&searchReq); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	searchReq.SetDefaults()
	if err := searchReq.Validate(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	docs := search(req.Request.Context(), searchReq.Query, searchReq.Limit)

	results := make([]SearchResult, 0, len(docs))
	for i, doc := range docs {
		results = append(results, SearchResult{
			Content: doc.Document.Text,
			Source:  doc.Document.Source,
			File:    doc.Document.File,
			Score:   doc.Score,
			Rank:    i + 1,
		})
	}

	resp.WriteEntity(SearchResponse{
		Query:  searchReq.Query,
		Result: results,
		Count:  len(results),
		Method: method,
	})
}
