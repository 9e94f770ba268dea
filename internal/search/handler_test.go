package search_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"

	"github.com/helpdesk-labs/support-agent/internal/retrieval"
	"github.com/helpdesk-labs/support-agent/internal/search"
)

type fakeSearcher struct {
	dense     []retrieval.ScoredDocument
	sparse    []retrieval.ScoredDocument
	hybrid    []retrieval.ScoredDocument
	lastQuery string
	lastTopK  int
}

func (f *fakeSearcher) DenseSearch(_ context.Context, query string, topK int) []retrieval.ScoredDocument {
	f.lastQuery, f.lastTopK = query, topK
	return f.dense
}

func (f *fakeSearcher) SparseSearch(query string, topK int) []retrieval.ScoredDocument {
	f.lastQuery, f.lastTopK = query, topK
	return f.sparse
}

func (f *fakeSearcher) HybridSearch(_ context.Context, query string, topK int) []retrieval.ScoredDocument {
	f.lastQuery, f.lastTopK = query, topK
	return f.hybrid
}

func scoredDoc(text string, score float64) retrieval.ScoredDocument {
	return retrieval.ScoredDocument{
		Document: retrieval.Document{Text: text, Source: "kb"},
		Score:    score,
	}
}

func setupSearchAPI(searcher *fakeSearcher) *restful.Container {
	container := restful.NewContainer()
	search.RegisterRoutes(container, search.NewHandler(searcher))
	return container
}

func doSearch(t *testing.T, container *restful.Container, path string, body search.SearchRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", restful.MIME_JSON)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestAPI_SemanticSearch(t *testing.T) {
	searcher := &fakeSearcher{dense: []retrieval.ScoredDocument{
		scoredDoc("Returns accepted within 30 days.", 0.91),
		scoredDoc("Refunds take 5 business days.", 0.84),
	}}
	container := setupSearchAPI(searcher)

	recorder := doSearch(t, container, "/search/v1/semantic", search.SearchRequest{Query: "return policy"})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response search.SearchResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Method != "semantic" {
		t.Errorf("Method = %q, want semantic", response.Method)
	}
	if response.Count != 2 {
		t.Errorf("Count = %d, want 2", response.Count)
	}
	if response.Result[0].Rank != 1 || response.Result[1].Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", response.Result[0].Rank, response.Result[1].Rank)
	}
	if searcher.lastTopK != 10 {
		t.Errorf("default limit = %d, want 10", searcher.lastTopK)
	}
}

func TestAPI_KeywordSearch(t *testing.T) {
	searcher := &fakeSearcher{sparse: []retrieval.ScoredDocument{scoredDoc("password reset steps", 1.0)}}
	container := setupSearchAPI(searcher)

	recorder := doSearch(t, container, "/search/v1/keyword", search.SearchRequest{Query: "password", Limit: 3})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var response search.SearchResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Method != "keyword" {
		t.Errorf("Method = %q, want keyword", response.Method)
	}
	if searcher.lastTopK != 3 {
		t.Errorf("limit = %d, want 3", searcher.lastTopK)
	}
}

func TestAPI_HybridSearch(t *testing.T) {
	searcher := &fakeSearcher{hybrid: []retrieval.ScoredDocument{scoredDoc("merged result", 0.02)}}
	container := setupSearchAPI(searcher)

	recorder := doSearch(t, container, "/search/v1/hybrid", search.SearchRequest{Query: "shipping"})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var response search.SearchResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Method != "hybrid" {
		t.Errorf("Method = %q, want hybrid", response.Method)
	}
	if response.Count != 1 {
		t.Errorf("Count = %d, want 1", response.Count)
	}
}

func TestAPI_Search_EmptyQuery(t *testing.T) {
	container := setupSearchAPI(&fakeSearcher{})

	recorder := doSearch(t, container, "/search/v1/semantic", search.SearchRequest{})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
}

func TestAPI_Search_NoResults(t *testing.T) {
	container := setupSearchAPI(&fakeSearcher{})

	recorder := doSearch(t, container, "/search/v1/hybrid", search.SearchRequest{Query: "unrelated"})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var response search.SearchResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Count != 0 {
		t.Errorf("Count = %d, want 0", response.Count)
	}
	if len(response.Result) != 0 {
		t.Errorf("Result = %d entries, want 0", len(response.Result))
	}
}
