package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/trident/internal/boolquery"
	"github.com/kailas-cloud/trident/internal/domain"
	"github.com/kailas-cloud/trident/internal/domain/search/source"
	"github.com/kailas-cloud/trident/internal/repository/querycache"
	healthuc "github.com/kailas-cloud/trident/internal/usecase/health"
	searchuc "github.com/kailas-cloud/trident/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/trident/internal/usecase/suggest"
)

type stubBackend struct {
	hits []source.Hit
	err  error
}

func (s *stubBackend) Search(
	_ context.Context, _ boolquery.Query, _ string, _ int,
) ([]source.Hit, error) {
	return s.hits, s.err
}

func (s *stubBackend) Ping(_ context.Context) error { return s.err }

type stubProvider struct {
	candidates []source.Candidate
}

func (s *stubProvider) Candidates(_ context.Context, _ string, _ int) ([]source.Candidate, error) {
	return s.candidates, nil
}

func newTestServer(t *testing.T, backend *stubBackend) *Server {
	t.Helper()
	cfg := searchuc.Config{
		Weights:             domain.DefaultRankWeights(),
		ExactScoreNorm:      10.0,
		FuzzyAccuracyTarget: 0.8,
		SemanticThreshold:   0.7,
		QueryTimeout:        time.Second,
	}
	search, err := searchuc.New(backend, &stubProvider{}, nil, nil,
		querycache.New(0, 16, nil), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("new search service: %v", err)
	}
	suggest := suggestuc.New(
		&stubProvider{candidates: []source.Candidate{{ID: "1", Text: "hello help"}}},
		zap.NewNop(),
	)
	health := healthuc.New(backend, nil)
	return NewServer(search, suggest, health, zap.NewNop())
}

func TestSearchHandler_OK(t *testing.T) {
	backend := &stubBackend{hits: []source.Hit{
		{ID: "doc-1", Title: "Doc One", Content: "alpha text", TopicPath: "guides", Page: 3, RawScore: 5},
	}}
	srv := newTestServer(t, backend)

	req := httptest.NewRequest("GET", "/api/v1/search?q=alpha&limit=5", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(resp.Items))
	}

	item := resp.Items[0]
	if item.DocumentID != "doc-1" {
		t.Errorf("document_id: got %q", item.DocumentID)
	}
	if item.DocumentTitle != "Doc One" {
		t.Errorf("document_title: got %q", item.DocumentTitle)
	}
	if item.PageNumber != 3 {
		t.Errorf("page_number: got %d, want 3", item.PageNumber)
	}
	if item.RelevanceScore != 0.5 {
		t.Errorf("relevance_score: got %g, want 0.5", item.RelevanceScore)
	}
	if item.MatchType != "exact" {
		t.Errorf("match_type: got %q, want exact", item.MatchType)
	}
	if item.TopicPath != "guides" {
		t.Errorf("topic_path: got %q, want guides", item.TopicPath)
	}
}

func TestSearchHandler_MissingQuery_400(t *testing.T) {
	srv := newTestServer(t, &stubBackend{})

	req := httptest.NewRequest("GET", "/api/v1/search", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeValidationFailed {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeValidationFailed)
	}
}

func TestSearchHandler_MalformedExpression_400WithPosition(t *testing.T) {
	srv := newTestServer(t, &stubBackend{})

	req := httptest.NewRequest("GET", "/api/v1/search?q=apple+AND", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != codeQueryParseError {
		t.Errorf("error code: got %s, want %s", errResp.Code, codeQueryParseError)
	}
	if errResp.Position == nil {
		t.Error("expected position in parse error response")
	}
}

func TestSearchHandler_BadLimit_400(t *testing.T) {
	srv := newTestServer(t, &stubBackend{})

	req := httptest.NewRequest("GET", "/api/v1/search?q=alpha&limit=many", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSearchHandler_BackendDown_200Empty(t *testing.T) {
	srv := newTestServer(t, &stubBackend{err: errors.New("backend down")})

	req := httptest.NewRequest("GET", "/api/v1/search?q=alpha", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("degraded search should still be 200, got %d", rr.Code)
	}

	var resp searchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 0 {
		t.Errorf("expected empty result list, got %d items", resp.Total)
	}
}

func TestSuggestHandler_OK(t *testing.T) {
	srv := newTestServer(t, &stubBackend{})

	req := httptest.NewRequest("GET", "/api/v1/suggest?q=he", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp suggestResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("got %v, want hello and help", resp.Items)
	}
}

func TestSuggestHandler_EmptyPrefix_EmptyList(t *testing.T) {
	srv := newTestServer(t, &stubBackend{})

	req := httptest.NewRequest("GET", "/api/v1/suggest", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}
	var resp suggestResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected empty items, got %v", resp.Items)
	}
}

func TestHealthHandler_OK(t *testing.T) {
	srv := newTestServer(t, &stubBackend{})

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp healthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != string(healthuc.Healthy) {
		t.Errorf("status: got %q", resp.Status)
	}
}

func TestHealthHandler_BackendDown_503(t *testing.T) {
	srv := newTestServer(t, &stubBackend{err: errors.New("down")})

	req := httptest.NewRequest("GET", "/healthz", http.NoBody)
	rr := httptest.NewRecorder()
	srv.Router(nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
