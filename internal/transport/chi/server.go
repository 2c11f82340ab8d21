// Package chi exposes the search engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	chimux "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/trident/internal/domain"
	"github.com/kailas-cloud/trident/internal/domain/search/order"
	"github.com/kailas-cloud/trident/internal/domain/search/request"
	"github.com/kailas-cloud/trident/internal/domain/search/result"
	"github.com/kailas-cloud/trident/internal/metrics"
	healthuc "github.com/kailas-cloud/trident/internal/usecase/health"
	searchuc "github.com/kailas-cloud/trident/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/trident/internal/usecase/suggest"
)

// Error codes returned in the error response body.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeQueryParseError  = "query_parse_error"
	codeInternalError    = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Position is the character offset of a query parse error, when known.
	Position *int `json:"position,omitempty"`
}

type searchResultItem struct {
	DocumentID      string  `json:"document_id"`
	DocumentTitle   string  `json:"document_title"`
	PageNumber      int     `json:"page_number"`
	Snippet         string  `json:"snippet"`
	RelevanceScore  float64 `json:"relevance_score"`
	MatchType       string  `json:"match_type"`
	HighlightedText string  `json:"highlighted_text,omitempty"`
	TopicPath       string  `json:"topic_path,omitempty"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

type suggestResponse struct {
	Items []string `json:"items"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server is the HTTP API server.
type Server struct {
	search  *searchuc.Service
	suggest *suggestuc.Service
	health  *healthuc.Service
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	suggest *suggestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	return &Server{
		search:  search,
		suggest: suggest,
		health:  health,
		logger:  logger,
	}
}

// Router builds the chi router with metrics and auth middleware applied.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chimux.NewRouter()
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/api/v1/search", s.Search)
	r.Get("/api/v1/suggest", s.Suggest)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// Search handles GET /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	sortOrder := order.ByScore
	if raw := q.Get("sort"); raw != "" {
		sortOrder = order.Order(raw)
	}

	req, err := request.New(q.Get("q"), limit, q.Get("topic"), sortOrder)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	results, err := s.search.Search(r.Context(), req)
	if err != nil {
		s.handleSearchError(w, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = resultToItem(&results[i])
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Items: items,
		Total: len(items),
	})
}

// Suggest handles GET /api/v1/suggest.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	items := s.suggest.Suggest(r.Context(), q.Get("q"), limit)
	if items == nil {
		items = []string{}
	}

	writeJSON(w, http.StatusOK, suggestResponse{Items: items})
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) handleSearchError(w http.ResponseWriter, err error) {
	var perr *domain.ParseError
	if errors.As(err, &perr) {
		pos := perr.Pos
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:     codeQueryParseError,
			Message:  perr.Error(),
			Position: &pos,
		})
		return
	}
	if errors.Is(err, domain.ErrParse) {
		writeError(w, http.StatusBadRequest, codeQueryParseError, err.Error())
		return
	}

	s.logger.Error("search failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func resultToItem(r *result.Result) searchResultItem {
	return searchResultItem{
		DocumentID:      r.DocumentID(),
		DocumentTitle:   r.DocumentTitle(),
		PageNumber:      r.PageNumber(),
		Snippet:         r.Snippet(),
		RelevanceScore:  r.Score(),
		MatchType:       string(r.MatchType()),
		HighlightedText: r.Highlighted(),
		TopicPath:       r.TopicPath(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
