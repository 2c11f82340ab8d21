package search

import (
	"context"
	"fmt"
	"math"

	"github.com/kailas-cloud/trident/internal/boolquery"
	"github.com/kailas-cloud/trident/internal/domain/search/match"
	"github.com/kailas-cloud/trident/internal/domain/search/result"
	"github.com/kailas-cloud/trident/internal/domain/search/source"
)

// searchExact delegates the compiled query to the full-text backend and
// normalizes its unbounded raw scores into [0, 1].
func (s *Service) searchExact(
	ctx context.Context, compiled boolquery.Query, topicPath string, limit int,
) ([]result.Result, error) {
	hits, err := s.backend.Search(ctx, compiled, topicPath, limit)
	if err != nil {
		return nil, fmt.Errorf("exact search: %w", err)
	}

	results := make([]result.Result, 0, len(hits))
	for _, h := range hits {
		r, err := s.resultFromHit(h)
		if err != nil {
			s.logDroppedHit(strategyExact, h.ID, err)
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *Service) resultFromHit(h source.Hit) (result.Result, error) {
	score := math.Min(1.0, h.RawScore/s.cfg.ExactScoreNorm) * s.cfg.Weights.Exact

	snippet := h.Highlight
	if snippet == "" {
		snippet = truncate(h.Content, snippetLimit)
	}

	title := h.Title
	if title == "" {
		title = h.ID
	}

	return result.New(h.ID, title, h.Page, snippet, score, match.Exact, h.Highlight, h.TopicPath)
}
