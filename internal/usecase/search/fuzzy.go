package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/trident/internal/domain/search/match"
	"github.com/kailas-cloud/trident/internal/domain/search/result"
	"github.com/kailas-cloud/trident/internal/domain/search/source"
)

// searchFuzzy scores query-versus-candidate similarity and keeps candidates
// above the accuracy target.
func (s *Service) searchFuzzy(ctx context.Context, query string, limit int) ([]result.Result, error) {
	if !s.cfg.EnableFuzzy || s.sim == nil {
		return nil, nil
	}

	candidates, err := s.provider.Candidates(ctx, query, limit*candidateMultiplier)
	if err != nil {
		return nil, fmt.Errorf("fuzzy candidates: %w", err)
	}

	results := make([]result.Result, 0, len(candidates))
	for _, c := range candidates {
		ratio := s.sim(query, c.Text)
		if ratio < s.cfg.FuzzyAccuracyTarget {
			continue
		}
		r, err := s.resultFromCandidate(c, ratio*s.cfg.Weights.Fuzzy, match.Fuzzy)
		if err != nil {
			s.logDroppedHit(strategyFuzzy, c.ID, err)
			continue
		}
		results = append(results, r)
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func (s *Service) resultFromCandidate(
	c source.Candidate, score float64, matchType match.Type,
) (result.Result, error) {
	snippet := truncate(c.Text, snippetLimit)

	title := c.Title
	if title == "" {
		title = c.ID
	}

	return result.New(c.ID, title, c.Page, snippet, score, matchType, snippet, c.TopicPath)
}
