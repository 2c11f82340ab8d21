// Package suggest derives query completions from terms in the indexed corpus.
package suggest

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/trident/internal/domain/search/source"
)

// DefaultLimit is the number of suggestions returned when the caller does
// not specify one.
const DefaultLimit = 10

// candidateMultiplier oversamples candidates relative to the suggestion
// limit, since many candidates contribute no matching token.
const candidateMultiplier = 10

// CandidateProvider recalls indexed text likely to contain terms matching
// the prefix.
type CandidateProvider interface {
	Candidates(ctx context.Context, query string, n int) ([]source.Candidate, error)
}

// Service produces prefix completions from corpus vocabulary. Suggestions
// are ranked by term frequency across the recalled candidates, ties broken
// alphabetically.
type Service struct {
	provider CandidateProvider
	logger   *zap.Logger
}

// New creates a suggestion service.
func New(provider CandidateProvider, logger *zap.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// Suggest returns up to limit distinct lowercase terms starting with prefix.
// An empty or whitespace prefix yields no suggestions without touching the
// backend. Provider failures degrade to an empty list.
func (s *Service) Suggest(ctx context.Context, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	candidates, err := s.provider.Candidates(ctx, prefix, limit*candidateMultiplier)
	if err != nil {
		s.logger.Warn("Suggestion recall failed, returning no completions",
			zap.String("prefix", prefix),
			zap.Error(err),
		)
		return nil
	}

	counts := make(map[string]int)
	for _, c := range candidates {
		for _, token := range strings.Fields(c.Text) {
			token = strings.ToLower(token)
			if strings.HasPrefix(token, prefix) {
				counts[token]++
			}
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] != counts[terms[j]] {
			return counts[terms[i]] > counts[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}
