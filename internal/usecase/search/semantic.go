package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/kailas-cloud/trident/internal/domain/search/match"
	"github.com/kailas-cloud/trident/internal/domain/search/result"
)

// searchSemantic embeds the query once, scores candidates by cosine
// similarity, and keeps those above the threshold, best first.
func (s *Service) searchSemantic(ctx context.Context, query string, limit int) ([]result.Result, error) {
	if !s.cfg.EnableSemantic || s.embed == nil {
		return nil, nil
	}
	// Pre-encoded-only mode: never compute embeddings on the fly.
	if s.cfg.PreencodedOnly {
		return nil, nil
	}

	candidates, err := s.provider.Candidates(ctx, query, limit*candidateMultiplier)
	if err != nil {
		return nil, fmt.Errorf("semantic candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	queryVec, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]result.Result, 0, len(candidates))
	for _, c := range candidates {
		candVec, err := s.embed.Embed(ctx, c.Text)
		if err != nil {
			return results, fmt.Errorf("embed candidate %s: %w", c.ID, err)
		}
		// Clamp float drift above 1.0 on near-identical unit vectors.
		sim := math.Min(1.0, cosine(queryVec, candVec))
		if sim < s.cfg.SemanticThreshold {
			continue
		}
		r, err := s.resultFromCandidate(c, sim*s.cfg.Weights.Semantic, match.Semantic)
		if err != nil {
			s.logDroppedHit(strategySemantic, c.ID, err)
			continue
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// cosine computes dot(a,b) / (|a| * |b|), 0.0 when either norm is zero.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, x := range a {
		na += float64(x) * float64(x)
	}
	for _, y := range b {
		nb += float64(y) * float64(y)
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func (s *Service) logDroppedHit(strategy, id string, err error) {
	s.logger.Debug("Dropped invalid hit",
		zap.String("strategy", strategy),
		zap.String("document_id", id),
		zap.Error(err),
	)
}
