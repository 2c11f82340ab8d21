package search

import (
	"context"

	"github.com/kailas-cloud/trident/internal/boolquery"
	"github.com/kailas-cloud/trident/internal/domain/search/source"
)

// FullTextBackend runs compiled boolean queries against an external index.
type FullTextBackend interface {
	Search(ctx context.Context, q boolquery.Query, topicPath string, limit int) ([]source.Hit, error)
}

// CandidateProvider yields (document, text) pairs for the fuzzy and semantic
// strategies to score.
type CandidateProvider interface {
	Candidates(ctx context.Context, query string, n int) ([]source.Candidate, error)
}

// Embedder vectorizes text. Vectors from one provider share a dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
