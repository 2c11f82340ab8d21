// Package search orchestrates the exact, fuzzy, and semantic strategies into
// one ranked result list.
package search

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/trident/internal/boolquery"
	"github.com/kailas-cloud/trident/internal/domain"
	"github.com/kailas-cloud/trident/internal/domain/search/request"
	"github.com/kailas-cloud/trident/internal/domain/search/result"
	"github.com/kailas-cloud/trident/internal/metrics"
	"github.com/kailas-cloud/trident/internal/repository/querycache"
	"github.com/kailas-cloud/trident/internal/similarity"
)

// Strategy labels for logs and metrics.
const (
	strategyExact    = "exact"
	strategyFuzzy    = "fuzzy"
	strategySemantic = "semantic"
)

// snippetLimit bounds excerpts built from candidate or content text.
const snippetLimit = 200

// candidateMultiplier oversamples candidates relative to the result limit so
// threshold filtering still fills the page.
const candidateMultiplier = 3

// DefaultQueryTimeout bounds the slowest strategy per query.
const DefaultQueryTimeout = 500 * time.Millisecond

// Config holds the engine's scoring and degradation settings. Invalid values
// fail at construction, never per query.
type Config struct {
	Weights domain.RankWeights
	// ExactScoreNorm divides raw backend scores before clamping to 1.0.
	// An empirical constant, not a probability calibration.
	ExactScoreNorm      float64
	FuzzyAccuracyTarget float64
	SemanticThreshold   float64
	QueryTimeout        time.Duration
	EnableFuzzy         bool
	EnableSemantic      bool
	// PreencodedOnly disables on-demand embedding: the semantic strategy
	// contributes nothing instead of computing vectors per query.
	PreencodedOnly bool
}

// Validate checks thresholds and weights.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.ExactScoreNorm <= 0 {
		return fmt.Errorf("%w: exact score norm must be positive, got %g", domain.ErrInvalidConfig, c.ExactScoreNorm)
	}
	if c.FuzzyAccuracyTarget < 0 || c.FuzzyAccuracyTarget > 1 {
		return fmt.Errorf("%w: fuzzy accuracy target must be in [0, 1], got %g",
			domain.ErrInvalidConfig, c.FuzzyAccuracyTarget)
	}
	if c.SemanticThreshold < 0 || c.SemanticThreshold > 1 {
		return fmt.Errorf("%w: semantic similarity threshold must be in [0, 1], got %g",
			domain.ErrInvalidConfig, c.SemanticThreshold)
	}
	return nil
}

// Service fans a query out to the three strategies and merges their
// contributions. Strategies fail independently: a backend error degrades
// that strategy to an empty contribution and the query proceeds.
type Service struct {
	backend  FullTextBackend
	provider CandidateProvider
	embed    Embedder
	sim      similarity.Func
	cache    *querycache.Cache
	cfg      Config
	logger   *zap.Logger
}

// New creates a search service. embed and sim may be nil, in which case the
// semantic and fuzzy strategies contribute nothing.
func New(
	backend FullTextBackend,
	provider CandidateProvider,
	embed Embedder,
	sim similarity.Func,
	cache *querycache.Cache,
	cfg Config,
	logger *zap.Logger,
) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}
	return &Service{
		backend:  backend,
		provider: provider,
		embed:    embed,
		sim:      sim,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Search executes a query across all enabled strategies and returns the
// merged, ranked, truncated result list. The only request-level failure is a
// *domain.ParseError for a malformed boolean expression.
func (s *Service) Search(ctx context.Context, req request.Request) ([]result.Result, error) {
	compiled, err := s.compileQuery(req.Query())
	if err != nil {
		return nil, err
	}

	key := querycache.Key{
		Query: req.Query(),
		Limit: req.Limit(),
		Topic: req.TopicPath(),
		Order: req.Order(),
	}
	results, _, err := s.cache.GetOrCompute(ctx, key, func(ctx context.Context) ([]result.Result, error) {
		return s.fanOut(ctx, compiled, req), nil
	})
	return results, err
}

// compileQuery parses boolean expressions; plain queries become a
// multi-field match without touching the parser.
func (s *Service) compileQuery(query string) (boolquery.Query, error) {
	if !boolquery.HasOperators(query) {
		return boolquery.Match(query), nil
	}
	node, err := boolquery.Parse(query)
	if err != nil {
		return boolquery.Query{}, err
	}
	return boolquery.Compile(node), nil
}

// fanOut runs the strategies in parallel under the per-query time budget and
// merges whatever they produced. It never fails: a slow or broken strategy
// contributes an empty list.
func (s *Service) fanOut(ctx context.Context, compiled boolquery.Query, req request.Request) []result.Result {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.QueryTimeout)
	defer cancel()

	// Merge order is fixed so equal-score dedup is deterministic.
	contributions := make([][]result.Result, 3)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		contributions[0] = s.runStrategy(gctx, strategyExact, func(ctx context.Context) ([]result.Result, error) {
			return s.searchExact(ctx, compiled, req.TopicPath(), req.Limit())
		})
		return nil
	})
	g.Go(func() error {
		contributions[1] = s.runStrategy(gctx, strategyFuzzy, func(ctx context.Context) ([]result.Result, error) {
			return s.searchFuzzy(ctx, req.Query(), req.Limit())
		})
		return nil
	})
	g.Go(func() error {
		contributions[2] = s.runStrategy(gctx, strategySemantic, func(ctx context.Context) ([]result.Result, error) {
			return s.searchSemantic(ctx, req.Query(), req.Limit())
		})
		return nil
	})
	_ = g.Wait() // goroutines never return errors; failures degrade in runStrategy

	return mergeResults(contributions, req.Limit(), req.Order())
}

// runStrategy absorbs a strategy failure into an empty contribution.
func (s *Service) runStrategy(
	ctx context.Context, name string,
	fn func(ctx context.Context) ([]result.Result, error),
) []result.Result {
	start := time.Now()
	results, err := fn(ctx)
	metrics.SearchStrategyDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.SearchStrategyTotal.WithLabelValues(name, "error").Inc()
		s.logger.Warn("Search strategy degraded to empty contribution",
			zap.String("strategy", name),
			zap.Error(err),
		)
		return nil
	}
	metrics.SearchStrategyTotal.WithLabelValues(name, "ok").Inc()
	return results
}

// truncate bounds s to at most limit characters.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}
