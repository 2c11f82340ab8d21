package domain

import "fmt"

// Default per-strategy rank weights.
const (
	DefaultExactWeight    = 1.0
	DefaultFuzzyWeight    = 0.7
	DefaultSemanticWeight = 0.9
)

// RankWeights holds the per-strategy multipliers applied to normalized scores
// before results are merged. Each weight must be in (0, 1] so that weighted
// scores stay inside the [0, 1] relevance range.
type RankWeights struct {
	Exact    float64
	Fuzzy    float64
	Semantic float64
}

// DefaultRankWeights returns the default strategy weighting.
func DefaultRankWeights() RankWeights {
	return RankWeights{
		Exact:    DefaultExactWeight,
		Fuzzy:    DefaultFuzzyWeight,
		Semantic: DefaultSemanticWeight,
	}
}

// Validate checks that every weight is in (0, 1].
func (w RankWeights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"exact", w.Exact},
		{"fuzzy", w.Fuzzy},
		{"semantic", w.Semantic},
	} {
		if f.value <= 0 || f.value > 1 {
			return fmt.Errorf("%w: %s weight must be in (0, 1], got %g", ErrInvalidConfig, f.name, f.value)
		}
	}
	return nil
}
