// Package similarity scores string pairs for the fuzzy search strategy.
package similarity

import "github.com/xrash/smetrics"

// Func returns a normalized similarity between two strings in [0, 1]:
// identical strings score 1.0, completely dissimilar strings near 0.0.
type Func func(a, b string) float64

// Ratio is the default Func: an indel-distance ratio. Substitutions cost 2
// (one delete plus one insert), so the distance is normalized by the combined
// string length.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 1.0 - float64(dist)/float64(total)
}
