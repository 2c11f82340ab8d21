// Package source holds the raw, pre-normalization inputs the search
// strategies consume: full-text hits and scoring candidates.
package source

// Hit is one raw hit from the full-text backend. RawScore is an unbounded
// positive backend relevance score; normalization happens in the exact-match
// adapter.
type Hit struct {
	ID        string
	Title     string
	Content   string
	Highlight string
	TopicPath string
	Page      int
	RawScore  float64
}

// Candidate is a (document, text) pair offered to the fuzzy and semantic
// strategies for scoring. Title, Page, and TopicPath are optional document
// metadata carried through to results when the provider has them.
type Candidate struct {
	ID        string
	Title     string
	Text      string
	TopicPath string
	Page      int
}
