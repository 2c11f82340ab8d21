package result

import (
	"fmt"

	"github.com/kailas-cloud/trident/internal/domain/search/match"
	"github.com/kailas-cloud/trident/internal/domain/search/topic"
)

// Result is a single scored search hit. Immutable once created.
type Result struct {
	documentID    string
	documentTitle string
	pageNumber    int
	snippet       string
	score         float64
	matchType     match.Type
	highlighted   string
	topicPath     string
}

// New validates and creates a search result.
// Score must be in [0, 1], page number non-negative, and topicPath (when
// non-empty) a valid slash-delimited path.
func New(
	documentID, documentTitle string, pageNumber int,
	snippet string, score float64, matchType match.Type,
	highlighted, topicPath string,
) (Result, error) {
	if documentID == "" {
		return Result{}, fmt.Errorf("document id is required")
	}
	if pageNumber < 0 {
		return Result{}, fmt.Errorf("page number must be >= 0, got %d", pageNumber)
	}
	if score < 0 || score > 1 {
		return Result{}, fmt.Errorf("relevance score must be in [0, 1], got %g", score)
	}
	if !matchType.IsValid() {
		return Result{}, fmt.Errorf("invalid match type: %q", matchType)
	}
	if topicPath != "" {
		if err := topic.ValidatePath(topicPath); err != nil {
			return Result{}, err
		}
	}
	return Result{
		documentID:    documentID,
		documentTitle: documentTitle,
		pageNumber:    pageNumber,
		snippet:       snippet,
		score:         score,
		matchType:     matchType,
		highlighted:   highlighted,
		topicPath:     topicPath,
	}, nil
}

// DocumentID returns the opaque document identifier.
func (r *Result) DocumentID() string { return r.documentID }

// DocumentTitle returns the document title.
func (r *Result) DocumentTitle() string { return r.documentTitle }

// PageNumber returns the page the hit was found on.
func (r *Result) PageNumber() int { return r.pageNumber }

// Snippet returns the bounded text excerpt.
func (r *Result) Snippet() string { return r.snippet }

// Score returns the weighted relevance score in [0, 1].
func (r *Result) Score() float64 { return r.score }

// MatchType returns the strategy that produced this result.
func (r *Result) MatchType() match.Type { return r.matchType }

// Highlighted returns the highlighted excerpt, if any.
func (r *Result) Highlighted() string { return r.highlighted }

// TopicPath returns the slash-delimited topic path, empty when unset.
func (r *Result) TopicPath() string { return r.topicPath }
