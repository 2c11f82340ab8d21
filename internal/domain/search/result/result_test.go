package result

import (
	"testing"

	"github.com/kailas-cloud/trident/internal/domain/search/match"
)

func TestNew_Valid(t *testing.T) {
	r, err := New("doc-1", "Doc One", 2, "snippet text", 0.75, match.Exact, "<em>snippet</em> text", "guides/intro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.DocumentID() != "doc-1" {
		t.Errorf("document id: got %q", r.DocumentID())
	}
	if r.PageNumber() != 2 {
		t.Errorf("page: got %d", r.PageNumber())
	}
	if r.Score() != 0.75 {
		t.Errorf("score: got %g", r.Score())
	}
	if r.MatchType() != match.Exact {
		t.Errorf("match type: got %q", r.MatchType())
	}
	if r.TopicPath() != "guides/intro" {
		t.Errorf("topic path: got %q", r.TopicPath())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		page      int
		score     float64
		matchType match.Type
		topicPath string
	}{
		{"empty id", "", 0, 0.5, match.Exact, ""},
		{"negative page", "doc-1", -1, 0.5, match.Exact, ""},
		{"score below zero", "doc-1", 0, -0.1, match.Exact, ""},
		{"score above one", "doc-1", 0, 1.1, match.Exact, ""},
		{"unknown match type", "doc-1", 0, 0.5, match.Type("regex"), ""},
		{"bad topic path", "doc-1", 0, 0.5, match.Exact, "/bad/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.id, "", tt.page, "", tt.score, tt.matchType, "", tt.topicPath)
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNew_BoundaryScores(t *testing.T) {
	for _, score := range []float64{0.0, 1.0} {
		if _, err := New("doc-1", "", 0, "", score, match.Semantic, "", ""); err != nil {
			t.Errorf("score %g should be valid: %v", score, err)
		}
	}
}
