// Package fulltext adapts a RediSearch FT index to the engine's full-text
// backend contract.
package fulltext

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/trident/internal/boolquery"
	"github.com/kailas-cloud/trident/internal/db"
	dbredis "github.com/kailas-cloud/trident/internal/db/redis"
	"github.com/kailas-cloud/trident/internal/domain"
	"github.com/kailas-cloud/trident/internal/domain/search/source"
)

// Document hash field names in the index.
const (
	fieldTitle   = "title"
	fieldContent = "content"
	fieldPage    = "page"
	fieldTopic   = "topic"
)

// Repo queries an existing document index for exact-match hits.
type Repo struct {
	store     db.Searcher
	indexName string
	keyPrefix string
}

// New creates a full-text repository over an FT index.
func New(store db.Searcher, indexName, keyPrefix string) *Repo {
	return &Repo{store: store, indexName: indexName, keyPrefix: keyPrefix}
}

// Search runs the compiled query against the index, optionally restricted to
// an exact topic path, and returns raw hits with backend scores and
// highlighted content.
func (r *Repo) Search(
	ctx context.Context, q boolquery.Query, topicPath string, limit int,
) ([]source.Hit, error) {
	res, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:      r.indexName,
		Query:          Render(q, topicPath),
		TopK:           limit,
		ReturnFields:   []string{fieldTitle, fieldContent, fieldPage, fieldTopic},
		Highlight:      true,
		HighlightField: fieldContent,
	})
	if err != nil {
		return nil, fmt.Errorf("full-text search: %w: %w", domain.ErrBackendUnavailable, err)
	}

	hits := make([]source.Hit, 0, len(res.Entries))
	for _, e := range res.Entries {
		hits = append(hits, r.hitFromEntry(e))
	}
	return hits, nil
}

func (r *Repo) hitFromEntry(e db.SearchEntry) source.Hit {
	content := e.Fields[fieldContent]
	hit := source.Hit{
		ID:        strings.TrimPrefix(e.Key, r.keyPrefix),
		Title:     e.Fields[fieldTitle],
		TopicPath: e.Fields[fieldTopic],
		RawScore:  e.Score,
	}

	// With highlighting on, the content field comes back tagged only when it
	// actually matched; otherwise it is the stored text.
	if strings.Contains(content, dbredis.HighlightOpenTag) {
		hit.Highlight = content
		hit.Content = stripHighlight(content)
	} else {
		hit.Content = content
	}

	if page, err := strconv.Atoi(e.Fields[fieldPage]); err == nil && page >= 0 {
		hit.Page = page
	}
	return hit
}

var highlightStripper = strings.NewReplacer(
	dbredis.HighlightOpenTag, "",
	dbredis.HighlightCloseTag, "",
)

func stripHighlight(s string) string {
	return highlightStripper.Replace(s)
}
