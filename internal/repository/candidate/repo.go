// Package candidate serves (document, text) pairs to the fuzzy and semantic
// strategies and to the suggestion engine.
package candidate

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/trident/internal/db"
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

// Repo pulls candidate texts from the document index. Recall matters more
// than precision here: each query term is expanded to a prefix match, and the
// strategies re-score every candidate themselves.
type Repo struct {
	store     db.Searcher
	indexName string
	keyPrefix string
}

// New creates a candidate provider over an FT index.
func New(store db.Searcher, indexName, keyPrefix string) *Repo {
	return &Repo{store: store, indexName: indexName, keyPrefix: keyPrefix}
}

// Candidates returns up to n (document_id, text) pairs matching the query.
func (r *Repo) Candidates(ctx context.Context, query string, n int) ([]source.Candidate, error) {
	if n <= 0 {
		return nil, nil
	}

	res, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.indexName,
		Query:        renderRecallQuery(query),
		TopK:         n,
		ReturnFields: []string{fieldTitle, fieldContent, fieldPage, fieldTopic},
	})
	if err != nil {
		return nil, fmt.Errorf("candidate search: %w: %w", domain.ErrBackendUnavailable, err)
	}

	out := make([]source.Candidate, 0, len(res.Entries))
	for _, e := range res.Entries {
		c := source.Candidate{
			ID:        strings.TrimPrefix(e.Key, r.keyPrefix),
			Title:     e.Fields[fieldTitle],
			Text:      e.Fields[fieldContent],
			TopicPath: e.Fields[fieldTopic],
		}
		if page, err := strconv.Atoi(e.Fields[fieldPage]); err == nil && page >= 0 {
			c.Page = page
		}
		out = append(out, c)
	}
	return out, nil
}

// renderRecallQuery turns free text into a broad prefix-match disjunction:
// "hel wor" -> "(hel* | wor*)".
func renderRecallQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, escapeTerm(t)+"*")
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

var termEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)

func escapeTerm(s string) string {
	return termEscaper.Replace(s)
}
