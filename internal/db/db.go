// Package db defines the storage contract the engine reads the document
// index through. Implementations live in subpackages (redis).
package db

import (
	"context"
	"time"
)

// Store is the read-side database facade. Consumers depend on the narrow
// sub-interfaces, not the facade.
type Store interface {
	Pinger
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TextQuery is a rendered full-text query against an FT index.
type TextQuery struct {
	IndexName    string
	Query        string // already in backend query syntax
	TopK         int
	ReturnFields []string
	// Highlight wraps matched content terms in highlight tags.
	Highlight      bool
	HighlightField string
}

// SearchEntry is one hit returned by the index.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// SearchResult holds search hits plus the total match count.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// Searcher provides full-text search over an existing FT index.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
}
