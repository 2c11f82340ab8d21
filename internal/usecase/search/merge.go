package search

import (
	"sort"

	"github.com/kailas-cloud/trident/internal/domain/search/order"
	"github.com/kailas-cloud/trident/internal/domain/search/result"
)

type mergeKey struct {
	documentID string
	page       int
}

// mergeResults deduplicates the per-strategy lists by (document, page),
// keeping the highest score. Equal scores keep the first-seen result; the
// caller passes lists in a fixed strategy order, so ties are deterministic.
func mergeResults(lists [][]result.Result, limit int, sortOrder order.Order) []result.Result {
	merged := make(map[mergeKey]result.Result)
	var keys []mergeKey

	for _, list := range lists {
		for _, r := range list {
			key := mergeKey{documentID: r.DocumentID(), page: r.PageNumber()}
			existing, ok := merged[key]
			if !ok {
				merged[key] = r
				keys = append(keys, key)
				continue
			}
			if r.Score() > existing.Score() {
				merged[key] = r
			}
		}
	}

	// Iterate insertion order, not map order, for run-to-run determinism.
	results := make([]result.Result, 0, len(keys))
	for _, key := range keys {
		results = append(results, merged[key])
	}

	switch sortOrder {
	case order.ByName:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].DocumentTitle() < results[j].DocumentTitle()
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score() > results[j].Score()
		})
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
