package request

import (
	"fmt"

	"github.com/kailas-cloud/trident/internal/domain/search/order"
	"github.com/kailas-cloud/trident/internal/domain/search/topic"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultLimit   = 10
	MaxLimit       = 100
)

// Request is a validated search query.
type Request struct {
	query     string
	limit     int
	topicPath string
	sortOrder order.Order
}

// New validates and normalizes search parameters.
// Defaults: limit=10, order=score. An empty topic path means no topic filter.
func New(query string, limit int, topicPath string, sortOrder order.Order) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if sortOrder == "" {
		sortOrder = order.ByScore
	}
	if !sortOrder.IsValid() {
		return Request{}, fmt.Errorf("invalid sort order: %q", sortOrder)
	}
	if topicPath != "" {
		if err := topic.ValidatePath(topicPath); err != nil {
			return Request{}, fmt.Errorf("invalid topic filter: %w", err)
		}
	}
	return Request{
		query:     query,
		limit:     limit,
		topicPath: topicPath,
		sortOrder: sortOrder,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// TopicPath returns the topic filter, empty when unset.
func (r *Request) TopicPath() string { return r.topicPath }

// Order returns the presentation sort order.
func (r *Request) Order() order.Order { return r.sortOrder }
