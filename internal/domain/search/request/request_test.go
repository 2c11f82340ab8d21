package request

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/trident/internal/domain/search/order"
)

func TestNew_Defaults(t *testing.T) {
	req, err := New("hello", 0, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Limit() != DefaultLimit {
		t.Errorf("limit: got %d, want %d", req.Limit(), DefaultLimit)
	}
	if req.Order() != order.ByScore {
		t.Errorf("order: got %q, want %q", req.Order(), order.ByScore)
	}
	if req.TopicPath() != "" {
		t.Errorf("topic: got %q, want empty", req.TopicPath())
	}
}

func TestNew_ClampsLimit(t *testing.T) {
	req, err := New("hello", MaxLimit+50, "", order.ByScore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Limit() != MaxLimit {
		t.Errorf("limit: got %d, want %d", req.Limit(), MaxLimit)
	}
}

func TestNew_NegativeLimitFallsBackToDefault(t *testing.T) {
	req, err := New("hello", -5, "", order.ByScore)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Limit() != DefaultLimit {
		t.Errorf("limit: got %d, want %d", req.Limit(), DefaultLimit)
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	if _, err := New("", 10, "", order.ByScore); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	long := strings.Repeat("a", MaxQueryLength+1)
	if _, err := New(long, 10, "", order.ByScore); err == nil {
		t.Error("expected error for oversized query")
	}
}

func TestNew_InvalidSortOrder(t *testing.T) {
	if _, err := New("hello", 10, "", order.Order("relevance")); err == nil {
		t.Error("expected error for unknown sort order")
	}
}

func TestNew_InvalidTopicPath(t *testing.T) {
	if _, err := New("hello", 10, "/algorithms/", order.ByScore); err == nil {
		t.Error("expected error for topic path with surrounding slashes")
	}
}

func TestNew_ValidTopicPath(t *testing.T) {
	req, err := New("hello", 10, "algorithms/trees", order.ByName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopicPath() != "algorithms/trees" {
		t.Errorf("topic: got %q", req.TopicPath())
	}
	if req.Order() != order.ByName {
		t.Errorf("order: got %q", req.Order())
	}
}
