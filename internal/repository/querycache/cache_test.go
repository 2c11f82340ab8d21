package querycache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kailas-cloud/trident/internal/domain/search/match"
	"github.com/kailas-cloud/trident/internal/domain/search/order"
	"github.com/kailas-cloud/trident/internal/domain/search/result"
)

func makeResults(t *testing.T, ids ...string) []result.Result {
	t.Helper()
	out := make([]result.Result, 0, len(ids))
	for _, id := range ids {
		r, err := result.New(id, "title-"+id, 0, "snippet", 0.5, match.Exact, "", "")
		if err != nil {
			t.Fatalf("make result: %v", err)
		}
		out = append(out, r)
	}
	return out
}

func testKey() Key {
	return Key{Query: "apple", Limit: 10, Topic: "", Order: order.ByScore}
}

func TestGetOrCompute_SecondLookupHitsCache(t *testing.T) {
	cache := New(60*time.Second, 16, nil)

	calls := 0
	compute := func(context.Context) ([]result.Result, error) {
		calls++
		return makeResults(t, "a", "b"), nil
	}

	first, hit, err := cache.GetOrCompute(context.Background(), testKey(), compute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hit {
		t.Error("first lookup must be a miss")
	}

	second, hit, err := cache.GetOrCompute(context.Background(), testKey(), compute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hit {
		t.Error("second lookup must be a hit")
	}
	if calls != 1 {
		t.Errorf("compute invoked %d times, want 1", calls)
	}
	if len(first) != len(second) {
		t.Errorf("cached results differ: %d vs %d", len(first), len(second))
	}
}

func TestGetOrCompute_ExpiredEntryRecomputes(t *testing.T) {
	cache := New(10*time.Second, 16, nil)

	current := time.Unix(1000, 0)
	cache.now = func() time.Time { return current }

	calls := 0
	compute := func(context.Context) ([]result.Result, error) {
		calls++
		return makeResults(t, "a"), nil
	}

	if _, _, err := cache.GetOrCompute(context.Background(), testKey(), compute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Within TTL: served from cache.
	current = current.Add(10 * time.Second)
	if _, hit, _ := cache.GetOrCompute(context.Background(), testKey(), compute); !hit {
		t.Error("lookup at exactly TTL must still hit")
	}

	// Past TTL: entry treated as absent.
	current = current.Add(time.Second)
	if _, hit, _ := cache.GetOrCompute(context.Background(), testKey(), compute); hit {
		t.Error("lookup past TTL must miss")
	}
	if calls != 2 {
		t.Errorf("compute invoked %d times, want 2", calls)
	}
}

func TestGetOrCompute_ZeroTTLDisablesCaching(t *testing.T) {
	cache := New(0, 16, nil)

	calls := 0
	compute := func(context.Context) ([]result.Result, error) {
		calls++
		return makeResults(t, "a"), nil
	}

	for i := 0; i < 3; i++ {
		if _, hit, err := cache.GetOrCompute(context.Background(), testKey(), compute); err != nil || hit {
			t.Fatalf("iteration %d: hit=%v err=%v", i, hit, err)
		}
	}
	if calls != 3 {
		t.Errorf("compute invoked %d times, want 3", calls)
	}
	if cache.Len() != 0 {
		t.Errorf("disabled cache stored %d entries", cache.Len())
	}
}

func TestGetOrCompute_ComputeErrorNotCached(t *testing.T) {
	cache := New(60*time.Second, 16, nil)

	boom := errors.New("backend down")
	calls := 0
	compute := func(context.Context) ([]result.Result, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return makeResults(t, "a"), nil
	}

	if _, _, err := cache.GetOrCompute(context.Background(), testKey(), compute); !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}
	if _, _, err := cache.GetOrCompute(context.Background(), testKey(), compute); err != nil {
		t.Fatalf("retry should recompute, got %v", err)
	}
	if calls != 2 {
		t.Errorf("compute invoked %d times, want 2", calls)
	}
}

func TestGetOrCompute_DistinctKeysDoNotCollide(t *testing.T) {
	cache := New(60*time.Second, 16, nil)

	compute := func(context.Context) ([]result.Result, error) {
		return makeResults(t, "a"), nil
	}

	keys := []Key{
		{Query: "apple", Limit: 10, Order: order.ByScore},
		{Query: "apple", Limit: 20, Order: order.ByScore},
		{Query: "apple", Limit: 10, Topic: "fruit", Order: order.ByScore},
		{Query: "apple", Limit: 10, Order: order.ByName},
	}
	for _, k := range keys {
		if _, hit, _ := cache.GetOrCompute(context.Background(), k, compute); hit {
			t.Errorf("key %+v unexpectedly hit", k)
		}
	}
	if cache.Len() != len(keys) {
		t.Errorf("expected %d entries, got %d", len(keys), cache.Len())
	}
}

func TestGetOrCompute_ConcurrentLookups(t *testing.T) {
	cache := New(60*time.Second, 128, nil)

	compute := func(context.Context) ([]result.Result, error) {
		return makeResults(t, "a"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := testKey()
			key.Limit = n%4 + 1
			for j := 0; j < 50; j++ {
				if _, _, err := cache.GetOrCompute(context.Background(), key, compute); err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
