package embcache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

type stubProvider struct {
	calls map[string]int
	err   error
}

func newStubProvider() *stubProvider {
	return &stubProvider{calls: map[string]int{}}
}

func (s *stubProvider) Embed(_ context.Context, text string) ([]float32, error) {
	s.calls[text]++
	if s.err != nil {
		return nil, s.err
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func TestEmbed_HitSkipsProvider(t *testing.T) {
	provider := newStubProvider()
	cached, err := New(provider, 10, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := cached.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.calls["hello"] != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls["hello"])
	}
	if len(first) != len(second) {
		t.Errorf("cached vector differs: %v vs %v", first, second)
	}
}

func TestEmbed_ProviderErrorNotCached(t *testing.T) {
	provider := newStubProvider()
	provider.err = errors.New("provider down")
	cached, err := New(provider, 10, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := cached.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected provider error")
	}

	provider.err = nil
	if _, err := cached.Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("retry should reach the provider: %v", err)
	}
	if provider.calls["hello"] != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls["hello"])
	}
}

func TestEmbed_EvictsInAccessOrder(t *testing.T) {
	provider := newStubProvider()
	cached, err := New(provider, 2, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	mustEmbed := func(text string) {
		t.Helper()
		if _, err := cached.Embed(ctx, text); err != nil {
			t.Fatalf("embed %q: %v", text, err)
		}
	}

	mustEmbed("a")
	mustEmbed("b")
	mustEmbed("a") // refresh "a"; "b" is now least recently used
	mustEmbed("c") // evicts "b"

	mustEmbed("a")
	if provider.calls["a"] != 1 {
		t.Errorf("refreshed entry evicted: provider called %d times for a", provider.calls["a"])
	}
	mustEmbed("b")
	if provider.calls["b"] != 2 {
		t.Errorf("expected b to be recomputed after eviction, calls=%d", provider.calls["b"])
	}
}

func TestEmbed_CapacityBound(t *testing.T) {
	provider := newStubProvider()
	cached, err := New(provider, 4, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 20; i++ {
		if _, err := cached.Embed(context.Background(), fmt.Sprintf("text-%d", i)); err != nil {
			t.Fatalf("embed: %v", err)
		}
	}
	if cached.Len() != 4 {
		t.Errorf("cache holds %d entries, want 4", cached.Len())
	}
}
