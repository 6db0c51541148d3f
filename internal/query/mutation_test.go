package query

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"souq/internal/cache"
)

func TestMutation_InvalidatesAndRefetchesDeclaredKeys(t *testing.T) {
	store := cache.NewStore()
	registry := NewRegistry()

	var fetches atomic.Int32
	serverValue := atomic.Value{}
	serverValue.Store("before")
	cartKey := cache.NewKey("cart")
	runner := NewRunner(store, cartKey, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return serverValue.Load().(string), nil
	}, Policy{StaleAfter: time.Hour})
	registry.Add(runner)

	ctx := context.Background()
	runner.Ensure(ctx)
	if got := fetches.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}

	add := NewMutation(store, registry, func(ctx context.Context, productID string) (string, error) {
		serverValue.Store("after " + productID)
		return "ok", nil
	}, cartKey)

	result, err := add.Do(ctx, "p1")
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if result != "ok" {
		t.Fatalf("Do result = %q, want ok", result)
	}
	if got := fetches.Load(); got != 2 {
		t.Fatalf("fetch calls after mutation = %d, want 2 (refetch triggered)", got)
	}
	if value, _ := runner.Value(); value != "after p1" {
		t.Fatalf("cached value = %q, want refetched server state", value)
	}

	entry, _ := store.Get(cartKey)
	if entry.Invalid {
		t.Fatal("entry still invalid after refetch resolved")
	}
}

func TestMutation_FailureStillInvalidatesAndRethrows(t *testing.T) {
	store := cache.NewStore()
	registry := NewRegistry()

	var fetches atomic.Int32
	key := cache.NewKey("wishlist")
	runner := NewRunner(store, key, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "server", nil
	}, Policy{StaleAfter: time.Hour})
	registry.Add(runner)
	runner.Ensure(context.Background())
	fetches.Store(0)

	writeErr := errors.New("403 forbidden")
	toggle := NewMutation(store, registry, func(ctx context.Context, id string) (struct{}, error) {
		return struct{}{}, writeErr
	}, key)

	_, err := toggle.Do(context.Background(), "p1")
	if !errors.Is(err, writeErr) {
		t.Fatalf("Do error = %v, want original write error rethrown", err)
	}
	// A failed write may have partially applied; the refetch reconciles.
	if got := fetches.Load(); got != 1 {
		t.Fatalf("fetch calls after failed mutation = %d, want 1", got)
	}
	if value, ok := runner.Value(); !ok || value != "server" {
		t.Fatalf("cached value = %q, %v, want server state", value, ok)
	}
}

func TestMutation_KeysWithoutRunnersAreIgnored(t *testing.T) {
	store := cache.NewStore()
	registry := NewRegistry()

	m := NewMutation(store, registry, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, nil
	}, cache.NewKey("never-read"))

	if _, err := m.Do(context.Background(), struct{}{}); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
}

func TestMutation_NilRefetcherDefersToNextTick(t *testing.T) {
	store := cache.NewStore()
	key := cache.NewKey("cart")

	var fetches atomic.Int32
	runner := NewRunner(store, key, func(ctx context.Context) (string, error) {
		fetches.Add(1)
		return "v", nil
	}, Policy{StaleAfter: time.Hour, RefetchInterval: time.Hour})
	runner.Ensure(context.Background())
	fetches.Store(0)

	m := NewMutation[struct{}, struct{}](store, nil, func(ctx context.Context, _ struct{}) (struct{}, error) {
		return struct{}{}, nil
	}, key)
	if _, err := m.Do(context.Background(), struct{}{}); err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if got := fetches.Load(); got != 0 {
		t.Fatalf("fetch calls with nil refetcher = %d, want 0 immediately", got)
	}

	// The invalid flag makes the next tick refetch despite the long interval.
	runner.Tick(context.Background())
	if got := fetches.Load(); got != 1 {
		t.Fatalf("fetch calls after tick = %d, want 1", got)
	}
}

func TestRegistry_BroadcastAndLookup(t *testing.T) {
	store := cache.NewStore()
	registry := NewRegistry()

	var a, b atomic.Int32
	ra := NewRunner(store, cache.NewKey("a"), func(ctx context.Context) (int, error) {
		a.Add(1)
		return 1, nil
	}, Policy{StaleAfter: time.Hour, RefetchOnReconnect: true})
	rb := NewRunner(store, cache.NewKey("b"), func(ctx context.Context) (int, error) {
		b.Add(1)
		return 2, nil
	}, Policy{StaleAfter: time.Hour})
	registry.Add(ra)
	registry.Add(rb)

	ctx := context.Background()
	registry.EnsureAll(ctx)
	if a.Load() != 1 || b.Load() != 1 {
		t.Fatalf("EnsureAll fetches = %d/%d, want 1/1", a.Load(), b.Load())
	}

	registry.ReconnectAll(ctx)
	if a.Load() != 2 || b.Load() != 1 {
		t.Fatalf("ReconnectAll fetches = %d/%d, want 2/1 (policy-gated)", a.Load(), b.Load())
	}

	registry.RefetchKey(ctx, cache.NewKey("b"))
	if b.Load() != 2 {
		t.Fatalf("RefetchKey fetches = %d, want 2", b.Load())
	}
	registry.RefetchKey(ctx, cache.NewKey("missing")) // no panic

	if _, ok := registry.Lookup(cache.NewKey("a")); !ok {
		t.Fatal("Lookup(a) = false, want registered runner")
	}
}
