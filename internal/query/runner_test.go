package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"souq/internal/cache"
)

func TestRunner_EnsureFetchesOnceWhileFresh(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	r := NewRunner(store, cache.NewKey("cart"), func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "v1", nil
	}, Policy{StaleAfter: time.Minute})

	ctx := context.Background()
	r.Ensure(ctx)
	r.Ensure(ctx)
	r.Ensure(ctx)

	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1 while fresh", got)
	}
	value, ok := r.Value()
	if !ok || value != "v1" {
		t.Fatalf("Value = %q, %v, want v1", value, ok)
	}
}

func TestRunner_ConcurrentTriggersShareOneFetch(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	release := make(chan struct{})
	r := NewRunner(store, cache.NewKey("products"), func(ctx context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"p1"}, nil
	}, Policy{StaleAfter: time.Minute})

	ctx := context.Background()
	started := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-started
			r.Refetch(ctx)
		}()
	}
	close(started)

	// Wait until the first caller is inside the fetch, then release it.
	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("fetch never started")
		case <-time.After(time.Millisecond):
		}
	}
	close(release)
	wg.Wait()

	// Eight triggers while one fetch was in flight must not spawn eight
	// network calls. Goroutines arriving after the flight ends may start a
	// second one, so allow a small number, never the full fan-in.
	if got := calls.Load(); got >= 8 {
		t.Fatalf("fetch calls = %d, want coalesced (< 8)", got)
	}
	value, ok := r.Value()
	if !ok || len(value) != 1 {
		t.Fatalf("Value = %v, %v, want shared result", value, ok)
	}
}

func TestRunner_StaleWhileRevalidate(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	release := make(chan struct{})
	r := NewRunner(store, cache.NewKey("wishlist"), func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "old", nil
		}
		<-release
		return "new", nil
	}, Policy{StaleAfter: 0})

	ctx := context.Background()
	r.Refetch(ctx)

	done := make(chan struct{})
	go func() {
		r.Refetch(ctx)
		close(done)
	}()

	// While the refetch is in flight, the old value stays visible and the
	// snapshot reports Refreshing rather than Loading.
	deadline := time.After(2 * time.Second)
	for {
		snap := r.Snapshot()
		if snap.Refreshing {
			if !snap.HasValue || snap.Value != "old" {
				t.Fatalf("snapshot during refresh = %+v, want old value retained", snap)
			}
			if snap.Loading {
				t.Fatalf("snapshot during refresh reports Loading, want Refreshing only")
			}
			break
		}
		select {
		case <-deadline:
			t.Fatal("refresh never observed")
		case <-time.After(time.Millisecond):
		}
	}
	close(release)
	<-done

	snap := r.Snapshot()
	if snap.Value != "new" || snap.Refreshing {
		t.Fatalf("snapshot after refresh = %+v, want new value, not refreshing", snap)
	}
}

func TestRunner_StaleWhileError(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	fetchErr := errors.New("upstream down")
	r := NewRunner(store, cache.NewKey("brands"), func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "cached", nil
		}
		return "", fetchErr
	}, Policy{})

	ctx := context.Background()
	r.Refetch(ctx)
	r.Refetch(ctx)

	snap := r.Snapshot()
	if !snap.HasValue || snap.Value != "cached" {
		t.Fatalf("snapshot after failed refresh = %+v, want cached value retained", snap)
	}
	if !errors.Is(snap.Err, fetchErr) {
		t.Fatalf("snapshot error = %v, want %v surfaced alongside value", snap.Err, fetchErr)
	}
}

func TestRunner_TickRespectsInterval(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	r := NewRunner(store, cache.NewKey("categories"), func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}, Policy{StaleAfter: time.Hour, RefetchInterval: time.Hour})

	ctx := context.Background()
	r.Tick(ctx) // empty entry, fetches
	r.Tick(ctx) // fresh and inside interval, no-op
	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}

	store.Invalidate(r.Key())
	r.Tick(ctx) // invalidated, fetches regardless of age
	if got := calls.Load(); got != 2 {
		t.Fatalf("fetch calls after invalidate = %d, want 2", got)
	}
}

func TestRunner_FocusAndReconnectHonorPolicy(t *testing.T) {
	store := cache.NewStore()
	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "v", nil
	}
	ctx := context.Background()

	off := NewRunner(store, cache.NewKey("a"), fetch, Policy{StaleAfter: time.Hour})
	off.Refetch(ctx)
	calls.Store(0)
	off.OnFocus(ctx)
	off.OnReconnect(ctx)
	if got := calls.Load(); got != 0 {
		t.Fatalf("fetch calls with triggers disabled = %d, want 0", got)
	}

	on := NewRunner(store, cache.NewKey("b"), fetch, Policy{
		StaleAfter:         time.Hour,
		RefetchOnFocus:     true,
		RefetchOnReconnect: true,
	})
	on.Refetch(ctx)
	calls.Store(0)

	// Focus follows freshness: a fresh entry is left alone.
	on.OnFocus(ctx)
	if got := calls.Load(); got != 0 {
		t.Fatalf("fetch calls on focus while fresh = %d, want 0", got)
	}

	// Reconnect always refetches: the offline gap invalidates any window.
	on.OnReconnect(ctx)
	if got := calls.Load(); got != 1 {
		t.Fatalf("fetch calls on reconnect = %d, want 1", got)
	}
}
