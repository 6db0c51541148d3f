package query

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"souq/internal/cache"
)

// Policy configures how aggressively a runner keeps its key fresh.
type Policy struct {
	// StaleAfter is the freshness window: a cached value older than this
	// is refetched on the next read trigger.
	StaleAfter time.Duration

	// RefetchInterval triggers a background refetch this long after the
	// last successful fetch, regardless of reads. Zero disables it.
	RefetchInterval time.Duration

	RefetchOnFocus     bool
	RefetchOnReconnect bool
}

// FetchFunc loads the authoritative value for a key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Runner binds one cache key to its fetch function and keeps the entry
// fresh according to Policy. All fetches for the key flow through one
// singleflight group, so concurrent triggers share a single network call.
type Runner[T any] struct {
	store  *cache.Store
	key    cache.Key
	fetch  FetchFunc[T]
	policy Policy
	sf     singleflight.Group
}

// NewRunner builds a runner. The cache entry is created lazily on first
// fetch or subscription.
func NewRunner[T any](store *cache.Store, key cache.Key, fetch FetchFunc[T], policy Policy) *Runner[T] {
	return &Runner[T]{store: store, key: key, fetch: fetch, policy: policy}
}

// Key returns the cache key this runner owns.
func (r *Runner[T]) Key() cache.Key { return r.key }

// Ensure fetches if the entry is missing, invalidated, or older than the
// freshness window; otherwise it is a no-op. With a cached value present
// the refetch runs as a background refresh and readers keep the old value.
func (r *Runner[T]) Ensure(ctx context.Context) {
	if entry, ok := r.store.Get(r.key); ok && !entry.IsStale(time.Now()) {
		return
	}
	r.do(ctx)
}

// Refetch fetches unconditionally. Concurrent calls are still coalesced.
func (r *Runner[T]) Refetch(ctx context.Context) {
	r.do(ctx)
}

// Tick evaluates the interval trigger. Called from the shared refresh
// ticker.
func (r *Runner[T]) Tick(ctx context.Context) {
	entry, ok := r.store.Get(r.key)
	if !ok || entry.Invalid || !entry.HasValue() {
		r.do(ctx)
		return
	}
	if r.policy.RefetchInterval > 0 && time.Since(entry.LastFetchedAt) >= r.policy.RefetchInterval {
		r.do(ctx)
	}
}

// OnFocus evaluates the focus trigger: a refetch happens only when the
// entry has gone stale while the terminal was unfocused.
func (r *Runner[T]) OnFocus(ctx context.Context) {
	if r.policy.RefetchOnFocus {
		r.Ensure(ctx)
	}
}

// OnReconnect evaluates the reconnect trigger. The offline period usually
// exceeds any freshness window, so this refetches unconditionally.
func (r *Runner[T]) OnReconnect(ctx context.Context) {
	if r.policy.RefetchOnReconnect {
		r.do(ctx)
	}
}

// Subscribe registers fn against the runner's key.
func (r *Runner[T]) Subscribe(fn func(cache.Entry)) func() {
	return r.store.Subscribe(r.key, fn)
}

// Result is a typed snapshot of the runner's cache entry.
type Result[T any] struct {
	Value         T
	HasValue      bool
	Loading       bool // first load in flight, nothing to show yet
	Refreshing    bool // background refetch with a prior value on screen
	Err           error
	LastFetchedAt time.Time
}

// Snapshot returns the current state of the entry without triggering any
// fetch.
func (r *Runner[T]) Snapshot() Result[T] {
	entry, ok := r.store.Get(r.key)
	if !ok {
		return Result[T]{}
	}
	res := Result[T]{
		Loading:       entry.Status == cache.StatusLoading,
		Refreshing:    entry.Refreshing,
		Err:           entry.Err,
		LastFetchedAt: entry.LastFetchedAt,
	}
	if value, ok := entry.Value.(T); ok {
		res.Value = value
		res.HasValue = true
	}
	return res
}

// Value returns the cached payload, if any.
func (r *Runner[T]) Value() (T, bool) {
	res := r.Snapshot()
	return res.Value, res.HasValue
}

func (r *Runner[T]) do(ctx context.Context) {
	_, _, _ = r.sf.Do(r.key.String(), func() (any, error) {
		seq := r.store.BeginFetch(r.key, r.policy.StaleAfter)
		value, err := r.fetch(ctx)
		if err != nil {
			r.store.Complete(r.key, seq, nil, err)
			return nil, err
		}
		r.store.Complete(r.key, seq, value, nil)
		return value, nil
	})
}
