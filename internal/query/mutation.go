package query

import (
	"context"

	"souq/internal/cache"
)

// KeyRefetcher triggers a refetch for a single key. *Registry implements
// it; tests substitute a recorder.
type KeyRefetcher interface {
	RefetchKey(ctx context.Context, key cache.Key)
}

// MutationFunc performs the remote write.
type MutationFunc[A, R any] func(ctx context.Context, args A) (R, error)

// Mutation wraps a remote write with the invalidation protocol: after the
// write settles, every declared key is marked invalid and refetched, and
// the write's result is passed through unchanged. Invalidation happens on
// failure too; a failed write may still have changed server state.
type Mutation[A, R any] struct {
	store       *cache.Store
	refetch     KeyRefetcher
	run         MutationFunc[A, R]
	invalidates []cache.Key
}

// NewMutation builds a mutation that invalidates the given keys after
// every run. refetch may be nil, leaving the refetch to the next tick.
func NewMutation[A, R any](store *cache.Store, refetch KeyRefetcher, run MutationFunc[A, R], invalidates ...cache.Key) *Mutation[A, R] {
	return &Mutation[A, R]{store: store, refetch: refetch, run: run, invalidates: invalidates}
}

// Do executes the write, invalidates the declared keys, triggers their
// refetch, and returns the write's result and error verbatim. There is no
// retry; the caller decides how to surface the failure.
func (m *Mutation[A, R]) Do(ctx context.Context, args A) (R, error) {
	result, err := m.run(ctx, args)

	for _, key := range m.invalidates {
		m.store.Invalidate(key)
	}
	if m.refetch != nil {
		for _, key := range m.invalidates {
			m.refetch.RefetchKey(ctx, key)
		}
	}
	return result, err
}
