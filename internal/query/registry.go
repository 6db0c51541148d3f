package query

import (
	"context"

	"souq/internal/cache"
)

// Refresher is the type-erased runner surface the registry works with.
// *Runner[T] implements it for every T.
type Refresher interface {
	Key() cache.Key
	Ensure(ctx context.Context)
	Refetch(ctx context.Context)
	Tick(ctx context.Context)
	OnFocus(ctx context.Context)
	OnReconnect(ctx context.Context)
}

// Registry tracks every runner in the session so mutations and the
// refresh loop can address them by key or broadcast to all of them.
// Registration happens during startup wiring; after that the registry
// is read-only, so lookups take no lock.
type Registry struct {
	runners map[string]Refresher
	order   []Refresher
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]Refresher)}
}

// Add registers a runner. Re-adding a key replaces the earlier runner.
func (g *Registry) Add(r Refresher) {
	id := r.Key().String()
	if _, exists := g.runners[id]; !exists {
		g.order = append(g.order, r)
	} else {
		for i, existing := range g.order {
			if existing.Key().String() == id {
				g.order[i] = r
				break
			}
		}
	}
	g.runners[id] = r
}

// Lookup returns the runner registered for key, if any.
func (g *Registry) Lookup(key cache.Key) (Refresher, bool) {
	r, ok := g.runners[key.String()]
	return r, ok
}

// RefetchKey refetches the runner owning key. Keys without a runner are
// ignored; a mutation may invalidate a key whose resource was never read
// this session.
func (g *Registry) RefetchKey(ctx context.Context, key cache.Key) {
	if r, ok := g.runners[key.String()]; ok {
		r.Refetch(ctx)
	}
}

// EnsureAll runs the ensure check on every runner.
func (g *Registry) EnsureAll(ctx context.Context) {
	for _, r := range g.order {
		r.Ensure(ctx)
	}
}

// TickAll evaluates the interval trigger on every runner.
func (g *Registry) TickAll(ctx context.Context) {
	for _, r := range g.order {
		r.Tick(ctx)
	}
}

// FocusAll evaluates the focus trigger on every runner.
func (g *Registry) FocusAll(ctx context.Context) {
	for _, r := range g.order {
		r.OnFocus(ctx)
	}
}

// ReconnectAll evaluates the reconnect trigger on every runner.
func (g *Registry) ReconnectAll(ctx context.Context) {
	for _, r := range g.order {
		r.OnReconnect(ctx)
	}
}
