// Package query keeps cache entries fresh and runs the mutation protocol.
//
// # Overview
//
// A Runner binds one cache key to the fetch function that loads it and
// decides, per trigger, whether a network call is warranted. A Mutation
// wraps a remote write and invalidates the declared keys afterwards. The
// Registry holds every runner in the session so mutations and the refresh
// loop can reach them.
//
// # Triggers
//
// Four events can cause a refetch:
//
//   - interval: the shared ticker calls Tick, which refetches once the
//     entry is older than the runner's RefetchInterval
//   - focus: the terminal regained focus; refetches only entries past
//     their freshness window
//   - reconnect: the API became reachable after a run of failures;
//     refetches unconditionally
//   - invalidation: a mutation settled and named the key
//
// However a fetch is triggered, concurrent triggers for one key collapse
// into a single network call via singleflight, and resolutions are
// sequence-guarded by the store so a slow old response can never
// overwrite a newer one.
//
// # Mutations
//
// Mutation.Do runs the remote write, then invalidates and refetches every
// declared key whether the write succeeded or failed, then returns the
// write's error verbatim. Failed writes still invalidate because the
// server may have partially applied them; the follow-up fetch is what
// reconciles the client with whatever the server actually did. There are
// no retries at this layer.
//
// # Usage
//
//	cartRunner := query.NewRunner(store, cartKey, fetchCart, query.Policy{
//		StaleAfter:      5 * time.Second,
//		RefetchInterval: 3 * time.Second,
//		RefetchOnFocus:  true,
//	})
//	registry.Add(cartRunner)
//
//	addToCart := query.NewMutation(store, registry, doAdd, cartKey)
//	if _, err := addToCart.Do(ctx, productID); err != nil { ... }
package query
