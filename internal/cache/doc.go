// Package cache provides the keyed store at the center of souq's data
// synchronization layer.
//
// # Overview
//
// Every server-backed resource (cart, wishlist, product lists, catalog
// metadata) lives in this store under a structural Key. An Entry tracks the
// last successfully fetched payload together with its fetch status, error,
// age, and freshness window. The store itself never touches the network;
// the query package is the only writer, and views subscribe for change
// notifications.
//
// # Staleness Contract
//
// The store implements stale-while-revalidate and stale-while-error:
//
//   - A refetch with a prior value present keeps serving that value and
//     only raises the Refreshing flag (no UI flash to empty).
//   - A failed refetch records the error and flips Status to error, but
//     the previous value stays servable.
//   - Invalidate marks an entry due for refetch without clearing it.
//
// # Sequence Guarding
//
// Fetches are tagged with a per-key monotonic sequence at BeginFetch.
// Complete discards resolutions older than the newest one already applied,
// so a slow fetch that started before an invalidation can never overwrite
// the result of the refetch that invalidation triggered. Resolve order,
// not start order, determines final state.
//
// # Concurrency
//
// All access is mutex-guarded and entries are returned by value.
// Notifications run synchronously after each entry change, outside the
// lock, so listeners may read the store or trigger refetches.
//
// # Lifecycle
//
// Entries are created on first fetch or subscription and live for the
// application session. Unsubscribing stops delivery but intentionally
// keeps the entry: an in-flight fetch whose subscriber went away still
// completes and benefits the next reader of the same key.
package cache
