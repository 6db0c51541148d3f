// Package app provides the orchestration layer for the souq application.
//
// # Overview
//
// This package wires together configuration, the commerce client, the
// cache store, the runner registry, the derived views, and the UI. It is
// the composition root: every dependency is constructed here once and
// shared by reference.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load souq configuration from ~/.config/souq/config.toml
//  2. Load user preferences from ~/.config/souq/prefs.toml
//  3. Initialize the commerce HTTP client
//  4. Build a Session: one cache.Store, one query.Registry, the cart,
//     wishlist, and catalog views, and the health tracker
//  5. Launch the background refresh loop
//  6. Warm the cache with an initial ensure pass
//  7. Start the TUI and block until the user exits or the context cancels
//
// # Refresh Loop
//
// The poller runs continuously at a configurable interval (default: 2
// seconds). Each cycle runs every runner's interval trigger; runners
// decide individually whether their entry is due. The cart's fetch
// outcome feeds the health tracker, and the first success after an
// offline streak triggers a full refetch of every resource.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file unreadable or invalid
//   - Commerce client initialization failure
//
// Recoverable errors (recorded in cache entries, loop continues):
//   - Any fetch failure; the previous value keeps being served and the
//     error is surfaced alongside it
//
// There is deliberately no startup reachability check: an unreachable
// API yields an empty UI with an offline indicator rather than a refusal
// to start, and the session recovers on its own once the API returns.
//
// # Usage Example
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{PollEvery: 2}); err != nil {
//		log.Fatalf("souq failed: %v", err)
//	}
package app
