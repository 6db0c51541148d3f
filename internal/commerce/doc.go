// Package commerce provides the HTTP client for the remote storefront API.
//
// # Overview
//
// This package owns all network communication: typed request functions for
// cart, wishlist, and catalog resources, JSON decoding, and normalization
// of the upstream API's inconsistent payload shapes. It performs no
// caching and no retries; freshness and reconciliation are the query
// layer's job.
//
// # Client Usage
//
//	client, err := commerce.NewClient(cfg.BaseURL, commerce.StaticToken(cfg.Token))
//	if err != nil {
//		return fmt.Errorf("init commerce client: %w", err)
//	}
//	cart, err := client.GetCart(ctx)
//
// # Normalization
//
// The upstream API identifies the same product as "product._id", "_id", or
// "id" depending on endpoint and nesting. Every response is converted to a
// canonical shape at this boundary (see normalize.go), so the cache, views,
// and UI only ever compare canonical IDs. Cart count and total price are
// carried through verbatim from the server envelope; they are authoritative
// and never recomputed from the line items.
//
// # Authentication
//
// A TokenSource supplies the current bearer token, attached as the "token"
// header on every request when present. The client does not log in,
// refresh, or persist tokens.
//
// # Error Handling
//
// All errors are wrapped with short operation context:
//
//   - "execute request: dial tcp: connection refused"
//   - "api cart returned status 401: Unauthorized"
//   - "decode response: unexpected end of JSON input"
//
// Transport failures and server-reported failures are not distinguished
// structurally; callers that only need "did it work" treat both the same,
// which is all the synchronization layer requires.
//
// # Thread Safety
//
// The Client is safe for concurrent use; the underlying http.Client pools
// connections internally. Requests carry a 10 second timeout on top of any
// context deadline.
package commerce
