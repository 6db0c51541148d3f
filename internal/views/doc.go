// Package views derives render-ready state from the cache and runs the
// optimistic-update protocol for cart and wishlist membership.
//
// # Overview
//
// Each view owns the runners and mutations for one resource family:
//
//   - CartView: the cart with line quantities, server-reported count and
//     total, and the membership toggle
//   - WishlistView: the wishlist with the membership toggle and
//     move-to-cart
//   - Catalog: products (optionally filtered), single products,
//     categories, subcategories, and brands
//
// Views never talk to the network directly; they declare fetch functions
// against a narrow API interface and let the query layer decide when to
// call them.
//
// # Optimistic Membership
//
// Toggling cart or wishlist membership flips an entry in an OptimisticSet
// before the write is issued. Rendered membership is confirmed XOR
// flipped, so the icon reacts instantly. When the write and its follow-up
// refetch settle, the flip clears and the confirmed server state shows
// through. On failure the same clearing rolls the icon back without any
// corrective write. A second toggle while the first is in flight flips
// again, issuing the opposite write, and the final state is whatever the
// server reports after both settle.
//
// # Aggregates
//
// Cart count and total price always come from the server envelope. The
// view never sums line items client-side, so a price change or promotion
// applied server-side shows up on the next refetch without any local
// math going stale.
package views
