// Package ui provides the terminal user interface for souq.
//
// # Architecture Overview
//
// The UI is a Bubble Tea application. The Model holds only presentation
// state (current view, cursor positions, search text, overlays); all
// domain data is pulled from the view layer's snapshots on every render.
// The UI never caches API data itself, so whatever the cache serves is
// what the screen shows, including stale values during refreshes and
// outages.
//
// # Package Structure
//
//   - app.go: root Model, Update loop, global key handling, Run
//   - products.go: product list, search input, category filter
//   - cart_view.go: cart lines, quantity stepper, clear
//   - wishlist_view.go: wishlist entries, move-to-cart
//   - detail.go: single-product overlay
//   - header.go: status bar, view tabs, sync state indicator
//   - help.go: help overlay
//   - keys.go: key bindings
//   - theme.go: color themes and styles
//
// # Data Flow
//
//  1. A 1-second tick repaints the screen; View() pulls fresh snapshots
//  2. Key presses that mutate (toggles, quantity, clear) return a tea.Cmd
//     that runs the mutation off the Update loop and reports the error
//  3. Optimistic membership shows immediately via the views' overlays;
//     the next repaint after settle shows the confirmed server state
//  4. Terminal focus regained (tea.FocusMsg) runs the focus trigger on
//     every runner
//
// # Key Bindings
//
//   - 1/2/3 or Tab: switch between Products, Cart, and Wishlist
//   - j/k, g/G: move within a list
//   - /: search products, f: cycle category filter
//   - c: toggle cart, w: toggle wishlist, enter: product detail
//   - +/-: change quantity, x: remove, C: clear cart, m: move to cart
//   - r: refresh current view, T: cycle theme, ?: help, q: quit
//
// # Design Principles
//
//   - Presentation only: mutations and freshness live in views/query
//   - Never block the Update loop on the network
//   - Stale data beats no data; sync state is shown, not hidden
package ui
