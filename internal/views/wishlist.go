package views

import (
	"context"
	"fmt"
	"time"

	"souq/internal/cache"
	"souq/internal/commerce"
	"souq/internal/query"
)

// WishlistAPI is the slice of the storefront the wishlist view needs.
type WishlistAPI interface {
	GetWishlist(ctx context.Context) ([]commerce.WishlistEntry, error)
	AddToWishlist(ctx context.Context, productID string) error
	RemoveFromWishlist(ctx context.Context, entryID string) error
}

var wishlistPolicy = query.Policy{
	StaleAfter:         5 * time.Second,
	RefetchInterval:    30 * time.Second,
	RefetchOnFocus:     true,
	RefetchOnReconnect: true,
}

// WishlistView exposes the wishlist with the optimistic membership
// overlay. Entries are compared by canonical product ID; removal uses the
// wishlist's own entry identifier, resolved from the cached entries.
type WishlistView struct {
	runner  *query.Runner[[]commerce.WishlistEntry]
	overlay *OptimisticSet

	add    *query.Mutation[string, struct{}]
	remove *query.Mutation[string, struct{}]
}

// NewWishlistView wires the wishlist runner and mutations into the store
// and registry.
func NewWishlistView(store *cache.Store, registry *query.Registry, api WishlistAPI) *WishlistView {
	key := wishlistKey()
	runner := query.NewRunner(store, key, func(ctx context.Context) ([]commerce.WishlistEntry, error) {
		return api.GetWishlist(ctx)
	}, wishlistPolicy)
	registry.Add(runner)

	return &WishlistView{
		runner:  runner,
		overlay: NewOptimisticSet(),
		add: query.NewMutation(store, registry, func(ctx context.Context, productID string) (struct{}, error) {
			return struct{}{}, api.AddToWishlist(ctx, productID)
		}, key),
		remove: query.NewMutation(store, registry, func(ctx context.Context, entryID string) (struct{}, error) {
			return struct{}{}, api.RemoveFromWishlist(ctx, entryID)
		}, key),
	}
}

// WishlistData is a render-ready snapshot. Count is the number of
// entries; the wishlist has no server-side aggregate.
type WishlistData struct {
	Entries    []commerce.WishlistEntry
	Count      int
	Loading    bool
	Refreshing bool
	Err        error
}

// Data returns the current wishlist snapshot.
func (v *WishlistView) Data() WishlistData {
	snap := v.runner.Snapshot()
	data := WishlistData{
		Loading:    snap.Loading,
		Refreshing: snap.Refreshing,
		Err:        snap.Err,
	}
	if snap.HasValue {
		data.Entries = snap.Value
		data.Count = len(snap.Value)
	}
	return data
}

// Contains reports rendered wishlist membership for a product.
func (v *WishlistView) Contains(productID string) bool {
	return v.overlay.Rendered(productID, v.confirmed(productID))
}

// Pending reports whether a toggle for productID is still in flight.
func (v *WishlistView) Pending(productID string) bool {
	return v.overlay.Pending(productID)
}

// Toggle adds or removes a product based on its rendered membership at
// press time, with the same optimistic flip-then-settle protocol as the
// cart.
func (v *WishlistView) Toggle(ctx context.Context, productID string) error {
	rendered := v.Contains(productID)
	v.overlay.Flip(productID)
	defer v.overlay.Settle(productID)

	if rendered {
		_, err := v.remove.Do(ctx, v.entryID(productID))
		return err
	}
	_, err := v.add.Do(ctx, productID)
	return err
}

// Remove deletes the wishlist entry for a product.
func (v *WishlistView) Remove(ctx context.Context, productID string) error {
	_, err := v.remove.Do(ctx, v.entryID(productID))
	return err
}

// Refresh forces an immediate refetch, for an explicit user action.
func (v *WishlistView) Refresh(ctx context.Context) {
	v.runner.Refetch(ctx)
}

// MoveToCart adds a wishlist product to the cart and, only if that
// succeeds, removes it from the wishlist. A failed add leaves the
// wishlist untouched so the product is not lost.
func (v *WishlistView) MoveToCart(ctx context.Context, cart *CartView, productID string) error {
	if err := cart.Add(ctx, productID); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return v.Remove(ctx, productID)
}

func (v *WishlistView) confirmed(productID string) bool {
	entries, ok := v.runner.Value()
	if !ok {
		return false
	}
	for _, entry := range entries {
		if entry.ProductID == productID {
			return true
		}
	}
	return false
}

// entryID resolves the removal identifier for a product. When the entry
// is not in the cached list (an optimistic add still settling), the
// product ID itself is used; the upstream API accepts either.
func (v *WishlistView) entryID(productID string) string {
	entries, ok := v.runner.Value()
	if !ok {
		return productID
	}
	for _, entry := range entries {
		if entry.ProductID == productID {
			return entry.EntryID
		}
	}
	return productID
}
