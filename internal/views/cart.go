package views

import (
	"context"
	"fmt"
	"time"

	"souq/internal/cache"
	"souq/internal/commerce"
	"souq/internal/query"
)

// CartAPI is the slice of the storefront the cart view needs.
type CartAPI interface {
	GetCart(ctx context.Context) (*commerce.Cart, error)
	AddToCart(ctx context.Context, productID string) (*commerce.Cart, error)
	UpdateCartItem(ctx context.Context, productID string, count int) (*commerce.Cart, error)
	RemoveCartItem(ctx context.Context, productID string) (*commerce.Cart, error)
	ClearCart(ctx context.Context) error
}

// Cart freshness. The cart is the most mutation-heavy resource, so it
// polls aggressively.
var cartPolicy = query.Policy{
	StaleAfter:         5 * time.Second,
	RefetchInterval:    3 * time.Second,
	RefetchOnFocus:     true,
	RefetchOnReconnect: true,
}

type updateCountArgs struct {
	productID string
	count     int
}

// CartView exposes the cart as the UI should render it: server-confirmed
// lines plus the optimistic membership overlay, with count and total
// price always the server's figures.
type CartView struct {
	runner  *query.Runner[*commerce.Cart]
	overlay *OptimisticSet

	add      *query.Mutation[string, *commerce.Cart]
	remove   *query.Mutation[string, *commerce.Cart]
	setCount *query.Mutation[updateCountArgs, *commerce.Cart]
	clear    *query.Mutation[struct{}, struct{}]
}

// NewCartView wires the cart runner and mutations into the store and
// registry.
func NewCartView(store *cache.Store, registry *query.Registry, api CartAPI) *CartView {
	key := cartKey()
	runner := query.NewRunner(store, key, func(ctx context.Context) (*commerce.Cart, error) {
		return api.GetCart(ctx)
	}, cartPolicy)
	registry.Add(runner)

	return &CartView{
		runner:  runner,
		overlay: NewOptimisticSet(),
		add: query.NewMutation(store, registry, func(ctx context.Context, productID string) (*commerce.Cart, error) {
			return api.AddToCart(ctx, productID)
		}, key),
		remove: query.NewMutation(store, registry, func(ctx context.Context, productID string) (*commerce.Cart, error) {
			return api.RemoveCartItem(ctx, productID)
		}, key),
		setCount: query.NewMutation(store, registry, func(ctx context.Context, args updateCountArgs) (*commerce.Cart, error) {
			return api.UpdateCartItem(ctx, args.productID, args.count)
		}, key),
		clear: query.NewMutation(store, registry, func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, api.ClearCart(ctx)
		}, key),
	}
}

// CartData is a render-ready snapshot.
type CartData struct {
	Lines      []commerce.CartLine
	Count      int     // server-reported item count, never a client sum
	TotalPrice float64 // server-reported total, never a client sum
	Loading    bool
	Refreshing bool
	Err        error
}

// Data returns the current cart snapshot. With no fetch resolved yet the
// zero CartData renders as an empty cart.
func (v *CartView) Data() CartData {
	snap := v.runner.Snapshot()
	data := CartData{
		Loading:    snap.Loading,
		Refreshing: snap.Refreshing,
		Err:        snap.Err,
	}
	if snap.HasValue && snap.Value != nil {
		data.Lines = snap.Value.Lines
		data.Count = snap.Value.Count
		data.TotalPrice = snap.Value.TotalPrice
	}
	return data
}

// Contains reports rendered cart membership: server-confirmed membership
// with any pending optimistic flip applied.
func (v *CartView) Contains(productID string) bool {
	return v.overlay.Rendered(productID, v.confirmed(productID))
}

// Pending reports whether a toggle for productID is still in flight.
func (v *CartView) Pending(productID string) bool {
	return v.overlay.Pending(productID)
}

// Toggle adds or removes a product based on its rendered membership at
// press time: the overlay flips immediately and the matching write runs
// to completion before the flip settles, so the refetched server state
// takes over exactly when the override disappears.
func (v *CartView) Toggle(ctx context.Context, productID string) error {
	rendered := v.Contains(productID)
	v.overlay.Flip(productID)
	defer v.overlay.Settle(productID)

	var err error
	if rendered {
		_, err = v.remove.Do(ctx, productID)
	} else {
		_, err = v.add.Do(ctx, productID)
	}
	return err
}

// Add adds one unit without consulting membership, for flows like
// move-to-cart that must add unconditionally.
func (v *CartView) Add(ctx context.Context, productID string) error {
	_, err := v.add.Do(ctx, productID)
	return err
}

// Remove deletes a cart line.
func (v *CartView) Remove(ctx context.Context, productID string) error {
	_, err := v.remove.Do(ctx, productID)
	return err
}

// ChangeCount adjusts a line's quantity by delta. Steps that would take
// the quantity below one are dropped without a network call; removal is a
// separate, deliberate action.
func (v *CartView) ChangeCount(ctx context.Context, productID string, delta int) error {
	cart, ok := v.runner.Value()
	if !ok || cart == nil {
		return fmt.Errorf("cart not loaded")
	}
	line, ok := cart.Line(productID)
	if !ok {
		return fmt.Errorf("product %s not in cart", productID)
	}
	next := line.Count + delta
	if next < 1 {
		return nil
	}
	return v.SetCount(ctx, productID, next)
}

// SetCount sets a line's quantity to an absolute value, at least one.
func (v *CartView) SetCount(ctx context.Context, productID string, count int) error {
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}
	_, err := v.setCount.Do(ctx, updateCountArgs{productID: productID, count: count})
	return err
}

// Refresh forces an immediate refetch, for an explicit user action.
func (v *CartView) Refresh(ctx context.Context) {
	v.runner.Refetch(ctx)
}

// Clear empties the cart.
func (v *CartView) Clear(ctx context.Context) error {
	_, err := v.clear.Do(ctx, struct{}{})
	return err
}

func (v *CartView) confirmed(productID string) bool {
	cart, ok := v.runner.Value()
	if !ok || cart == nil {
		return false
	}
	return cart.Contains(productID)
}
