package views

import (
	"context"
	"errors"
	"sync"
	"testing"

	"souq/internal/cache"
	"souq/internal/commerce"
	"souq/internal/query"
)

// fakeCart is an in-memory CartAPI whose failures are switchable per
// test. Count and TotalPrice are deliberately not derived from the lines
// so tests can verify the view carries them verbatim.
type fakeCart struct {
	mu         sync.Mutex
	lines      map[string]int
	count      int
	total      float64
	failWrites error
	gets       int
	updates    []int
}

func newFakeCart() *fakeCart {
	return &fakeCart{lines: make(map[string]int)}
}

func (f *fakeCart) snapshot() *commerce.Cart {
	cart := &commerce.Cart{ID: "cart1", Count: f.count, TotalPrice: f.total}
	for id, count := range f.lines {
		cart.Lines = append(cart.Lines, commerce.CartLine{LineID: "line-" + id, ProductID: id, Count: count})
	}
	return cart
}

func (f *fakeCart) GetCart(ctx context.Context) (*commerce.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	return f.snapshot(), nil
}

func (f *fakeCart) AddToCart(ctx context.Context, productID string) (*commerce.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites != nil {
		return nil, f.failWrites
	}
	f.lines[productID]++
	f.count++
	return f.snapshot(), nil
}

func (f *fakeCart) UpdateCartItem(ctx context.Context, productID string, count int) (*commerce.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites != nil {
		return nil, f.failWrites
	}
	f.updates = append(f.updates, count)
	f.lines[productID] = count
	return f.snapshot(), nil
}

func (f *fakeCart) RemoveCartItem(ctx context.Context, productID string) (*commerce.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites != nil {
		return nil, f.failWrites
	}
	delete(f.lines, productID)
	return f.snapshot(), nil
}

func (f *fakeCart) ClearCart(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites != nil {
		return f.failWrites
	}
	f.lines = make(map[string]int)
	f.count = 0
	f.total = 0
	return nil
}

func newCartView(api CartAPI) *CartView {
	store := cache.NewStore()
	return NewCartView(store, query.NewRegistry(), api)
}

func TestCartView_ToggleAddsThenServerStateTakesOver(t *testing.T) {
	api := newFakeCart()
	v := newCartView(api)
	ctx := context.Background()

	if v.Contains("p1") {
		t.Fatal("Contains(p1) = true before any toggle")
	}
	if err := v.Toggle(ctx, "p1"); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	// The write settled and the mutation's refetch resolved, so membership
	// now comes from confirmed server state, not the overlay.
	if v.Pending("p1") {
		t.Fatal("Pending(p1) = true after toggle settled")
	}
	if !v.Contains("p1") {
		t.Fatal("Contains(p1) = false after confirmed add")
	}

	if err := v.Toggle(ctx, "p1"); err != nil {
		t.Fatalf("second Toggle returned error: %v", err)
	}
	if v.Contains("p1") {
		t.Fatal("Contains(p1) = true after confirmed remove")
	}
}

func TestCartView_FailedToggleRollsBackByOmission(t *testing.T) {
	api := newFakeCart()
	v := newCartView(api)
	ctx := context.Background()
	v.Refresh(ctx)

	api.mu.Lock()
	api.failWrites = errors.New("network down")
	api.mu.Unlock()

	err := v.Toggle(ctx, "p1")
	if err == nil {
		t.Fatal("Toggle succeeded against failing writes")
	}
	// No corrective write: the flip just cleared and the refetched server
	// state (no p1) shows through.
	if v.Contains("p1") {
		t.Fatal("Contains(p1) = true after failed add, want rollback")
	}
	if v.Pending("p1") {
		t.Fatal("Pending(p1) = true after failed toggle settled")
	}
}

func TestCartView_AggregatesComeFromServerVerbatim(t *testing.T) {
	api := newFakeCart()
	api.lines["p1"] = 2
	// Figures that no client-side sum over one line of count 2 would
	// produce.
	api.count = 9
	api.total = 1234.5
	v := newCartView(api)
	v.Refresh(context.Background())

	data := v.Data()
	if data.Count != 9 || data.TotalPrice != 1234.5 {
		t.Fatalf("Data = count %d total %v, want server figures 9/1234.5", data.Count, data.TotalPrice)
	}
	if len(data.Lines) != 1 {
		t.Fatalf("Data.Lines = %+v, want 1 line", data.Lines)
	}
}

func TestCartView_ChangeCountFloorsAtOne(t *testing.T) {
	api := newFakeCart()
	api.lines["p1"] = 1
	v := newCartView(api)
	ctx := context.Background()
	v.Refresh(ctx)

	// Decrement at quantity one is a client-side no-op, no request issued.
	if err := v.ChangeCount(ctx, "p1", -1); err != nil {
		t.Fatalf("ChangeCount returned error: %v", err)
	}
	api.mu.Lock()
	updates := len(api.updates)
	api.mu.Unlock()
	if updates != 0 {
		t.Fatalf("updates issued = %d, want 0 at the floor", updates)
	}

	if err := v.ChangeCount(ctx, "p1", 1); err != nil {
		t.Fatalf("ChangeCount returned error: %v", err)
	}
	api.mu.Lock()
	got := api.updates
	api.mu.Unlock()
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("updates = %v, want single update to 2", got)
	}

	if err := v.SetCount(ctx, "p1", 0); err == nil {
		t.Fatal("SetCount accepted 0, want error")
	}
	if err := v.ChangeCount(ctx, "missing", 1); err == nil {
		t.Fatal("ChangeCount accepted product not in cart")
	}
}

func TestCartView_ClearEmptiesAndRefetches(t *testing.T) {
	api := newFakeCart()
	api.lines["p1"] = 3
	api.count = 3
	v := newCartView(api)
	ctx := context.Background()
	v.Refresh(ctx)

	if err := v.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	data := v.Data()
	if len(data.Lines) != 0 || data.Count != 0 {
		t.Fatalf("Data after clear = %+v, want empty", data)
	}
}
