package views

import (
	"context"
	"strings"
	"sync"
	"time"

	"souq/internal/cache"
	"souq/internal/commerce"
	"souq/internal/query"
)

// CatalogAPI is the slice of the storefront the catalog needs. Catalog
// resources are read-only; there are no catalog mutations.
type CatalogAPI interface {
	GetProducts(ctx context.Context, filter commerce.ProductFilter) ([]commerce.Product, error)
	GetProductByID(ctx context.Context, id string) (*commerce.Product, error)
	GetCategories(ctx context.Context) ([]commerce.Category, error)
	GetSubcategories(ctx context.Context) ([]commerce.Subcategory, error)
	GetBrands(ctx context.Context) ([]commerce.Brand, error)
}

// Catalog data changes rarely; product lists poll slowly and taxonomy
// barely at all.
var (
	productsPolicy = query.Policy{
		StaleAfter:         15 * time.Second,
		RefetchInterval:    30 * time.Second,
		RefetchOnFocus:     true,
		RefetchOnReconnect: true,
	}
	productPolicy = query.Policy{
		StaleAfter:         5 * time.Minute,
		RefetchInterval:    time.Minute,
		RefetchOnReconnect: true,
	}
	taxonomyPolicy = query.Policy{
		StaleAfter:         5 * time.Minute,
		RefetchInterval:    2 * time.Minute,
		RefetchOnReconnect: true,
	}
)

// Catalog exposes products, categories, subcategories, and brands.
// Filtered product lists and single products get their own cache entries,
// created lazily on first request and registered so they join the shared
// refresh cycle.
type Catalog struct {
	store    *cache.Store
	registry *query.Registry
	api      CatalogAPI

	categories    *query.Runner[[]commerce.Category]
	subcategories *query.Runner[[]commerce.Subcategory]
	brands        *query.Runner[[]commerce.Brand]

	mu       sync.Mutex
	products map[string]*query.Runner[[]commerce.Product]
	product  map[string]*query.Runner[*commerce.Product]
}

// NewCatalog wires the taxonomy runners into the store and registry.
func NewCatalog(store *cache.Store, registry *query.Registry, api CatalogAPI) *Catalog {
	c := &Catalog{
		store:    store,
		registry: registry,
		api:      api,
		products: make(map[string]*query.Runner[[]commerce.Product]),
		product:  make(map[string]*query.Runner[*commerce.Product]),
	}

	c.categories = query.NewRunner(store, categoriesKey(), func(ctx context.Context) ([]commerce.Category, error) {
		return api.GetCategories(ctx)
	}, taxonomyPolicy)
	c.subcategories = query.NewRunner(store, subcategoriesKey(), func(ctx context.Context) ([]commerce.Subcategory, error) {
		return api.GetSubcategories(ctx)
	}, taxonomyPolicy)
	c.brands = query.NewRunner(store, brandsKey(), func(ctx context.Context) ([]commerce.Brand, error) {
		return api.GetBrands(ctx)
	}, taxonomyPolicy)
	registry.Add(c.categories)
	registry.Add(c.subcategories)
	registry.Add(c.brands)

	return c
}

// Products returns the runner for a filtered product list, creating and
// registering it on first use.
func (c *Catalog) Products(filter commerce.ProductFilter) *query.Runner[[]commerce.Product] {
	key := productsKey(filter.Category, filter.Subcategory)

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.products[key.String()]; ok {
		return r
	}
	r := query.NewRunner(c.store, key, func(ctx context.Context) ([]commerce.Product, error) {
		return c.api.GetProducts(ctx, filter)
	}, productsPolicy)
	c.products[key.String()] = r
	c.registry.Add(r)
	return r
}

// Product returns the runner for a single product, creating and
// registering it on first use.
func (c *Catalog) Product(id string) *query.Runner[*commerce.Product] {
	key := productKey(id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.product[key.String()]; ok {
		return r
	}
	r := query.NewRunner(c.store, key, func(ctx context.Context) (*commerce.Product, error) {
		return c.api.GetProductByID(ctx, id)
	}, productPolicy)
	c.product[key.String()] = r
	c.registry.Add(r)
	return r
}

// Categories returns the category runner.
func (c *Catalog) Categories() *query.Runner[[]commerce.Category] { return c.categories }

// Subcategories returns the subcategory runner.
func (c *Catalog) Subcategories() *query.Runner[[]commerce.Subcategory] { return c.subcategories }

// Brands returns the brand runner.
func (c *Catalog) Brands() *query.Runner[[]commerce.Brand] { return c.brands }

// SubcategoriesOf filters the cached subcategories to one parent
// category.
func (c *Catalog) SubcategoriesOf(categoryID string) []commerce.Subcategory {
	all, ok := c.subcategories.Value()
	if !ok {
		return nil
	}
	var out []commerce.Subcategory
	for _, sub := range all {
		if sub.CategoryID == categoryID {
			out = append(out, sub)
		}
	}
	return out
}

// FilterProducts narrows a product list client-side: case-insensitive
// substring match on the title plus an optional category. Server-side
// filtering handles category and subcategory; search is local only.
func FilterProducts(products []commerce.Product, search, categoryID string) []commerce.Product {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" && categoryID == "" {
		return products
	}
	var out []commerce.Product
	for _, p := range products {
		if categoryID != "" && p.Category.ID != categoryID {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}
