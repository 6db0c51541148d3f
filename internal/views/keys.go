package views

import "souq/internal/cache"

// Cache keys for every resource the views own. Parameterized keys embed
// their parameters as trailing segments so each variant caches separately.

func cartKey() cache.Key          { return cache.NewKey("cart") }
func wishlistKey() cache.Key      { return cache.NewKey("wishlist") }
func categoriesKey() cache.Key    { return cache.NewKey("categories") }
func subcategoriesKey() cache.Key { return cache.NewKey("subcategories") }
func brandsKey() cache.Key        { return cache.NewKey("brands") }

func productsKey(category, subcategory string) cache.Key {
	return cache.NewKey("products", category, subcategory)
}

func productKey(id string) cache.Key {
	return cache.NewKey("product", id)
}
