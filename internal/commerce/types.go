package commerce

// Canonical types handed to the rest of the application. All wire-shape
// quirks (underscore ids, nested vs inline products, envelope objects) are
// resolved in this package; nothing downstream sees a raw payload.

// Product is one catalog item.
type Product struct {
	ID                 string
	Title              string
	Slug               string
	Description        string
	Price              float64
	PriceAfterDiscount float64
	ImageCover         string
	Quantity           int
	Sold               int
	RatingsAverage     float64
	RatingsQuantity    int
	Category           Category
	Brand              Brand
	Subcategories      []Subcategory
}

// Category is a top-level catalog grouping.
type Category struct {
	ID   string
	Name string
	Slug string
}

// Brand identifies a product manufacturer.
type Brand struct {
	ID   string
	Name string
	Slug string
}

// Subcategory is a second-level catalog grouping.
type Subcategory struct {
	ID         string
	Name       string
	Slug       string
	CategoryID string
}

// CartLine is one product entry in the cart. Price is the unit price the
// server reported at add time; it is never recomputed client-side.
type CartLine struct {
	LineID    string
	ProductID string
	Count     int
	Price     float64
	Product   Product
}

// Cart is the server-authoritative cart snapshot. Count and TotalPrice are
// the server-reported figures, not client-side sums over Lines.
type Cart struct {
	ID         string
	Owner      string
	Lines      []CartLine
	Count      int
	TotalPrice float64
}

// Line returns the cart line for a product, if present.
func (c *Cart) Line(productID string) (CartLine, bool) {
	if c == nil {
		return CartLine{}, false
	}
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Contains reports whether the cart holds a line for the product.
func (c *Cart) Contains(productID string) bool {
	_, ok := c.Line(productID)
	return ok
}

// WishlistEntry is one wishlist membership in canonical form: EntryID is
// the identifier used to remove the entry, ProductID the product it wraps.
type WishlistEntry struct {
	EntryID   string
	ProductID string
	Product   Product
}

// ProductFilter narrows GetProducts. Zero value fetches everything.
type ProductFilter struct {
	Category    string
	Subcategory string
}

// ---- wire shapes ----

// The upstream API is inconsistent about identifiers: a payload may carry
// "_id", "id", or both, and a wishlist element is sometimes a bare product
// and sometimes a wrapper holding one under "product". The raw types below
// accept every observed shape; normalize.go collapses them.

type rawProduct struct {
	ID                 string           `json:"_id"`
	AltID              string           `json:"id"`
	Title              string           `json:"title"`
	Slug               string           `json:"slug"`
	Description        string           `json:"description"`
	Price              float64          `json:"price"`
	PriceAfterDiscount float64          `json:"priceAfterDiscount"`
	ImageCover         string           `json:"imageCover"`
	Quantity           int              `json:"quantity"`
	Sold               int              `json:"sold"`
	RatingsAverage     float64          `json:"ratingsAverage"`
	RatingsQuantity    int              `json:"ratingsQuantity"`
	Category           *rawCategory     `json:"category"`
	Brand              *rawBrand        `json:"brand"`
	Subcategory        []rawSubcategory `json:"subcategory"`
}

type rawCategory struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type rawBrand struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type rawSubcategory struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
}

type rawListResponse[T any] struct {
	Results int `json:"results"`
	Data    []T `json:"data"`
}

type rawProductResponse struct {
	Data rawProduct `json:"data"`
}

type rawCartResponse struct {
	Status         string      `json:"status"`
	NumOfCartItems int         `json:"numOfCartItems"`
	Data           rawCartData `json:"data"`
}

type rawCartData struct {
	ID             string        `json:"_id"`
	CartOwner      string        `json:"cartOwner"`
	TotalCartPrice float64       `json:"totalCartPrice"`
	Products       []rawCartLine `json:"products"`
}

type rawCartLine struct {
	ID      string      `json:"_id"`
	Count   int         `json:"count"`
	Price   float64     `json:"price"`
	Product *rawProduct `json:"product"`
}

type rawWishlistEntry struct {
	rawProduct
	Product *rawProduct `json:"product"`
}

type rawWishlistResponse struct {
	Count int                `json:"count"`
	Data  []rawWishlistEntry `json:"data"`
}
