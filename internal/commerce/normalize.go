package commerce

// firstID returns the first non-empty identifier. The upstream API labels
// the same value "_id" or "id" depending on endpoint and nesting depth.
func firstID(ids ...string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

func (p rawProduct) normalize() Product {
	out := Product{
		ID:                 firstID(p.ID, p.AltID),
		Title:              p.Title,
		Slug:               p.Slug,
		Description:        p.Description,
		Price:              p.Price,
		PriceAfterDiscount: p.PriceAfterDiscount,
		ImageCover:         p.ImageCover,
		Quantity:           p.Quantity,
		Sold:               p.Sold,
		RatingsAverage:     p.RatingsAverage,
		RatingsQuantity:    p.RatingsQuantity,
	}
	if p.Category != nil {
		out.Category = Category{ID: p.Category.ID, Name: p.Category.Name, Slug: p.Category.Slug}
	}
	if p.Brand != nil {
		out.Brand = Brand{ID: p.Brand.ID, Name: p.Brand.Name, Slug: p.Brand.Slug}
	}
	for _, sc := range p.Subcategory {
		out.Subcategories = append(out.Subcategories, Subcategory{
			ID:         sc.ID,
			Name:       sc.Name,
			Slug:       sc.Slug,
			CategoryID: sc.Category,
		})
	}
	return out
}

func normalizeProducts(raw []rawProduct) []Product {
	out := make([]Product, 0, len(raw))
	for _, p := range raw {
		out = append(out, p.normalize())
	}
	return out
}

func (r rawCartResponse) normalize() *Cart {
	cart := &Cart{
		ID:         r.Data.ID,
		Owner:      r.Data.CartOwner,
		Count:      r.NumOfCartItems,
		TotalPrice: r.Data.TotalCartPrice,
	}
	for _, line := range r.Data.Products {
		l := CartLine{
			LineID: line.ID,
			Count:  line.Count,
			Price:  line.Price,
		}
		if line.Product != nil {
			l.Product = line.Product.normalize()
			l.ProductID = l.Product.ID
		}
		if l.ProductID == "" {
			l.ProductID = line.ID
		}
		cart.Lines = append(cart.Lines, l)
	}
	return cart
}

// normalize resolves the three identifier shapes a wishlist element may
// carry: a nested product ("product._id"), the element's own "_id", or a
// bare "id". The rest of the application only ever compares canonical IDs.
func (w rawWishlistEntry) normalize() WishlistEntry {
	entryID := firstID(w.rawProduct.ID, w.rawProduct.AltID)
	if w.Product != nil {
		product := w.Product.normalize()
		return WishlistEntry{
			EntryID:   entryID,
			ProductID: firstID(product.ID, entryID),
			Product:   product,
		}
	}
	// The element is the product itself.
	return WishlistEntry{
		EntryID:   entryID,
		ProductID: entryID,
		Product:   w.rawProduct.normalize(),
	}
}

func normalizeWishlist(raw []rawWishlistEntry) []WishlistEntry {
	out := make([]WishlistEntry, 0, len(raw))
	for _, e := range raw {
		out = append(out, e.normalize())
	}
	return out
}
