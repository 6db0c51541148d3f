package commerce

import (
	"encoding/json"
	"testing"
)

func TestNormalizeWishlist_ThreeIdentifierShapes(t *testing.T) {
	tests := []struct {
		name          string
		payload       string
		wantEntryID   string
		wantProductID string
	}{
		{
			name:          "nested product id",
			payload:       `{"_id": "entry1", "product": {"_id": "p1", "title": "Shirt"}}`,
			wantEntryID:   "entry1",
			wantProductID: "p1",
		},
		{
			name:          "bare product with underscore id",
			payload:       `{"_id": "p2", "title": "Shoes", "price": 150}`,
			wantEntryID:   "p2",
			wantProductID: "p2",
		},
		{
			name:          "bare product with plain id",
			payload:       `{"id": "p3", "title": "Hat"}`,
			wantEntryID:   "p3",
			wantProductID: "p3",
		},
		{
			name:          "nested product missing own id falls back to entry",
			payload:       `{"_id": "entry4", "product": {"title": "Belt"}}`,
			wantEntryID:   "entry4",
			wantProductID: "entry4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw rawWishlistEntry
			if err := json.Unmarshal([]byte(tt.payload), &raw); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			entry := raw.normalize()
			if entry.EntryID != tt.wantEntryID {
				t.Errorf("EntryID = %q, want %q", entry.EntryID, tt.wantEntryID)
			}
			if entry.ProductID != tt.wantProductID {
				t.Errorf("ProductID = %q, want %q", entry.ProductID, tt.wantProductID)
			}
		})
	}
}

func TestNormalizeCart_ServerFiguresCarriedVerbatim(t *testing.T) {
	payload := `{
		"status": "success",
		"numOfCartItems": 7,
		"data": {
			"_id": "cart1",
			"cartOwner": "u1",
			"totalCartPrice": 999,
			"products": [{"_id": "line1", "count": 2, "price": 100, "product": {"_id": "p1"}}]
		}
	}`
	var raw rawCartResponse
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	cart := raw.normalize()
	// Count and total come from the envelope even when they disagree with
	// a client-side sum over the lines; the server is authoritative.
	if cart.Count != 7 {
		t.Fatalf("Count = %d, want 7 (server-reported)", cart.Count)
	}
	if cart.TotalPrice != 999 {
		t.Fatalf("TotalPrice = %v, want 999 (server-reported)", cart.TotalPrice)
	}
	if !cart.Contains("p1") {
		t.Fatal("Contains(p1) = false, want true")
	}
	if line, ok := cart.Line("p1"); !ok || line.Price != 100 || line.LineID != "line1" {
		t.Fatalf("Line(p1) = %+v, %v, want price=100 lineID=line1", line, ok)
	}
}

func TestNormalizeCart_LineWithoutProductFallsBackToLineID(t *testing.T) {
	payload := `{"numOfCartItems":1,"data":{"products":[{"_id":"p5","count":1,"price":10}]}}`
	var raw rawCartResponse
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	cart := raw.normalize()
	if len(cart.Lines) != 1 || cart.Lines[0].ProductID != "p5" {
		t.Fatalf("lines = %+v, want ProductID fallback p5", cart.Lines)
	}
}

func TestNormalizeProduct_AltIDAndNestedGroups(t *testing.T) {
	payload := `{
		"id": "p9",
		"title": "Jacket",
		"price": 300,
		"priceAfterDiscount": 250,
		"category": {"_id": "c1", "name": "Men", "slug": "men"},
		"brand": {"_id": "b1", "name": "Acme", "slug": "acme"},
		"subcategory": [{"_id": "s1", "name": "Outerwear", "slug": "outerwear", "category": "c1"}]
	}`
	var raw rawProduct
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	p := raw.normalize()
	if p.ID != "p9" {
		t.Fatalf("ID = %q, want p9 via alt id", p.ID)
	}
	if p.Category.Name != "Men" || p.Brand.Slug != "acme" {
		t.Fatalf("groups = %+v / %+v, want normalized", p.Category, p.Brand)
	}
	if len(p.Subcategories) != 1 || p.Subcategories[0].CategoryID != "c1" {
		t.Fatalf("subcategories = %+v, want 1 with parent c1", p.Subcategories)
	}
}
