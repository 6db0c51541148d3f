package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Storefront defines the commerce API surface consumed by the
// synchronization layer. It is implemented by *Client and can be used for
// testing.
type Storefront interface {
	GetCart(ctx context.Context) (*Cart, error)
	AddToCart(ctx context.Context, productID string) (*Cart, error)
	UpdateCartItem(ctx context.Context, productID string, count int) (*Cart, error)
	RemoveCartItem(ctx context.Context, productID string) (*Cart, error)
	ClearCart(ctx context.Context) error
	GetWishlist(ctx context.Context) ([]WishlistEntry, error)
	AddToWishlist(ctx context.Context, productID string) error
	RemoveFromWishlist(ctx context.Context, entryID string) error
	GetProducts(ctx context.Context, filter ProductFilter) ([]Product, error)
	GetProductByID(ctx context.Context, id string) (*Product, error)
	GetCategories(ctx context.Context) ([]Category, error)
	GetSubcategories(ctx context.Context) ([]Subcategory, error)
	GetBrands(ctx context.Context) ([]Brand, error)
}

// Ensure Client implements Storefront at compile time.
var _ Storefront = (*Client)(nil)

// TokenSource supplies the current bearer token, or "" when the session is
// anonymous. Token issuance and refresh are owned elsewhere; the client
// only attaches whatever is currently available.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource holding a fixed token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token() string { return string(t) }

// Client talks to the remote commerce HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
}

const (
	defaultBaseURL   = "https://ecommerce.routemisr.com/api/v1"
	defaultUserAgent = "souq/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for the given API base URL. An empty base URL
// selects the default upstream. tokens may be nil for anonymous browsing.
func NewClient(baseURL string, tokens TokenSource) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		tokens:    tokens,
	}, nil
}

// GetCart retrieves the authenticated user's cart.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload rawCartResponse
	if err := c.do(ctx, http.MethodGet, "cart", nil, &payload); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

// AddToCart adds one unit of a product and returns the updated cart.
func (c *Client) AddToCart(ctx context.Context, productID string) (*Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id required")
	}
	var payload rawCartResponse
	body := map[string]string{"productId": productID}
	if err := c.do(ctx, http.MethodPost, "cart", body, &payload); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

// UpdateCartItem sets the quantity of a cart line.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, count int) (*Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id required")
	}
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1, got %d", count)
	}
	var payload rawCartResponse
	body := map[string]int{"count": count}
	if err := c.do(ctx, http.MethodPut, "cart/"+productID, body, &payload); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

// RemoveCartItem deletes a cart line and returns the updated cart.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) (*Cart, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id required")
	}
	var payload rawCartResponse
	if err := c.do(ctx, http.MethodDelete, "cart/"+productID, nil, &payload); err != nil {
		return nil, err
	}
	return payload.normalize(), nil
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "cart", nil, nil)
}

// GetWishlist retrieves the wishlist in canonical form.
func (c *Client) GetWishlist(ctx context.Context) ([]WishlistEntry, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload rawWishlistResponse
	if err := c.do(ctx, http.MethodGet, "wishlist", nil, &payload); err != nil {
		return nil, err
	}
	return normalizeWishlist(payload.Data), nil
}

// AddToWishlist adds a product to the wishlist.
func (c *Client) AddToWishlist(ctx context.Context, productID string) error {
	if productID == "" {
		return fmt.Errorf("product id required")
	}
	body := map[string]string{"productId": productID}
	return c.do(ctx, http.MethodPost, "wishlist", body, nil)
}

// RemoveFromWishlist removes a wishlist entry by its entry identifier.
func (c *Client) RemoveFromWishlist(ctx context.Context, entryID string) error {
	if entryID == "" {
		return fmt.Errorf("entry id required")
	}
	return c.do(ctx, http.MethodDelete, "wishlist/"+entryID, nil, nil)
}

// GetProducts retrieves the product list, optionally filtered by category
// or subcategory.
func (c *Client) GetProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if filter.Category != "" {
		values.Set("category", filter.Category)
	}
	if filter.Subcategory != "" {
		values.Set("subcategory", filter.Subcategory)
	}
	rel := &url.URL{Path: "products", RawQuery: values.Encode()}
	var payload rawListResponse[rawProduct]
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return normalizeProducts(payload.Data), nil
}

// GetProductByID retrieves a single product.
func (c *Client) GetProductByID(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id required")
	}
	var payload rawProductResponse
	if err := c.do(ctx, http.MethodGet, "products/"+id, nil, &payload); err != nil {
		return nil, err
	}
	product := payload.Data.normalize()
	return &product, nil
}

// GetCategories retrieves all categories.
func (c *Client) GetCategories(ctx context.Context) ([]Category, error) {
	var payload rawListResponse[rawCategory]
	if err := c.do(ctx, http.MethodGet, "categories", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(payload.Data))
	for _, raw := range payload.Data {
		out = append(out, Category{ID: raw.ID, Name: raw.Name, Slug: raw.Slug})
	}
	return out, nil
}

// GetSubcategories retrieves all subcategories.
func (c *Client) GetSubcategories(ctx context.Context) ([]Subcategory, error) {
	var payload rawListResponse[rawSubcategory]
	if err := c.do(ctx, http.MethodGet, "subcategories", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]Subcategory, 0, len(payload.Data))
	for _, raw := range payload.Data {
		out = append(out, Subcategory{ID: raw.ID, Name: raw.Name, Slug: raw.Slug, CategoryID: raw.Category})
	}
	return out, nil
}

// GetBrands retrieves all brands.
func (c *Client) GetBrands(ctx context.Context) ([]Brand, error) {
	var payload rawListResponse[rawBrand]
	if err := c.do(ctx, http.MethodGet, "brands", nil, &payload); err != nil {
		return nil, err
	}
	out := make([]Brand, 0, len(payload.Data))
	for _, raw := range payload.Data {
		out = append(out, Brand{ID: raw.ID, Name: raw.Name, Slug: raw.Slug})
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("token", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		// The API reports failures as {"statusMsg": ..., "message": ...}.
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message != "" {
			return fmt.Errorf("api %s returned status %d: %s", rel.String(), resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// parseBaseURL normalizes the configured base URL. Unlike a bare host:port
// bind, a commerce API base usually carries a path prefix (e.g. /api/v1),
// which is preserved; a trailing slash keeps relative resolution intact.
func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
