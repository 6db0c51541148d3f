package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"souq/internal/commerce"
	"souq/internal/query"
	"souq/internal/views"
)

// visibleProducts returns the rendered product list for the active
// category filter and search, plus the snapshot it came from.
func (m Model) visibleProducts() ([]commerce.Product, query.Result[[]commerce.Product]) {
	snap := m.catalog.Products(m.currentFilter()).Snapshot()
	if !snap.HasValue {
		return nil, snap
	}
	if strings.TrimSpace(m.search) == "" {
		return snap.Value, snap
	}
	// Category filtering already happened server-side; search narrows
	// locally.
	return views.FilterProducts(snap.Value, m.search, ""), snap
}

func (m Model) selectedProduct() (commerce.Product, bool) {
	products, _ := m.visibleProducts()
	if len(products) == 0 {
		return commerce.Product{}, false
	}
	return products[clampRow(m.productRow, len(products))], true
}

// handleProductsKey processes keyboard input for the products view.
func (m Model) handleProductsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	products, _ := m.visibleProducts()
	keys := m.keys

	switch {
	case matches(msg, keys.Down):
		m.productRow = clampRow(m.productRow+1, len(products))
	case matches(msg, keys.Up):
		m.productRow = clampRow(m.productRow-1, len(products))
	case matches(msg, keys.Top):
		m.productRow = 0
	case matches(msg, keys.Bottom):
		m.productRow = clampRow(len(products)-1, len(products))

	case matches(msg, keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.search)
		m.searchInput.Focus()
		return m, textinput.Blink

	case matches(msg, keys.CycleCategory):
		return m.cycleCategory()

	case matches(msg, keys.ToggleCart):
		if p, ok := m.selectedProduct(); ok {
			return m, m.toggleCartCmd(p.ID)
		}

	case matches(msg, keys.ToggleWishlist):
		if p, ok := m.selectedProduct(); ok {
			return m, m.toggleWishlistCmd(p.ID)
		}

	case matches(msg, keys.Detail):
		if p, ok := m.selectedProduct(); ok {
			m.showDetail = true
			m.detailID = p.ID
			return m, ensureCmd(m.ctx, m.catalog.Product(p.ID))
		}
	}

	return m, nil
}

// handleSearchKey routes input into the search field until confirmed or
// cancelled.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.search = ""
		m.productRow = 0
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		m.search = m.searchInput.Value()
		m.productRow = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	// Live narrowing while typing
	m.search = m.searchInput.Value()
	m.productRow = 0
	return m, cmd
}

// cycleCategory advances the server-side category filter: all ->
// category 1 -> ... -> category N -> all. Selecting a new filter kicks
// off its fetch; the previous list stays cached.
func (m Model) cycleCategory() (tea.Model, tea.Cmd) {
	categories, ok := m.catalog.Categories().Value()
	if !ok || len(categories) == 0 {
		return m, nil
	}
	m.categoryIdx++
	if m.categoryIdx >= len(categories) {
		m.categoryIdx = -1
	}
	m.productRow = 0
	return m, ensureCmd(m.ctx, m.catalog.Products(m.currentFilter()))
}

func (m Model) categoryLabel() string {
	categories, ok := m.catalog.Categories().Value()
	if !ok || m.categoryIdx < 0 || m.categoryIdx >= len(categories) {
		return "All"
	}
	return categories[m.categoryIdx].Name
}

// renderProducts renders the product list with membership badges.
func (m Model) renderProducts() string {
	styles := m.theme.Styles()
	products, snap := m.visibleProducts()

	var b strings.Builder

	if m.searching {
		b.WriteString(styles.AccentText.Render("/ "))
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	} else if m.search != "" {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("search: %q  (/ to edit, esc clears)", m.search)))
		b.WriteString("\n")
	}

	switch {
	case snap.Loading:
		b.WriteString(styles.MutedText.Render("Loading products..."))
		return b.String()
	case !snap.HasValue && snap.Err != nil:
		b.WriteString(styles.DangerText.Render("Cannot load products: " + snap.Err.Error()))
		return b.String()
	case len(products) == 0:
		b.WriteString(styles.MutedText.Render("No products match."))
		return b.String()
	}

	titleWidth := m.width - 44
	if titleWidth < 20 {
		titleWidth = 20
	}

	selected := clampRow(m.productRow, len(products))
	for i, p := range products {
		line := m.renderProductRow(p, titleWidth, styles)
		if i == selected {
			line = styles.Selected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderProductRow(p commerce.Product, titleWidth int, styles Styles) string {
	var badges []string
	if m.cart.Contains(p.ID) {
		badges = append(badges, styles.BadgeStyle("in-cart").Render("cart"))
	}
	if m.wishlist.Contains(p.ID) {
		badges = append(badges, styles.BadgeStyle("wishlisted").Render("wish"))
	}
	if m.cart.Pending(p.ID) || m.wishlist.Pending(p.ID) {
		badges = append(badges, styles.BadgeStyle("pending").Render("…"))
	}

	price := formatPrice(p.Price)
	if p.PriceAfterDiscount > 0 && p.PriceAfterDiscount < p.Price {
		price = formatPrice(p.PriceAfterDiscount) + " " + styles.BadgeStyle("sale").Render("sale")
	}

	parts := []string{
		pad(p.Title, titleWidth),
		pad(p.Category.Name, 12),
		price,
	}
	if len(badges) > 0 {
		parts = append(parts, strings.Join(badges, " "))
	}
	return strings.Join(parts, "  ")
}

// ensureCmd runs a runner's freshness check off the Update loop.
func ensureCmd[T any](ctx context.Context, r *query.Runner[T]) tea.Cmd {
	return func() tea.Msg {
		r.Ensure(ctx)
		return actionMsg{}
	}
}

func (m Model) toggleCartCmd(productID string) tea.Cmd {
	cart, ctx := m.cart, m.ctx
	return func() tea.Msg {
		return actionMsg{err: cart.Toggle(ctx, productID)}
	}
}

func (m Model) toggleWishlistCmd(productID string) tea.Cmd {
	wishlist, ctx := m.wishlist, m.ctx
	return func() tea.Msg {
		return actionMsg{err: wishlist.Toggle(ctx, productID)}
	}
}
