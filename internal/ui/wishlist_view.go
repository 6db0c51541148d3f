package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"souq/internal/commerce"
)

func (m Model) selectedWishlistEntry() (commerce.WishlistEntry, bool) {
	data := m.wishlist.Data()
	if len(data.Entries) == 0 {
		return commerce.WishlistEntry{}, false
	}
	return data.Entries[clampRow(m.wishRow, len(data.Entries))], true
}

// handleWishlistKey processes keyboard input for the wishlist view.
func (m Model) handleWishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.wishlist.Data()
	keys := m.keys

	switch {
	case matches(msg, keys.Down):
		m.wishRow = clampRow(m.wishRow+1, len(data.Entries))
	case matches(msg, keys.Up):
		m.wishRow = clampRow(m.wishRow-1, len(data.Entries))
	case matches(msg, keys.Top):
		m.wishRow = 0
	case matches(msg, keys.Bottom):
		m.wishRow = clampRow(len(data.Entries)-1, len(data.Entries))

	case matches(msg, keys.Remove), matches(msg, keys.ToggleWishlist):
		if entry, ok := m.selectedWishlistEntry(); ok {
			return m, m.toggleWishlistCmd(entry.ProductID)
		}

	case matches(msg, keys.MoveToCart):
		if entry, ok := m.selectedWishlistEntry(); ok {
			return m, m.moveToCartCmd(entry.ProductID)
		}

	case matches(msg, keys.ToggleCart):
		if entry, ok := m.selectedWishlistEntry(); ok {
			return m, m.toggleCartCmd(entry.ProductID)
		}
	}

	return m, nil
}

// renderWishlist renders the wishlist entries.
func (m Model) renderWishlist() string {
	styles := m.theme.Styles()
	data := m.wishlist.Data()

	var b strings.Builder

	switch {
	case data.Loading:
		b.WriteString(styles.MutedText.Render("Loading wishlist..."))
		return b.String()
	case len(data.Entries) == 0 && data.Err != nil:
		b.WriteString(styles.DangerText.Render("Cannot load wishlist: " + data.Err.Error()))
		return b.String()
	case len(data.Entries) == 0:
		b.WriteString(styles.MutedText.Render("Wishlist is empty. Press w on a product to add it."))
		return b.String()
	}

	titleWidth := m.width - 40
	if titleWidth < 20 {
		titleWidth = 20
	}

	selected := clampRow(m.wishRow, len(data.Entries))
	for i, entry := range data.Entries {
		title := entry.Product.Title
		if title == "" {
			title = entry.ProductID
		}
		row := pad(title, titleWidth) + "  " + formatPrice(entry.Product.Price)
		if m.cart.Contains(entry.ProductID) {
			row += "  " + styles.BadgeStyle("in-cart").Render("cart")
		}
		if m.wishlist.Pending(entry.ProductID) {
			row += "  " + styles.BadgeStyle("pending").Render("…")
		}
		if i == selected {
			row = styles.Selected.Render("▸ " + row)
		} else {
			row = "  " + row
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	if data.Refreshing || data.Err != nil {
		b.WriteString("\n")
		if data.Refreshing {
			b.WriteString(styles.FaintText.Render("refreshing"))
		}
		if data.Err != nil {
			b.WriteString(styles.WarningText.Render("  Last refresh failed: " + data.Err.Error()))
		}
	}

	return b.String()
}

func (m Model) moveToCartCmd(productID string) tea.Cmd {
	wishlist, cart, ctx := m.wishlist, m.cart, m.ctx
	return func() tea.Msg {
		return actionMsg{err: wishlist.MoveToCart(ctx, cart, productID)}
	}
}
