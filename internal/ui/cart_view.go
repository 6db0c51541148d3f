package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"souq/internal/commerce"
)

func (m Model) selectedCartLine() (commerce.CartLine, bool) {
	data := m.cart.Data()
	if len(data.Lines) == 0 {
		return commerce.CartLine{}, false
	}
	return data.Lines[clampRow(m.cartRow, len(data.Lines))], true
}

// handleCartKey processes keyboard input for the cart view.
func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	data := m.cart.Data()
	keys := m.keys

	switch {
	case matches(msg, keys.Down):
		m.cartRow = clampRow(m.cartRow+1, len(data.Lines))
	case matches(msg, keys.Up):
		m.cartRow = clampRow(m.cartRow-1, len(data.Lines))
	case matches(msg, keys.Top):
		m.cartRow = 0
	case matches(msg, keys.Bottom):
		m.cartRow = clampRow(len(data.Lines)-1, len(data.Lines))

	case matches(msg, keys.Increment):
		if line, ok := m.selectedCartLine(); ok {
			return m, m.changeCountCmd(line.ProductID, 1)
		}

	case matches(msg, keys.Decrement):
		if line, ok := m.selectedCartLine(); ok {
			return m, m.changeCountCmd(line.ProductID, -1)
		}

	case matches(msg, keys.Remove):
		if line, ok := m.selectedCartLine(); ok {
			return m, m.toggleCartCmd(line.ProductID)
		}

	case matches(msg, keys.ClearCart):
		return m, m.clearCartCmd()

	case matches(msg, keys.ToggleWishlist):
		if line, ok := m.selectedCartLine(); ok {
			return m, m.toggleWishlistCmd(line.ProductID)
		}
	}

	return m, nil
}

// renderCart renders the cart with the server-reported totals.
func (m Model) renderCart() string {
	styles := m.theme.Styles()
	data := m.cart.Data()

	var b strings.Builder

	switch {
	case data.Loading:
		b.WriteString(styles.MutedText.Render("Loading cart..."))
		return b.String()
	case len(data.Lines) == 0 && data.Err != nil:
		b.WriteString(styles.DangerText.Render("Cannot load cart: " + data.Err.Error()))
		return b.String()
	case len(data.Lines) == 0:
		b.WriteString(styles.MutedText.Render("Cart is empty. Press c on a product to add it."))
		return b.String()
	}

	titleWidth := m.width - 40
	if titleWidth < 20 {
		titleWidth = 20
	}

	selected := clampRow(m.cartRow, len(data.Lines))
	for i, line := range data.Lines {
		title := line.Product.Title
		if title == "" {
			title = line.ProductID
		}
		row := fmt.Sprintf("%s  x%-3d  %12s", pad(title, titleWidth), line.Count, formatPrice(line.Price))
		if m.cart.Pending(line.ProductID) {
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

	b.WriteString("\n")
	total := fmt.Sprintf("%d items   total %s", data.Count, formatPrice(data.TotalPrice))
	b.WriteString(styles.AccentText.Bold(true).Render(total))
	if data.Refreshing {
		b.WriteString(styles.FaintText.Render("  refreshing"))
	}
	if data.Err != nil {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("Last refresh failed: " + data.Err.Error()))
	}

	return b.String()
}

func (m Model) changeCountCmd(productID string, delta int) tea.Cmd {
	cart, ctx := m.cart, m.ctx
	return func() tea.Msg {
		return actionMsg{err: cart.ChangeCount(ctx, productID, delta)}
	}
}

func (m Model) clearCartCmd() tea.Cmd {
	cart, ctx := m.cart, m.ctx
	return func() tea.Msg {
		return actionMsg{err: cart.Clear(ctx)}
	}
}
