package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleDetailKey processes keyboard input while the product detail
// overlay is open.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case matches(msg, keys.Escape), matches(msg, keys.Detail):
		m.showDetail = false
		return m, nil
	case matches(msg, keys.Quit):
		return m, tea.Quit
	case matches(msg, keys.ToggleCart):
		return m, m.toggleCartCmd(m.detailID)
	case matches(msg, keys.ToggleWishlist):
		return m, m.toggleWishlistCmd(m.detailID)
	case matches(msg, keys.Refresh):
		runner := m.catalog.Product(m.detailID)
		ctx := m.ctx
		return m, func() tea.Msg {
			runner.Refetch(ctx)
			return actionMsg{}
		}
	}
	return m, nil
}

// renderDetail renders the product detail overlay.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	snap := m.catalog.Product(m.detailID).Snapshot()

	var b strings.Builder
	switch {
	case snap.Loading:
		b.WriteString(styles.MutedText.Render("Loading product..."))
	case !snap.HasValue && snap.Err != nil:
		b.WriteString(styles.DangerText.Render("Cannot load product: " + snap.Err.Error()))
	case !snap.HasValue || snap.Value == nil:
		b.WriteString(styles.MutedText.Render("No product data."))
	default:
		p := snap.Value
		b.WriteString(styles.Text.Bold(true).Render(p.Title))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(strings.Repeat("─", 40)))
		b.WriteString("\n\n")

		price := formatPrice(p.Price)
		if p.PriceAfterDiscount > 0 && p.PriceAfterDiscount < p.Price {
			price = fmt.Sprintf("%s  (was %s)", formatPrice(p.PriceAfterDiscount), formatPrice(p.Price))
		}
		b.WriteString(styles.AccentText.Render(price))
		b.WriteString("\n\n")

		if p.Category.Name != "" {
			b.WriteString(styles.MutedText.Render("Category: ") + styles.Text.Render(p.Category.Name) + "\n")
		}
		if p.Brand.Name != "" {
			b.WriteString(styles.MutedText.Render("Brand:    ") + styles.Text.Render(p.Brand.Name) + "\n")
		}
		if p.RatingsQuantity > 0 {
			rating := fmt.Sprintf("%.1f (%d ratings)", p.RatingsAverage, p.RatingsQuantity)
			b.WriteString(styles.MutedText.Render("Rating:   ") + styles.Text.Render(rating) + "\n")
		}
		if p.Quantity > 0 {
			b.WriteString(styles.MutedText.Render("In stock: ") + styles.Text.Render(fmt.Sprintf("%d", p.Quantity)) + "\n")
		}

		var badges []string
		if m.cart.Contains(p.ID) {
			badges = append(badges, styles.BadgeStyle("in-cart").Render("in cart"))
		}
		if m.wishlist.Contains(p.ID) {
			badges = append(badges, styles.BadgeStyle("wishlisted").Render("wishlisted"))
		}
		if len(badges) > 0 {
			b.WriteString("\n" + strings.Join(badges, " ") + "\n")
		}

		if p.Description != "" {
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render(truncate(p.Description, 400)))
			b.WriteString("\n")
		}

		if snap.Refreshing {
			b.WriteString("\n" + styles.FaintText.Render("refreshing…"))
		}
		if snap.Err != nil {
			b.WriteString("\n" + styles.WarningText.Render("Last refresh failed: "+snap.Err.Error()))
		}

		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("c cart · w wishlist · r refresh · esc close"))
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(50)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
