package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []helpSection{
		{
			title: "Navigation",
			items: []helpItem{
				{"tab", "Next view"},
				{"1/2/3", "Products/Cart/Wishlist"},
				{"j/k", "Move down/up"},
				{"g/G", "Go to top/bottom"},
				{"esc", "Close / back to products"},
			},
		},
		{
			title: "Products",
			items: []helpItem{
				{"/", "Search products"},
				{"f", "Cycle category filter"},
				{"c", "Toggle cart"},
				{"w", "Toggle wishlist"},
				{"enter", "Product detail"},
			},
		},
		{
			title: "Cart",
			items: []helpItem{
				{"+/-", "Change quantity"},
				{"x", "Remove item"},
				{"C", "Clear cart"},
			},
		},
		{
			title: "Wishlist",
			items: []helpItem{
				{"m", "Move to cart"},
				{"x", "Remove entry"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"r", "Refresh now"},
				{"T", "Cycle theme"},
				{"?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	var b strings.Builder

	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(12)
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(40)

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

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
