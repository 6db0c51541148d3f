package ui

import (
	"fmt"
	"strings"
	"time"
)

// renderHeader renders the top status bar: logo, view tabs, totals, and
// sync state.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	left := []string{styles.Logo.Background(bg.Color()).Render(" souq ")}
	for _, v := range []View{ViewProducts, ViewCart, ViewWishlist} {
		label := m.tabLabel(v)
		if v == m.currentView {
			left = append(left, styles.Selected.Render(" "+label+" "))
		} else {
			left = append(left, bg.Render(label, styles.MutedText))
		}
	}

	right := m.renderSyncState()

	leftStr := bg.Join(left, " ")
	gap := m.width - visibleWidth(leftStr) - visibleWidth(right)
	if gap < 1 {
		gap = 1
	}
	return leftStr + bg.Spaces(gap) + right
}

func (m Model) tabLabel(v View) string {
	switch v {
	case ViewCart:
		data := m.cart.Data()
		if data.Count > 0 {
			return fmt.Sprintf("2:Cart (%d)", data.Count)
		}
		return "2:Cart"
	case ViewWishlist:
		data := m.wishlist.Data()
		if data.Count > 0 {
			return fmt.Sprintf("3:Wishlist (%d)", data.Count)
		}
		return "3:Wishlist"
	default:
		return "1:Products"
	}
}

// renderSyncState shows whether the data on screen can be trusted:
// offline beats refreshing beats a quiet age indicator.
func (m Model) renderSyncState() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	if m.offline() {
		return styles.BadgeStyle("offline").Render("OFFLINE") + bg.Space()
	}

	snap := m.currentSnapshotMeta()
	if snap.refreshing {
		return bg.Render("refreshing…", styles.FaintText) + bg.Space()
	}
	if !snap.lastFetched.IsZero() {
		age := humanizeDuration(time.Since(snap.lastFetched))
		return bg.Render("updated "+age+" ago", styles.FaintText) + bg.Space()
	}
	return bg.Space()
}

type snapshotMeta struct {
	refreshing  bool
	lastFetched time.Time
}

func (m Model) currentSnapshotMeta() snapshotMeta {
	switch m.currentView {
	case ViewCart:
		data := m.cart.Data()
		return snapshotMeta{refreshing: data.Refreshing}
	case ViewWishlist:
		data := m.wishlist.Data()
		return snapshotMeta{refreshing: data.Refreshing}
	default:
		snap := m.catalog.Products(m.currentFilter()).Snapshot()
		return snapshotMeta{refreshing: snap.Refreshing, lastFetched: snap.LastFetchedAt}
	}
}

// renderCommandBar renders the second header line: contextual key hints
// plus any pending action error.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()

	var hints []string
	switch m.currentView {
	case ViewProducts:
		hints = []string{"/ search", "f category: " + m.categoryLabel(), "c cart", "w wishlist", "enter detail"}
	case ViewCart:
		hints = []string{"+/- quantity", "x remove", "C clear", "w wishlist"}
	case ViewWishlist:
		hints = []string{"m move to cart", "x remove", "c cart"}
	}
	hints = append(hints, "r refresh", "? help", "q quit")

	bar := styles.Footer.Render(strings.Join(hints, "  │  "))
	if m.statusLine != "" {
		bar += "  " + styles.DangerText.Render(truncate(m.statusLine, m.width/2))
	}
	return bar
}

// visibleWidth approximates printable width by stripping ANSI sequences.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			width++
		}
	}
	return width
}
