// Package ui provides the Bubble Tea TUI for souq.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"souq/internal/commerce"
	"souq/internal/prefs"
	"souq/internal/query"
	"souq/internal/views"
)

// View represents the current active view.
type View int

const (
	ViewProducts View = iota
	ViewCart
	ViewWishlist
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Cart      *views.CartView
	Wishlist  *views.WishlistView
	Catalog   *views.Catalog
	Registry  *query.Registry
	Offline   func() bool
	PollTick  time.Duration
	ThemeName string
	StartView string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	cart      *views.CartView
	wishlist  *views.WishlistView
	catalog   *views.Catalog
	registry  *query.Registry
	offline   func() bool
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool

	// Products state
	productRow  int
	searching   bool
	searchInput textinput.Model
	search      string
	categoryIdx int // -1 selects all categories

	// Cart state
	cartRow int

	// Wishlist state
	wishRow int

	// Detail overlay
	showDetail bool
	detailID   string

	// Help overlay
	showHelp bool

	// Transient action feedback, cleared on the next successful action
	statusLine string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	offline := opts.Offline
	if offline == nil {
		offline = func() bool { return false }
	}

	input := textinput.New()
	input.Placeholder = "search products"
	input.CharLimit = 64
	input.Width = 32

	return Model{
		ctx:         ctx,
		cart:        opts.Cart,
		wishlist:    opts.Wishlist,
		catalog:     opts.Catalog,
		registry:    opts.Registry,
		offline:     offline,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		theme:       GetTheme(opts.ThemeName),
		keys:        DefaultKeyMap(),
		currentView: startView(opts.StartView),
		categoryIdx: -1,
		searchInput: input,
	}
}

func startView(name string) View {
	switch name {
	case "cart":
		return ViewCart
	case "wishlist":
		return ViewWishlist
	default:
		return ViewProducts
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.FocusMsg:
		// The terminal regained focus; stale entries refetch.
		return m, m.focusCmd()

	case tickMsg:
		// Views pull fresh snapshots on every render; the tick only
		// schedules the next repaint.
		return m, tickCmd(m.pollTick)

	case actionMsg:
		if msg.err != nil {
			m.statusLine = msg.err.Error()
		} else {
			m.statusLine = ""
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}
	if m.showDetail {
		return m.renderDetail()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewProducts:
		return m.renderProducts()
	case ViewCart:
		return m.renderCart()
	case ViewWishlist:
		return m.renderWishlist()
	default:
		return ""
	}
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// Detail overlay: esc closes, toggles still work
	if m.showDetail {
		return m.handleDetailKey(msg)
	}

	// Search input captures everything except esc and enter
	if m.searching {
		return m.handleSearchKey(msg)
	}

	keys := m.keys
	switch {
	case matches(msg, keys.Quit):
		return m, tea.Quit

	case matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case matches(msg, keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case matches(msg, keys.Tab):
		m.currentView = (m.currentView + 1) % 3
		m.savePrefs()
		return m, nil

	case matches(msg, keys.ShiftTab):
		m.currentView = (m.currentView + 2) % 3
		m.savePrefs()
		return m, nil

	case matches(msg, keys.ViewProducts):
		m.currentView = ViewProducts
		m.savePrefs()
		return m, nil

	case matches(msg, keys.ViewCart):
		m.currentView = ViewCart
		m.savePrefs()
		return m, nil

	case matches(msg, keys.ViewWishlist):
		m.currentView = ViewWishlist
		m.savePrefs()
		return m, nil

	case matches(msg, keys.Refresh):
		return m, m.refreshCmd()

	case matches(msg, keys.Escape):
		m.currentView = ViewProducts
		return m, nil
	}

	switch m.currentView {
	case ViewProducts:
		return m.handleProductsKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	case ViewWishlist:
		return m.handleWishlistKey(msg)
	}

	return m, nil
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:     m.theme.Name,
		StartView: viewName(m.currentView),
	})
}

func viewName(v View) string {
	switch v {
	case ViewCart:
		return "cart"
	case ViewWishlist:
		return "wishlist"
	default:
		return "products"
	}
}

// currentFilter returns the server-side product filter for the selected
// category.
func (m Model) currentFilter() commerce.ProductFilter {
	categories, ok := m.catalog.Categories().Value()
	if !ok || m.categoryIdx < 0 || m.categoryIdx >= len(categories) {
		return commerce.ProductFilter{}
	}
	return commerce.ProductFilter{Category: categories[m.categoryIdx].ID}
}

// Messages

type tickMsg time.Time

// actionMsg reports the outcome of a mutation issued from a key press.
type actionMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) focusCmd() tea.Cmd {
	registry, ctx := m.registry, m.ctx
	return func() tea.Msg {
		registry.FocusAll(ctx)
		return actionMsg{}
	}
}

// refreshCmd forces a refetch of the resource behind the current view.
func (m Model) refreshCmd() tea.Cmd {
	ctx := m.ctx
	switch m.currentView {
	case ViewCart:
		cart := m.cart
		return func() tea.Msg {
			cart.Refresh(ctx)
			return actionMsg{}
		}
	case ViewWishlist:
		wishlist := m.wishlist
		return func() tea.Msg {
			wishlist.Refresh(ctx)
			return actionMsg{}
		}
	default:
		runner := m.catalog.Products(m.currentFilter())
		return func() tea.Msg {
			runner.Refetch(ctx)
			return actionMsg{}
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	_, err := p.Run()
	return err
}
