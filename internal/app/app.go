package app

import (
	"context"
	"fmt"
	"time"

	"souq/internal/cache"
	"souq/internal/commerce"
	"souq/internal/config"
	"souq/internal/prefs"
	"souq/internal/query"
	"souq/internal/ui"
	"souq/internal/views"
)

// Options configure the souq application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/souq/prefs.toml
	PollEvery  int    // seconds; zero uses default
}

// Session bundles the shared synchronization state for one run: a single
// cache store, the runner registry, the derived views, and the health
// tracker. The UI receives a Session and never touches the client
// directly.
type Session struct {
	Store    *cache.Store
	Registry *query.Registry
	Cart     *views.CartView
	Wishlist *views.WishlistView
	Catalog  *views.Catalog
	Health   *Health
}

// NewSession wires the views against one store and registry.
func NewSession(client commerce.Storefront) *Session {
	store := cache.NewStore()
	registry := query.NewRegistry()
	return &Session{
		Store:    store,
		Registry: registry,
		Cart:     views.NewCartView(store, registry, client),
		Wishlist: views.NewWishlistView(store, registry, client),
		Catalog:  views.NewCatalog(store, registry, client),
		Health:   &Health{},
	}
}

// Warm performs the initial load so the UI starts with data instead of a
// wall of spinners. Errors stay in the cache entries; a dead API still
// yields a usable, empty UI.
func (s *Session) Warm(ctx context.Context) {
	s.Catalog.Products(commerce.ProductFilter{})
	s.Registry.EnsureAll(ctx)
}

// Run boots the souq TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return fmt.Errorf("load prefs: %w", err)
	}

	client, err := commerce.NewClient(cfg.BaseURL, commerce.StaticToken(cfg.Token))
	if err != nil {
		return fmt.Errorf("init commerce client: %w", err)
	}

	session := NewSession(client)

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background refresh loop
	StartPoller(ctx, session, interval)

	// Initial load before the UI starts
	session.Warm(ctx)

	uiOpts := ui.Options{
		Context:   ctx,
		Cart:      session.Cart,
		Wishlist:  session.Wishlist,
		Catalog:   session.Catalog,
		Registry:  session.Registry,
		Offline:   session.Health.Offline,
		PollTick:  interval,
		ThemeName: userPrefs.Theme,
		StartView: userPrefs.StartView,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
