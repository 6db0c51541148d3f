// Package config handles loading and parsing souq configuration files.
//
// # Overview
//
// This package reads souq's TOML configuration to discover the storefront
// API endpoint and the session token. Everything is optional: with no
// config file at all, souq talks to the default upstream anonymously.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/souq/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. The SOUQ_TOKEN environment variable overrides any configured token
//
// # TOML Format
//
// Example config.toml:
//
//	base_url = "https://ecommerce.routemisr.com/api/v1"
//	token = "eyJhbGciOi..."
//
// Both fields are optional. Tilde expansion is performed on the config
// path itself.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// A missing config file is NOT an error; souq works out of the box.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		log.Fatalf("failed to load config: %v", err)
//	}
//	client, err := commerce.NewClient(cfg.BaseURL, commerce.StaticToken(cfg.Token))
//
// The config package is read-only and stateless: it loads once at startup
// and returns an immutable Config struct.
package config
