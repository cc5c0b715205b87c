// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package websearch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Client is the caller-facing entry point. It holds per-provider
// configuration and at most one live Provider per key.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	configs   map[string]map[string]string
	providers map[string]Provider

	// building collapses concurrent first use of the same key into one
	// construction.
	building singleflight.Group
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient makes every adapter built by the client use hc.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for construction and dispatch messages.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the given provider configurations, keyed by
// provider key ("serp", "you.com", ...). Every configured provider is
// validated and constructed immediately, so an unknown key or a missing
// credential fails here rather than on first search.
func NewClient(ctx context.Context, configs map[string]map[string]string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		logger:    slog.Default(),
		configs:   make(map[string]map[string]string),
		providers: make(map[string]Provider),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	mergeConfigs(c.configs, configs)
	if err := c.initializeLocked(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Configure merges configs into the existing configuration and rebuilds
// every configured provider. A nil or empty argument is a no-op. If any
// provider fails validation or construction the client is left unchanged.
func (c *Client) Configure(ctx context.Context, configs map[string]map[string]string) error {
	if len(configs) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	previous := c.configs
	c.configs = make(map[string]map[string]string, len(previous)+len(configs))
	mergeConfigs(c.configs, previous)
	mergeConfigs(c.configs, configs)
	if err := c.initializeLocked(ctx); err != nil {
		c.configs = previous
		return err
	}
	return nil
}

// initializeLocked validates and constructs an adapter for every configured
// key. On failure every adapter built during the call is closed and the
// live set is untouched; on success it replaces the live set.
func (c *Client) initializeLocked(ctx context.Context) error {
	built := make(map[string]Provider, len(c.configs))
	for _, key := range slices.Sorted(maps.Keys(c.configs)) {
		p, err := c.build(ctx, key, c.configs[key])
		if err != nil {
			closeAll(built)
			return err
		}
		built[key] = p
	}

	for key, old := range c.providers {
		if _, replaced := built[key]; !replaced {
			built[key] = old
			continue
		}
		if err := old.Close(); err != nil {
			c.logger.Warn("Failed to close replaced search provider", "provider", key, "error", err)
		}
	}
	c.providers = built
	return nil
}

// Search runs query against the provider named by spec, which has the form
// "provider" or "provider:subfunction". Only the first colon is significant.
// The adapter's results are returned unmodified.
func (c *Client) Search(ctx context.Context, spec, query string, opts Options) ([]Result, error) {
	key, subfunction, _ := strings.Cut(spec, ":")
	if err := validateKey(key); err != nil {
		return nil, err
	}

	p, err := c.provider(ctx, key)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = Options{}
	}

	c.logger.Debug("Dispatching search", "provider", key, "subfunction", subfunction)
	return p.Search(ctx, query, subfunction, opts)
}

// Close releases every adapter held by the client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := closeAll(c.providers)
	c.providers = make(map[string]Provider)
	return err
}

// provider returns the cached adapter for key, building it on first use
// from the configuration on file (or none).
func (c *Client) provider(ctx context.Context, key string) (Provider, error) {
	c.mu.Lock()
	p, ok := c.providers[key]
	c.mu.Unlock()
	if ok {
		return p, nil
	}

	v, err, _ := c.building.Do(key, func() (any, error) {
		c.mu.Lock()
		if p, ok := c.providers[key]; ok {
			c.mu.Unlock()
			return p, nil
		}
		params := maps.Clone(c.configs[key])
		c.mu.Unlock()

		p, err := c.build(ctx, key, params)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.providers[key]; ok {
			// Configure installed one while we were building.
			p.Close()
			return existing, nil
		}
		c.providers[key] = p
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Provider), nil
}

func (c *Client) build(ctx context.Context, key string, params map[string]string) (Provider, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if params == nil {
		params = map[string]string{}
	}

	p, err := CreateProvider(ctx, key, Settings{Params: params, HTTPClient: c.httpClient})
	if err != nil {
		var cfgErr *ConfigurationError
		var resErr *ResolutionError
		if errors.As(err, &cfgErr) || errors.As(err, &resErr) {
			return nil, err
		}
		return nil, &ConfigurationError{Provider: key, Reason: fmt.Sprintf("construct provider: %v", err)}
	}
	c.logger.Debug("Initialized search provider", "provider", key)
	return p, nil
}

func validateKey(key string) error {
	if Providers.Contains(key) {
		return nil
	}
	return &ConfigurationError{
		Provider:  key,
		Reason:    "invalid provider key; use 'provider' or 'provider:function'",
		Supported: SupportedProviders(),
	}
}

// mergeConfigs copies src into dst, cloning each option map so callers never
// share mutable state with the client.
func mergeConfigs(dst, src map[string]map[string]string) {
	for key, params := range src {
		if params == nil {
			params = map[string]string{}
		}
		dst[key] = maps.Clone(params)
	}
}

func closeAll(providers map[string]Provider) error {
	var errs []error
	for key, p := range providers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
