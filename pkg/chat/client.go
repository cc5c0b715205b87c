// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"sync"
)

// Client routes "provider:model" requests to lazily built providers.
type Client struct {
	httpClient *http.Client

	mu        sync.Mutex
	configs   map[string]map[string]string
	providers map[string]Provider
}

// NewClient creates a chat client. Providers are constructed on first use.
func NewClient(configs map[string]map[string]string, httpClient *http.Client) *Client {
	c := &Client{
		httpClient: httpClient,
		configs:    make(map[string]map[string]string, len(configs)),
		providers:  make(map[string]Provider),
	}
	for key, params := range configs {
		c.configs[key] = maps.Clone(params)
	}
	return c
}

// Complete sends messages to the backend named by spec ("provider" or
// "provider:model"). An empty model selects the provider default.
func (c *Client) Complete(ctx context.Context, spec string, messages []Message, opts Options) (*Completion, error) {
	key, model, _ := strings.Cut(spec, ":")
	if !Providers.Contains(key) {
		return nil, fmt.Errorf("invalid chat provider %q (supported: %s)", key, strings.Join(Providers.Snapshot(), ", "))
	}

	p, err := c.provider(ctx, key)
	if err != nil {
		return nil, err
	}
	return p.Complete(ctx, model, messages, opts)
}

func (c *Client) provider(ctx context.Context, key string) (Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.providers[key]; ok {
		return p, nil
	}

	params := maps.Clone(c.configs[key])
	if params == nil {
		params = map[string]string{}
	}
	p, err := Providers.New(ctx, key, Settings{Params: params, HTTPClient: c.httpClient})
	if err != nil {
		return nil, err
	}
	c.providers[key] = p
	return p, nil
}
