// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func init() {
	Providers.Register("tavily", func(_ context.Context, s Settings) (Provider, error) {
		p, err := NewTavilyProvider(s)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

const (
	tavilyEnvKey     = "TAVILY_API_KEY"
	tavilyDefaultURL = "https://api.tavily.com"
)

// TavilyProvider performs AI-oriented web searches using the Tavily Search
// API. It has a single behavior; subfunctions are ignored.
type TavilyProvider struct {
	httpBackend
}

// NewTavilyProvider creates a new Tavily Search provider. The key comes from
// the "api_key" parameter or the TAVILY_API_KEY environment variable.
func NewTavilyProvider(s Settings) (*TavilyProvider, error) {
	b, err := newHTTPBackend("tavily", tavilyEnvKey, tavilyDefaultURL, s)
	if err != nil {
		return nil, err
	}
	return &TavilyProvider{httpBackend: b}, nil
}

// Search queries the Tavily Search API. Options are merged into the request
// body (e.g. max_results, search_depth, topic).
func (t *TavilyProvider) Search(ctx context.Context, query, _ string, opts Options) ([]Result, error) {
	reqBody := make(map[string]any, len(opts)+2)
	for k, v := range opts {
		reqBody[k] = v
	}
	reqBody["query"] = query
	reqBody["api_key"] = t.apiKey

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	root, err := t.do(req)
	if err != nil {
		return nil, err
	}

	hits := items(root, "results")
	results := make([]Result, 0, len(hits))
	for _, r := range hits {
		results = append(results, Result{
			Title:   field(r, "title"),
			URL:     field(r, "url"),
			Content: field(r, "content"),
			Source:  "tavily",
		})
	}
	return results, nil
}
