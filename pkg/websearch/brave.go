// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package websearch

import (
	"context"
	"net/url"
)

func init() {
	Providers.Register("brave", func(_ context.Context, s Settings) (Provider, error) {
		p, err := NewBraveProvider(s)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

const (
	braveEnvKey     = "BRAVE_API_KEY"
	braveDefaultURL = "https://api.search.brave.com/res/v1"
)

// BraveProvider performs web searches using the Brave Search API.
// The "news" subfunction queries the news endpoint; anything else runs a
// web search.
type BraveProvider struct {
	httpBackend
}

// NewBraveProvider creates a new Brave Search provider. The key comes from
// the "api_key" parameter or the BRAVE_API_KEY environment variable.
func NewBraveProvider(s Settings) (*BraveProvider, error) {
	b, err := newHTTPBackend("brave", braveEnvKey, braveDefaultURL, s)
	if err != nil {
		return nil, err
	}
	return &BraveProvider{httpBackend: b}, nil
}

// Search queries the Brave Web Search API. Options are sent as query
// parameters (count, country, freshness, ...).
func (b *BraveProvider) Search(ctx context.Context, query, subfunction string, opts Options) ([]Result, error) {
	path, resultsKey, source := "/web/search", "web.results", "brave"
	if subfunction == "news" {
		path, resultsKey, source = "/news/search", "results", "brave:news"
	}

	q := url.Values{}
	for k, v := range opts {
		q.Set(k, optionString(v))
	}
	q.Set("q", query)

	req, err := newGet(ctx, b.baseURL+path+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Subscription-Token", b.apiKey)

	root, err := b.do(req)
	if err != nil {
		return nil, err
	}

	hits := items(root, resultsKey)
	results := make([]Result, 0, len(hits))
	for _, r := range hits {
		results = append(results, Result{
			Title:   field(r, "title"),
			URL:     field(r, "url"),
			Content: field(r, "description"),
			Source:  source,
		})
	}
	return results, nil
}
