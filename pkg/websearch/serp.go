// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package websearch

import (
	"context"
	"fmt"
	"net/url"
)

func init() {
	Providers.Register("serp", func(_ context.Context, s Settings) (Provider, error) {
		p, err := NewSerpProvider(s)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

const (
	serpEnvKey        = "SERP_API_KEY"
	serpDefaultURL    = "https://serpapi.com/search.json"
	serpDefaultEngine = "google"
)

// SerpProvider searches through SerpAPI, which fronts several engines
// (Google, Bing, Baidu, YouTube, ...) behind one endpoint selected by the
// "engine" query parameter.
//
// The subfunction is passed through as the engine name without local
// validation; SerpAPI decides whether it is valid. "youtube" is special-cased
// because its results live under video_results.
type SerpProvider struct {
	httpBackend
}

// NewSerpProvider creates a SerpAPI provider. The key comes from the
// "api_key" parameter or the SERP_API_KEY environment variable.
func NewSerpProvider(s Settings) (*SerpProvider, error) {
	b, err := newHTTPBackend("serp", serpEnvKey, serpDefaultURL, s)
	if err != nil {
		return nil, err
	}
	return &SerpProvider{httpBackend: b}, nil
}

// Search queries SerpAPI. Options become extra query parameters
// (e.g. num=10, location="Austin, TX").
func (p *SerpProvider) Search(ctx context.Context, query, subfunction string, opts Options) ([]Result, error) {
	if subfunction == "youtube" {
		return p.youtube(ctx, query, opts)
	}

	q := url.Values{}
	q.Set("engine", serpDefaultEngine)
	for k, v := range opts {
		q.Set(k, optionString(v))
	}
	if subfunction != "" {
		q.Set("engine", subfunction)
	}
	q.Set("q", query)
	q.Set("api_key", p.apiKey)
	engine := q.Get("engine")

	root, err := p.get(ctx, p.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	hits := items(root, "organic_results")
	results := make([]Result, 0, len(hits))
	for _, r := range hits {
		results = append(results, Result{
			Title:   field(r, "title"),
			URL:     field(r, "link"),
			Content: field(r, "snippet"),
			Source:  "serp:" + engine,
		})
	}
	return results, nil
}

func (p *SerpProvider) youtube(ctx context.Context, query string, opts Options) ([]Result, error) {
	q := url.Values{}
	for k, v := range opts {
		q.Set(k, optionString(v))
	}
	q.Set("engine", "youtube")
	// YouTube takes its query as search_query; q is kept for compatibility.
	q.Set("search_query", query)
	q.Set("q", query)
	q.Set("api_key", p.apiKey)

	root, err := p.get(ctx, p.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}

	videos := items(root, "video_results")
	results := make([]Result, 0, len(videos))
	for _, r := range videos {
		results = append(results, Result{
			Title: field(r, "title"),
			URL:   field(r, "link"),
			Content: fmt.Sprintf("Duration: %s | Views: %s | Channel: %s | Description: %s",
				fieldOr(r, "duration", fieldOr(r, "length", "N/A")),
				fieldOr(r, "views", "N/A"),
				fieldOr(r, "channel.name", "N/A"),
				field(r, "description"),
			),
			Source: "serp:youtube",
		})
	}
	return results, nil
}
