// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package websearch

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

func init() {
	Providers.Register("you.com", func(_ context.Context, s Settings) (Provider, error) {
		p, err := NewYouProvider(s)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

const (
	youEnvKey     = "YOU_COM_API_KEY"
	youDefaultURL = "https://api.ydc-index.io"

	// YouNews selects the news endpoint.
	YouNews = "get_news"
)

// YouProvider searches the You.com web and news APIs.
//
// Unlike SerpProvider, an unrecognized subfunction is not forwarded
// upstream: anything other than "get_news" runs the default web search.
type YouProvider struct {
	httpBackend
}

// NewYouProvider creates a You.com provider. The key comes from the
// "api_key" parameter or the YOU_COM_API_KEY environment variable.
func NewYouProvider(s Settings) (*YouProvider, error) {
	b, err := newHTTPBackend("you.com", youEnvKey, youDefaultURL, s)
	if err != nil {
		return nil, err
	}
	return &YouProvider{httpBackend: b}, nil
}

// Search runs a web search, or a news search when subfunction is "get_news".
// Options are sent as extra query parameters.
func (y *YouProvider) Search(ctx context.Context, query, subfunction string, opts Options) ([]Result, error) {
	if subfunction == YouNews {
		return y.news(ctx, query, opts)
	}

	root, err := y.call(ctx, "/search", "query", query, opts)
	if err != nil {
		return nil, err
	}

	hits := items(root, "hits")
	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		content := field(h, "description")
		if content == "" {
			var snippets []string
			for _, s := range items(h, "snippets") {
				snippets = append(snippets, s.String())
			}
			content = strings.Join(snippets, " ")
		}
		results = append(results, Result{
			Title:   field(h, "title"),
			URL:     field(h, "url"),
			Content: content,
			Source:  "you.com",
		})
	}
	return results, nil
}

func (y *YouProvider) news(ctx context.Context, query string, opts Options) ([]Result, error) {
	root, err := y.call(ctx, "/news", "q", query, opts)
	if err != nil {
		return nil, err
	}

	hits := items(root, "news.results")
	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, Result{
			Title:   field(h, "title"),
			URL:     field(h, "url"),
			Content: field(h, "description"),
			Source:  "you.com:news",
		})
	}
	return results, nil
}

func (y *YouProvider) call(ctx context.Context, path, queryParam, query string, opts Options) (gjson.Result, error) {
	q := url.Values{}
	for k, v := range opts {
		q.Set(k, optionString(v))
	}
	q.Set(queryParam, query)

	req, err := newGet(ctx, y.baseURL+path+"?"+q.Encode())
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("X-API-Key", y.apiKey)
	return y.do(req)
}
