// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

// Package websearch issues queries against third-party search backends and
// normalizes their answers into a single Result shape.
//
// Backends are addressed by key, optionally qualified with a subfunction
// ("you.com:get_news", "serp:youtube"). Each backend file registers its
// factory in Providers from init(); the Client facade validates keys against
// the registry snapshot, keeps one adapter per key and routes each query.
package websearch

import (
	"context"
	"errors"
	"net/http"

	"github.com/leseb/searchsuite/pkg/provider"
)

// Providers is the registry of search backend implementations.
var Providers = provider.NewRegistry[Provider, Settings]("websearch")

// Result represents a single normalized search result. All fields are
// always set; values missing upstream are empty strings.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	// Source identifies the backend, and for some backends the engine,
	// that produced the result (e.g. "serp:google").
	Source string `json:"source"`
}

// Options carries backend-specific per-call parameters. They are forwarded
// to the upstream API as extra query parameters or body fields.
type Options map[string]any

// Settings are the construction parameters handed to a backend factory.
type Settings struct {
	// Params holds credentials and endpoint overrides ("api_key", "base_url").
	Params map[string]string
	// HTTPClient is used for upstream calls. When nil the adapter creates
	// and owns its own client.
	HTTPClient *http.Client
}

// Provider performs searches against an external API.
type Provider interface {
	// Search runs query against the backend. An empty subfunction selects the
	// default behavior. On success the returned slice is never nil.
	Search(ctx context.Context, query, subfunction string, opts Options) ([]Result, error)

	// Close releases the adapter's HTTP resources.
	Close() error
}

// SupportedProviders returns the provider keys registered at the time of the
// first call. The set is memoized; see provider.Registry.Snapshot.
func SupportedProviders() []string {
	return Providers.Snapshot()
}

// CreateProvider instantiates the backend registered under key. A key with
// no registered factory yields a *ResolutionError.
func CreateProvider(ctx context.Context, key string, settings Settings) (Provider, error) {
	if settings.Params == nil {
		settings.Params = map[string]string{}
	}
	p, err := Providers.New(ctx, key, settings)
	if err != nil {
		if errors.Is(err, provider.ErrNotRegistered) {
			return nil, &ResolutionError{Provider: key, Err: err}
		}
		return nil, err
	}
	return p, nil
}
