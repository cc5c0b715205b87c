// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// httpBackend holds what every adapter needs to talk to its upstream API.
type httpBackend struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	ownsClient bool
}

func newHTTPBackend(name, envVar, defaultBaseURL string, settings Settings) (httpBackend, error) {
	apiKey := settings.Params["api_key"]
	if apiKey == "" {
		apiKey = os.Getenv(envVar)
	}
	if apiKey == "" {
		return httpBackend{}, missingKey(name, envVar)
	}

	b := httpBackend{
		name:       name,
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: settings.HTTPClient,
	}
	if u := settings.Params["base_url"]; u != "" {
		b.baseURL = strings.TrimRight(u, "/")
	}
	if b.httpClient == nil {
		b.httpClient = &http.Client{}
		b.ownsClient = true
	}
	return b, nil
}

// do sends req and returns the parsed JSON object from the response body.
func (b *httpBackend) do(req *http.Request) (gjson.Result, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, &TransportError{Provider: b.name, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, &TransportError{Provider: b.name, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &TransportError{Provider: b.name, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !gjson.ValidBytes(body) {
		return gjson.Result{}, &MalformedResponseError{Provider: b.name, Body: string(body)}
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return gjson.Result{}, &MalformedResponseError{Provider: b.name, Body: string(body)}
	}
	return root, nil
}

func (b *httpBackend) get(ctx context.Context, rawURL string) (gjson.Result, error) {
	req, err := newGet(ctx, rawURL)
	if err != nil {
		return gjson.Result{}, err
	}
	return b.do(req)
}

func newGet(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func (b *httpBackend) Close() error {
	if b.ownsClient {
		b.httpClient.CloseIdleConnections()
	}
	return nil
}

// items returns the array at path, or nothing when the path is missing or
// does not hold an array.
func items(root gjson.Result, path string) []gjson.Result {
	v := root.Get(path)
	if !v.IsArray() {
		return nil
	}
	return v.Array()
}

// field returns the value at path as a string, "" when absent.
func field(item gjson.Result, path string) string {
	v := item.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

// fieldOr is field with a fallback for absent values.
func fieldOr(item gjson.Result, path, fallback string) string {
	if v := item.Get(path); v.Exists() && v.Type != gjson.Null {
		return v.String()
	}
	return fallback
}

func optionString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
