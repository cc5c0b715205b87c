// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package websearch

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an unknown provider key or a backend that
// cannot be constructed from its parameters (e.g. a missing API key). It is
// always raised before any network call.
type ConfigurationError struct {
	Provider string
	Reason   string
	// Supported lists the valid provider keys when the key itself is invalid.
	Supported []string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("websearch: %s: %s", e.Provider, e.Reason)
	if len(e.Supported) > 0 {
		msg += fmt.Sprintf(" (supported providers: %s)", strings.Join(e.Supported, ", "))
	}
	return msg
}

// ResolutionError reports that the registry holds no implementation for a
// provider key.
type ResolutionError struct {
	Provider string
	Err      error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("websearch: cannot resolve provider %q: %v", e.Provider, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// TransportError reports a failed upstream call: either the request did not
// complete (Err is set) or the backend answered with a non-2xx status
// (StatusCode and Body are set).
type TransportError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("websearch: %s request failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("websearch: %s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError reports a response body that is not a JSON object.
// Missing or mistyped fields inside a valid object never cause it.
type MalformedResponseError struct {
	Provider string
	Body     string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("websearch: %s returned a malformed response: %.200s", e.Provider, e.Body)
}

func missingKey(provider, envVar string) error {
	return &ConfigurationError{
		Provider: provider,
		Reason:   fmt.Sprintf("api_key parameter is required (or set %s)", envVar),
	}
}
