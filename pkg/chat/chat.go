// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

// Package chat provides chat-completion backends behind the same
// registry pattern as websearch. Backends are addressed as
// "provider:model" (e.g. "perplexity:sonar").
package chat

import (
	"context"
	"net/http"

	"github.com/leseb/searchsuite/pkg/provider"
)

// Providers is the registry of chat backend implementations.
var Providers = provider.NewRegistry[Provider, Settings]("chat")

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options are optional sampling parameters. Nil fields use the provider
// default.
type Options struct {
	Temperature *float64
	MaxTokens   *int
}

// Completion is the first choice of a chat completion response.
type Completion struct {
	Model        string `json:"model"`
	Role         string `json:"role"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason"`
	Index        int    `json:"index"`
}

// Settings are the construction parameters handed to a backend factory.
type Settings struct {
	Params     map[string]string
	HTTPClient *http.Client
}

// Provider calls a chat-completion backend.
type Provider interface {
	DefaultModel() string
	Complete(ctx context.Context, model string, messages []Message, opts Options) (*Completion, error)
}
