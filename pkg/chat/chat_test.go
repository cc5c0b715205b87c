// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

func newChatServer(t *testing.T, got *recordedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected /chat/completions, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q, want Bearer test-key", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "` + got.Model + `",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "Paris"}
			}]
		}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPerplexityProvider_Defaults(t *testing.T) {
	var got recordedRequest
	server := newChatServer(t, &got)

	p, err := NewPerplexityProvider(Settings{Params: map[string]string{"api_key": "test-key", "base_url": server.URL}})
	if err != nil {
		t.Fatalf("NewPerplexityProvider: %v", err)
	}

	completion, err := p.Complete(context.Background(), "", []Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "capital of France?"},
	}, Options{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if got.Model != perplexityDefaultModel {
		t.Errorf("model = %q, want %q", got.Model, perplexityDefaultModel)
	}
	if got.Temperature != defaultTemperature {
		t.Errorf("temperature = %v, want %v", got.Temperature, defaultTemperature)
	}
	if got.MaxTokens != defaultMaxTokens {
		t.Errorf("max_tokens = %d, want %d", got.MaxTokens, defaultMaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[1].Content != "capital of France?" {
		t.Errorf("messages = %+v", got.Messages)
	}
	if completion.Content != "Paris" || completion.Role != "assistant" || completion.FinishReason != "stop" {
		t.Errorf("completion = %+v", completion)
	}
}

func TestPerplexityProvider_MissingKey(t *testing.T) {
	t.Setenv(perplexityEnvKey, "")
	if _, err := NewPerplexityProvider(Settings{Params: map[string]string{}}); err == nil {
		t.Fatal("expected error without api key")
	}
	t.Setenv(perplexityEnvKey, "from-env")
	if _, err := NewPerplexityProvider(Settings{Params: map[string]string{}}); err != nil {
		t.Fatalf("expected env fallback to succeed: %v", err)
	}
}

func TestPerplexityProvider_UnsupportedRole(t *testing.T) {
	p, err := NewPerplexityProvider(Settings{Params: map[string]string{"api_key": "k"}})
	if err != nil {
		t.Fatalf("NewPerplexityProvider: %v", err)
	}
	_, err = p.Complete(context.Background(), "m", []Message{{Role: "tool", Content: "x"}}, Options{})
	if err == nil || !strings.Contains(err.Error(), "unsupported message role") {
		t.Fatalf("expected unsupported role error, got %v", err)
	}
}

func TestClient_ModelRouting(t *testing.T) {
	var got recordedRequest
	server := newChatServer(t, &got)

	client := NewClient(map[string]map[string]string{
		"perplexity": {"api_key": "test-key", "base_url": server.URL},
	}, nil)

	temp := 0.1
	maxTokens := 64
	completion, err := client.Complete(context.Background(), "perplexity:sonar", []Message{{Role: "user", Content: "hi"}},
		Options{Temperature: &temp, MaxTokens: &maxTokens})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Model != "sonar" || completion.Model != "sonar" {
		t.Errorf("model = %q / %q, want sonar", got.Model, completion.Model)
	}
	if got.Temperature != 0.1 || got.MaxTokens != 64 {
		t.Errorf("temperature/max_tokens = %v/%d, want 0.1/64", got.Temperature, got.MaxTokens)
	}
}

func TestClient_UnknownProvider(t *testing.T) {
	client := NewClient(nil, nil)
	_, err := client.Complete(context.Background(), "nope:model", nil, Options{})
	if err == nil || !strings.Contains(err.Error(), "perplexity") {
		t.Fatalf("expected error listing supported providers, got %v", err)
	}
}
