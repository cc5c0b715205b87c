// Copyright Searchsuite Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

func init() {
	Providers.Register("perplexity", func(_ context.Context, s Settings) (Provider, error) {
		p, err := NewPerplexityProvider(s)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
}

const (
	perplexityEnvKey       = "PERPLEXITY_API_KEY"
	perplexityBaseURL      = "https://api.perplexity.ai"
	perplexityDefaultModel = "llama-3.1-sonar-large-128k-online"

	defaultTemperature = 0.75
	defaultMaxTokens   = 8000
)

// PerplexityProvider talks to Perplexity's OpenAI-compatible chat API
// through the official OpenAI Go SDK.
type PerplexityProvider struct {
	client openai.Client
}

// NewPerplexityProvider creates a Perplexity provider. The key comes from the
// "api_key" parameter or the PERPLEXITY_API_KEY environment variable;
// "base_url" overrides the endpoint.
func NewPerplexityProvider(s Settings) (*PerplexityProvider, error) {
	apiKey := s.Params["api_key"]
	if apiKey == "" {
		apiKey = os.Getenv(perplexityEnvKey)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("perplexity: api_key parameter is required (or set %s)", perplexityEnvKey)
	}

	baseURL := perplexityBaseURL
	if u := s.Params["base_url"]; u != "" {
		baseURL = u
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		// Retries are the caller's business.
		option.WithMaxRetries(0),
	}
	if s.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(s.HTTPClient))
	}

	return &PerplexityProvider{client: openai.NewClient(opts...)}, nil
}

// DefaultModel returns the model used when none is given.
func (p *PerplexityProvider) DefaultModel() string {
	return perplexityDefaultModel
}

// Complete sends messages to the chat completions endpoint and returns the
// first choice.
func (p *PerplexityProvider) Complete(ctx context.Context, model string, messages []Message, opts Options) (*Completion, error) {
	if model == "" {
		model = perplexityDefaultModel
	}

	msgs, err := convertMessages(messages)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model),
		Messages:    msgs,
		Temperature: openai.Float(defaultTemperature),
		MaxTokens:   openai.Int(defaultMaxTokens),
	}
	if opts.Temperature != nil {
		params.Temperature = openai.Float(*opts.Temperature)
	}
	if opts.MaxTokens != nil {
		params.MaxTokens = openai.Int(int64(*opts.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("perplexity: chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("perplexity: response contained no choices")
	}

	choice := completion.Choices[0]
	return &Completion{
		Model:        completion.Model,
		Role:         string(choice.Message.Role),
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Index:        int(choice.Index),
	}, nil
}

// convertMessages converts our Message types to OpenAI SDK message params
func convertMessages(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case "system":
			result = append(result, openai.SystemMessage(msg.Content))
		case "user":
			result = append(result, openai.UserMessage(msg.Content))
		case "assistant":
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			return nil, fmt.Errorf("unsupported message role: %s", msg.Role)
		}
	}
	return result, nil
}
