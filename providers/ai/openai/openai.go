package openai

import (
	"context"
	"net/http"

	"github.com/cricket-aus/sukode-try/internal/utils"
	"github.com/cricket-aus/sukode-try/providers/ai"
	"github.com/cricket-aus/sukode-try/providers/observability"
)

// Provider is a chat-completions client for one OpenAI-compatible host,
// bound to one API key. It is safe for concurrent use; every call owns its
// own request and response state.
type Provider struct {
	config ProviderConfig
	apiKey string
	client *http.Client
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(client *http.Client) Option {
	return func(provider *Provider) {
		if client != nil {
			provider.client = client
		}
	}
}

// WithBaseURL overrides the preset base URL.
func WithBaseURL(baseURL string) Option {
	return func(provider *Provider) {
		provider.config = provider.config.WithBaseURL(baseURL).Normalize()
	}
}

// New returns a Provider for config bound to apiKey. An empty key is
// accepted here; requests then fail with *ai.AuthenticationError before
// touching the network.
func New(config ProviderConfig, apiKey string, opts ...Option) *Provider {
	provider := &Provider{
		config: config.Normalize(),
		apiKey: apiKey,
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// Name implements ai.Provider.
func (provider *Provider) Name() string {
	return provider.config.Name
}

// Config returns the normalized configuration the provider was built with.
func (provider *Provider) Config() ProviderConfig {
	return provider.config
}

// SendMessage implements ai.Provider using a single non-streaming request.
func (provider *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if provider.apiKey == "" {
		return nil, &ai.AuthenticationError{Provider: provider.config.DisplayName}
	}

	provider.annotate(ctx, request, false)

	chatRequest := requestToChatCompletion(request, provider.config.MaxTokens)
	url := provider.config.BaseURL + chatCompletionsEndpoint

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, provider.client, url, chatRequest,
		provider.config.authHeader(provider.apiKey))
	if err != nil {
		if observer := observability.ObserverFromContext(ctx); observer != nil {
			observer.Debug(ctx, "Chat completion request failed",
				observability.String(observability.AttrLLMProvider, provider.config.Name),
				observability.Error(err),
			)
		}
		return nil, provider.classify(err)
	}

	if resp.Error != nil {
		return nil, &ai.ProviderError{
			Provider:   provider.config.DisplayName,
			StatusCode: http.StatusOK,
			Code:       resp.Error.code(),
			Message:    resp.Error.Message,
		}
	}

	response := chatCompletionToGeneric(*resp)

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventLLMRequestEnd,
			observability.String(observability.AttrLLMResponseID, response.Id),
			observability.String(observability.AttrLLMFinishReason, response.FinishReason),
		)
		if response.Usage != nil {
			span.SetAttributes(
				observability.Int(observability.AttrLLMTokensPrompt, response.Usage.PromptTokens),
				observability.Int(observability.AttrLLMTokensCompletion, response.Usage.CompletionTokens),
				observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
			)
		}
	}

	return response, nil
}

// annotate enriches the span carried by ctx, if any.
func (provider *Provider) annotate(ctx context.Context, request ai.ChatRequest, streaming bool) {
	span := observability.SpanFromContext(ctx)
	if span == nil {
		return
	}
	span.AddEvent(observability.EventLLMRequestStart)
	span.SetAttributes(
		observability.String(observability.AttrLLMProvider, provider.config.Name),
		observability.String(observability.AttrLLMEndpoint, provider.config.BaseURL),
		observability.String(observability.AttrLLMModel, request.Model),
		observability.Bool(observability.AttrLLMStreaming, streaming),
	)
}
