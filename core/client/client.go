package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cricket-aus/sukode-try/core/overview"
	"github.com/cricket-aus/sukode-try/core/parse"
	"github.com/cricket-aus/sukode-try/core/session"
	"github.com/cricket-aus/sukode-try/providers/ai"
	"github.com/cricket-aus/sukode-try/providers/ai/openai"
	"github.com/cricket-aus/sukode-try/providers/observability"
	sessionstorage "github.com/cricket-aus/sukode-try/providers/session"
	"github.com/cricket-aus/sukode-try/providers/session/inmemory"
)

// Client is the code-generation client for one provider. It is the session
// context object: it owns the credential and model store and the provider
// binding, and is meant to be created once and passed to collaborators.
type Client struct {
	config      openai.ProviderConfig
	store       *session.Store
	binding     *binding
	middlewares []MiddlewareConfig
	observer    observability.Provider
	streaming   bool
}

// Option configures a Client.
type Option func(*options)

type options struct {
	storage     sessionstorage.Storage
	factory     ProviderFactory
	httpClient  *http.Client
	baseURL     string
	observer    observability.Provider
	streaming   *bool
	middlewares []MiddlewareConfig
}

// WithStorage sets the session storage backing the credential and model
// store. The default is a fresh in-memory session.
func WithStorage(storage sessionstorage.Storage) Option {
	return func(o *options) { o.storage = storage }
}

// WithProviderFactory replaces how a provider is built for a key.
func WithProviderFactory(factory ProviderFactory) Option {
	return func(o *options) { o.factory = factory }
}

// WithHTTPClient sets the HTTP client handed to the default provider factory.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// WithBaseURL points the default provider factory at another host.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithObserver enables spans, metrics and logs for every generation.
func WithObserver(observer observability.Provider) Option {
	return func(o *options) { o.observer = observer }
}

// WithStreaming forces the response mode. By default it follows the
// provider configuration.
func WithStreaming(streaming bool) Option {
	return func(o *options) { o.streaming = &streaming }
}

// WithMiddleware appends middlewares to the provider call chain.
func WithMiddleware(middlewares ...MiddlewareConfig) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, middlewares...) }
}

// New returns a Client for config. It fails only on invalid options.
func New(config openai.ProviderConfig, opts ...Option) (*Client, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	for i, mw := range o.middlewares {
		if mw.Send == nil {
			return nil, fmt.Errorf("middleware at index %d has a nil Send function", i)
		}
	}

	if o.baseURL != "" {
		config = config.WithBaseURL(o.baseURL)
	}
	config = config.Normalize()

	if o.storage == nil {
		o.storage = inmemory.New()
	}

	factory := o.factory
	if factory == nil {
		httpClient := o.httpClient
		factory = func(apiKey string) (ai.Provider, error) {
			return openai.New(config, apiKey, openai.WithHTTPClient(httpClient)), nil
		}
	}

	streaming := config.Streaming
	if o.streaming != nil {
		streaming = *o.streaming
	}

	store := session.New(o.storage, session.Slots{Key: config.KeySlot(), Model: config.ModelSlot()}, config.DefaultModel)

	c := &Client{
		config:      config,
		store:       store,
		middlewares: o.middlewares,
		observer:    o.observer,
		streaming:   streaming,
	}
	c.binding = newBinding(factory, store.Key, config.DisplayName)
	store.OnKeyChange(func(string) { c.binding.invalidate() })

	return c, nil
}

// Config returns the provider configuration in use.
func (c *Client) Config() openai.ProviderConfig {
	return c.config
}

// Streaming reports whether generations use the streaming response mode.
func (c *Client) Streaming() bool {
	return c.streaming
}

// SetAPIKey stores key for the session and discards any provider bound to
// the previous key. The next generation binds against key.
func (c *Client) SetAPIKey(ctx context.Context, key string) error {
	return c.store.SetKey(ctx, key)
}

// APIKey returns the current key, falling back to session storage.
func (c *Client) APIKey(ctx context.Context) (string, bool) {
	return c.store.Key(ctx)
}

// SetModel selects the model used when a request names none.
func (c *Client) SetModel(ctx context.Context, model string) error {
	return c.store.SetModel(ctx, model)
}

// Model returns the selected model, or the provider default.
func (c *Client) Model(ctx context.Context) string {
	return c.store.Model(ctx)
}

// Generation is the detailed outcome of one generation.
type Generation struct {
	ID           string
	Code         string            // extracted code, or trimmed raw text when no block was found
	Raw          string            // accumulated response text
	Blocks       []parse.CodeBlock // fenced blocks found in Raw
	Model        string
	Provider     string
	FinishReason string
	Usage        *ai.Usage
	Streamed     bool
	Truncated    bool // stream failed mid-way, hit the token limit, or left a fence open
	Duration     time.Duration
}

// TruncatedError reports a stream that failed after some content arrived.
// The partial output was still extracted; Err is the classified cause.
type TruncatedError struct {
	Generation *Generation
	Err        error
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("response truncated after %d characters: %v", len(e.Generation.Raw), e.Err)
}

func (e *TruncatedError) Unwrap() error { return e.Err }

// GenerateCode sends prompt to the provider and returns the code it
// answered with. On a truncated stream it returns the partial code together
// with a *TruncatedError. Every other failure is one of the ai error types.
func (c *Client) GenerateCode(ctx context.Context, request GenerationRequest) (string, error) {
	generation, err := c.GenerateCodeDetailed(ctx, request)
	if generation == nil {
		return "", err
	}
	return generation.Code, err
}

// GenerateCodeDetailed is GenerateCode returning the full Generation. When
// ctx carries an [overview.Overview], the outcome is recorded into it.
func (c *Client) GenerateCodeDetailed(ctx context.Context, request GenerationRequest) (*Generation, error) {
	generation := &Generation{
		ID:       uuid.NewString(),
		Provider: c.config.Name,
		Streamed: c.streaming,
	}
	start := time.Now()

	var span observability.Span
	if c.observer != nil {
		ctx, span = c.observer.StartSpan(ctx, observability.SpanGenerateCode,
			observability.String(observability.AttrGenerationID, generation.ID),
			observability.String(observability.AttrLLMProvider, c.config.Name),
			observability.Bool(observability.AttrLLMStreaming, c.streaming),
			observability.String(observability.AttrGenerationTask, string(request.Task)),
			observability.Int(observability.AttrGenerationPromptLength, len(request.Prompt)),
		)
		ctx = observability.ContextWithSpan(ctx, span)
		ctx = observability.ContextWithObserver(ctx, c.observer)
		defer span.End()
	}

	generation, err := c.generate(ctx, request, generation)
	generation.Duration = time.Since(start)

	overview.FromContext(ctx).Record(overview.Outcome{
		Model:     generation.Model,
		Usage:     generation.Usage,
		Duration:  generation.Duration,
		Failed:    err != nil,
		Truncated: generation.Truncated,
	})

	if c.observer != nil {
		c.record(ctx, span, generation, err)
	}

	var truncated *TruncatedError
	if err != nil && !errors.As(err, &truncated) {
		return nil, ai.Classify(err)
	}
	return generation, err
}

func (c *Client) generate(ctx context.Context, request GenerationRequest, generation *Generation) (*Generation, error) {
	chatRequest, err := buildChatRequest(request, c.store.Model(ctx))
	if err != nil {
		return generation, err
	}
	generation.Model = chatRequest.Model

	provider, err := c.binding.get(ctx)
	if err != nil {
		return generation, err
	}

	response, err := consume(ctx, provider, c.middlewares, chatRequest, c.streaming)
	if response == nil || (err != nil && response.Content == "") {
		return generation, err
	}

	generation.Raw = response.Content
	generation.Blocks = parse.CodeBlocks(response.Content)
	generation.Code = parse.ExtractCode(response.Content)
	generation.FinishReason = response.FinishReason
	generation.Usage = response.Usage
	if response.Model != "" {
		generation.Model = response.Model
	}
	generation.Truncated = err != nil || response.FinishReason == "length" || parse.HasUnclosedFence(response.Content)

	if err != nil {
		return generation, &TruncatedError{Generation: generation, Err: ai.Classify(err)}
	}
	return generation, nil
}

// record closes out the span and updates metrics for one generation.
func (c *Client) record(ctx context.Context, span observability.Span, generation *Generation, err error) {
	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMProvider, generation.Provider),
		observability.String(observability.AttrLLMModel, generation.Model),
	}

	c.observer.Counter(observability.MetricGenerations).Add(ctx, 1, attrs...)
	c.observer.Histogram(observability.MetricGenerationDuration).Record(ctx, float64(generation.Duration.Milliseconds()), attrs...)

	span.SetAttributes(
		observability.String(observability.AttrLLMModel, generation.Model),
		observability.Int(observability.AttrGenerationOutputLength, len(generation.Code)),
		observability.Int(observability.AttrGenerationBlocks, len(generation.Blocks)),
		observability.Bool(observability.AttrGenerationTruncated, generation.Truncated),
	)

	if err != nil {
		kind := ai.KindOf(err)
		span.RecordError(err)
		span.SetStatus(observability.StatusError, string(kind))
		c.observer.Counter(observability.MetricGenerationErrors).Add(ctx, 1,
			append(attrs, observability.String(observability.AttrErrorKind, string(kind)))...)
		c.observer.Error(ctx, "Code generation failed",
			observability.String(observability.AttrGenerationID, generation.ID),
			observability.String(observability.AttrErrorKind, string(kind)),
			observability.Error(err),
			observability.Duration(observability.AttrDuration, generation.Duration),
		)
		return
	}

	span.AddEvent(observability.EventCodeExtracted,
		observability.Int(observability.AttrGenerationBlocks, len(generation.Blocks)),
	)
	span.SetStatus(observability.StatusOK, "")
	c.observer.Info(ctx, "Code generated",
		observability.String(observability.AttrGenerationID, generation.ID),
		observability.String(observability.AttrLLMModel, generation.Model),
		observability.Int(observability.AttrGenerationOutputLength, len(generation.Code)),
		observability.Bool(observability.AttrGenerationTruncated, generation.Truncated),
		observability.Duration(observability.AttrDuration, generation.Duration),
	)
}

// GenerateAll runs requests concurrently, each with its own buffer, and
// returns their generations in request order. The first failure cancels the
// remaining requests and is returned; generations that completed, including
// truncated ones, are still present in the result.
func (c *Client) GenerateAll(ctx context.Context, requests []GenerationRequest) ([]*Generation, error) {
	results := make([]*Generation, len(requests))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, request := range requests {
		group.Go(func() error {
			generation, err := c.GenerateCodeDetailed(groupCtx, request)
			results[i] = generation
			return err
		})
	}

	err := group.Wait()
	return results, err
}
