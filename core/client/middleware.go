package client

import (
	"context"

	"github.com/cricket-aus/sukode-try/providers/ai"
)

// SendFunc performs one non-streaming completion against the bound provider.
type SendFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error)

// StreamFunc opens one streaming completion against the bound provider.
type StreamFunc func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error)

// Middleware decorates a SendFunc.
type Middleware func(next SendFunc) SendFunc

// StreamMiddleware decorates a StreamFunc. Wrapping the returned stream is
// how an entry sees deltas as they arrive and learns when the stream ends.
type StreamMiddleware func(next StreamFunc) StreamFunc

// MiddlewareConfig is one entry of the chain given to [WithMiddleware].
// Entries run in the order given, the first one outermost. Send must be set;
// an entry without Stream is skipped for streaming generations.
type MiddlewareConfig struct {
	Send   Middleware
	Stream StreamMiddleware
}

// sendChain is the non-streaming call path for one generation.
func sendChain(provider ai.Provider, middlewares []MiddlewareConfig) SendFunc {
	chain := SendFunc(provider.SendMessage)
	for i := len(middlewares) - 1; i >= 0; i-- {
		chain = middlewares[i].Send(chain)
	}
	return chain
}

// streamChain is the streaming call path for one generation. Providers with
// no SSE support are served through sendAsStream.
func streamChain(provider ai.Provider, middlewares []MiddlewareConfig) StreamFunc {
	var chain StreamFunc
	if streamer, ok := provider.(ai.StreamProvider); ok {
		chain = streamer.StreamMessage
	} else {
		chain = sendAsStream(provider)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i].Stream != nil {
			chain = middlewares[i].Stream(chain)
		}
	}
	return chain
}

// sendAsStream presents a whole completion as a stream of one delta, so
// stream middlewares and the fold in consume see the same shape either way.
// A nil response counts as an empty completion.
func sendAsStream(provider ai.Provider) StreamFunc {
	return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
		response, err := provider.SendMessage(ctx, request)
		if err != nil {
			return nil, err
		}
		if response == nil {
			response = &ai.ChatResponse{}
		}
		return ai.NewSingleEventStream(response), nil
	}
}
