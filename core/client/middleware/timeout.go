package middleware

import (
	"context"
	"time"

	"github.com/cricket-aus/sukode-try/core/client"
	"github.com/cricket-aus/sukode-try/providers/ai"
)

// NewTimeout returns a MiddlewareConfig that bounds each provider call by
// timeout. The client sets no deadline of its own; this is opt-in.
//
// For streaming calls the deadline covers the whole stream, not only the
// time to first byte: cancel runs once the iterator finishes, fails, or is
// abandoned. A shorter deadline already on the caller's context still wins.
func NewTimeout(timeout time.Duration) client.MiddlewareConfig {
	return client.MiddlewareConfig{
		Send:   sendTimeout(timeout),
		Stream: streamTimeout(timeout),
	}
}

func sendTimeout(timeout time.Duration) client.Middleware {
	return func(next client.SendFunc) client.SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			return next(ctx, request)
		}
	}
}

func streamTimeout(timeout time.Duration) client.StreamMiddleware {
	return func(next client.StreamFunc) client.StreamFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)

			stream, err := next(ctx, request)
			if err != nil {
				cancel()
				return nil, err
			}

			return cancelOnFinish(stream, cancel), nil
		}
	}
}

// cancelOnFinish returns a stream that calls cancel once the wrapped stream
// is drained, fails, or the caller stops ranging.
func cancelOnFinish(stream *ai.ChatStream, cancel context.CancelFunc) *ai.ChatStream {
	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		defer cancel()

		for event, err := range stream.Iter() {
			if !yield(event, err) || err != nil {
				return
			}
		}
	})
}
