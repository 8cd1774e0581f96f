package ai

import (
	"context"
)

// Provider is the interface every chat-completion backend satisfies.
// Implementations are bound to one credential and one base URL; rebinding
// to a new key means building a new Provider.
type Provider interface {
	// Name identifies the backend (e.g. "openai", "cerebras").
	Name() string

	// SendMessage sends a chat request and waits for the complete response.
	// Failures are returned already classified (see Classify).
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}

// StreamProvider is implemented by providers that can deliver a response as
// server-sent deltas. Callers detect support via type assertion and fall
// back to SendMessage otherwise.
type StreamProvider interface {
	Provider
	// StreamMessage sends a chat request and returns a ChatStream yielding
	// deltas in arrival order. Pre-stream errors (bad status, network) are
	// returned directly; mid-stream errors are yielded through the iterator.
	StreamMessage(ctx context.Context, request ChatRequest) (*ChatStream, error)
}
