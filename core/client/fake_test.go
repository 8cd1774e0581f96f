package client

import (
	"context"
	"errors"
	"sync"

	"github.com/cricket-aus/sukode-try/providers/ai"
)

var errBoom = errors.New("boom")

// fakeProvider answers synchronously with reply, or fails with err.
type fakeProvider struct {
	name  string
	key   string
	reply func(request ai.ChatRequest) (*ai.ChatResponse, error)

	mu       sync.Mutex
	requests []ai.ChatRequest
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) SendMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, request)
	p.mu.Unlock()
	return p.reply(request)
}

func (p *fakeProvider) lastRequest() ai.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}

// fakeStreamProvider streams the deltas returned by chunks, then fails with
// the optional trailing error.
type fakeStreamProvider struct {
	fakeProvider
	chunks func(request ai.ChatRequest) ([]string, error)
}

func (p *fakeStreamProvider) StreamMessage(_ context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	p.mu.Lock()
	p.requests = append(p.requests, request)
	p.mu.Unlock()

	deltas, streamErr := p.chunks(request)
	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		for _, delta := range deltas {
			if !yield(ai.StreamEvent{Type: ai.StreamEventContent, Content: delta, Model: request.Model}, nil) {
				return
			}
		}
		if streamErr != nil {
			yield(ai.StreamEvent{}, streamErr)
			return
		}
		yield(ai.StreamEvent{Type: ai.StreamEventDone, FinishReason: "stop"}, nil)
	}), nil
}

// recordingFactory builds providers with build and records every key it was
// asked to bind.
type recordingFactory struct {
	build func(key string) ai.Provider

	mu   sync.Mutex
	keys []string
}

func (f *recordingFactory) factory(key string) (ai.Provider, error) {
	f.mu.Lock()
	f.keys = append(f.keys, key)
	f.mu.Unlock()
	return f.build(key), nil
}

func (f *recordingFactory) boundKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...)
}

func replyWith(content string) func(ai.ChatRequest) (*ai.ChatResponse, error) {
	return func(request ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{Model: request.Model, Content: content, FinishReason: "stop"}, nil
	}
}

func syncFactory(reply func(ai.ChatRequest) (*ai.ChatResponse, error)) *recordingFactory {
	return &recordingFactory{build: func(key string) ai.Provider {
		return &fakeProvider{name: "cerebras", key: key, reply: reply}
	}}
}
