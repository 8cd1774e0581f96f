package ai

import (
	"iter"
	"strings"
)

// StreamEventType identifies the kind of delta carried by a StreamEvent.
type StreamEventType string

const (
	// StreamEventContent indicates a text content delta.
	StreamEventContent StreamEventType = "content"
	// StreamEventUsage carries token usage metadata (typically the final event).
	StreamEventUsage StreamEventType = "usage"
	// StreamEventDone signals that the model reported a finish reason.
	StreamEventDone StreamEventType = "done"
)

// StreamEvent represents a single delta yielded during response streaming.
type StreamEvent struct {
	Type         StreamEventType `json:"type"`
	Content      string          `json:"content,omitempty"`       // Type == StreamEventContent
	Usage        *Usage          `json:"usage,omitempty"`         // Type == StreamEventUsage
	FinishReason string          `json:"finish_reason,omitempty"` // Type == StreamEventDone
	ID           string          `json:"id,omitempty"`
	Model        string          `json:"model,omitempty"`
}

// ChatStream is a lazy, finite, single-pass sequence of stream events.
// It is not restartable: ranging over Iter twice reads from an already
// consumed transport.
//
// Callers must consume the stream, by ranging over Iter (breaking early is
// fine) or by calling Collect, so the provider can release the HTTP body.
type ChatStream struct {
	iterator iter.Seq2[StreamEvent, error]
}

// NewChatStream wraps a raw iterator. A non-nil error yielded by the
// iterator signals a mid-stream failure and should be the last element.
func NewChatStream(iterator iter.Seq2[StreamEvent, error]) *ChatStream {
	return &ChatStream{iterator: iterator}
}

// NewSingleEventStream wraps a complete ChatResponse as a stream, for
// providers that only answer synchronously.
func NewSingleEventStream(response *ChatResponse) *ChatStream {
	return NewChatStream(func(yield func(StreamEvent, error) bool) {
		if response.Content != "" {
			if !yield(StreamEvent{Type: StreamEventContent, Content: response.Content, ID: response.Id, Model: response.Model}, nil) {
				return
			}
		}
		if response.Usage != nil {
			if !yield(StreamEvent{Type: StreamEventUsage, Usage: response.Usage}, nil) {
				return
			}
		}
		yield(StreamEvent{Type: StreamEventDone, FinishReason: response.FinishReason}, nil)
	})
}

// Iter returns the underlying iterator for use with range-over-func loops.
//
//	for event, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(event.Content)
//	}
func (stream *ChatStream) Iter() iter.Seq2[StreamEvent, error] {
	return stream.iterator
}

// Collect folds the stream into one ChatResponse, concatenating content
// deltas in arrival order into a buffer owned by this call.
// A mid-stream error stops the fold; the partial response accumulated so
// far is returned together with the error rather than discarded.
func (stream *ChatStream) Collect() (*ChatResponse, error) {
	accumulated := &ChatResponse{}
	var content strings.Builder

	for event, err := range stream.iterator {
		if err != nil {
			accumulated.Content = content.String()
			return accumulated, err
		}

		if event.ID != "" && accumulated.Id == "" {
			accumulated.Id = event.ID
		}
		if event.Model != "" && accumulated.Model == "" {
			accumulated.Model = event.Model
		}

		switch event.Type {
		case StreamEventContent:
			content.WriteString(event.Content)
		case StreamEventUsage:
			if event.Usage != nil {
				accumulated.Usage = event.Usage
			}
		case StreamEventDone:
			accumulated.FinishReason = event.FinishReason
		}
	}

	accumulated.Content = content.String()
	return accumulated, nil
}
