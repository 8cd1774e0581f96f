package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cricket-aus/sukode-try/internal/utils"
	"github.com/cricket-aus/sukode-try/providers/ai"
	"github.com/cricket-aus/sukode-try/providers/observability"
)

// errStreamClosedEarly is the cause reported when the body ends with neither
// a finish reason nor the [DONE] sentinel.
var errStreamClosedEarly = errors.New("stream closed before completion")

// StreamMessage implements ai.StreamProvider. It posts with stream=true and
// returns a ChatStream that yields content deltas as SSE events arrive.
// Failures before the first byte are returned directly; later failures are
// yielded, already classified, as the last element of the stream.
func (provider *Provider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	if provider.apiKey == "" {
		return nil, &ai.AuthenticationError{Provider: provider.config.DisplayName}
	}

	provider.annotate(ctx, request, true)

	chatRequest := requestToChatCompletion(request, provider.config.MaxTokens)
	streamEnabled := true
	chatRequest.Stream = &streamEnabled
	if capabilities, _ := detectCapabilities(provider.config.BaseURL); capabilities.SupportsStreamUsage {
		chatRequest.StreamOptions = &streamOptions{IncludeUsage: true}
	}

	// Body is left open for SSE reading
	streamURL := provider.config.BaseURL + chatCompletionsEndpoint
	httpResponse, err := utils.DoPostStream(ctx, provider.client, streamURL, chatRequest,
		provider.config.authHeader(provider.apiKey))
	if err != nil {
		if observer := observability.ObserverFromContext(ctx); observer != nil {
			observer.Debug(ctx, "Streaming request failed",
				observability.String(observability.AttrLLMProvider, provider.config.Name),
				observability.Error(err),
			)
		}
		return nil, provider.classify(err)
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		chunks := 0
		finished := false
		defer func() {
			if span := observability.SpanFromContext(ctx); span != nil {
				span.SetAttributes(observability.Int(observability.AttrLLMStreamChunks, chunks))
			}
		}()

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, provider.classify(ctx.Err()))
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				if !finished && !sseScanner.SawDone() {
					yield(ai.StreamEvent{}, &ai.TransportError{
						Provider: provider.config.DisplayName,
						Message:  errStreamClosedEarly.Error(),
						Err:      errStreamClosedEarly,
					})
				}
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, provider.interrupted(httpResponse.StatusCode, fmt.Errorf("SSE read error: %w", sseErr)))
				return
			}

			chunk, parseErr := unmarshalStreamChunk(payload)
			if parseErr != nil {
				yield(ai.StreamEvent{}, &ai.ProviderError{
					Provider:   provider.config.DisplayName,
					StatusCode: http.StatusOK,
					Message:    "malformed stream chunk: " + utils.TruncateString(payload, 120),
					Err:        parseErr,
				})
				return
			}
			if chunk.Error != nil {
				yield(ai.StreamEvent{}, &ai.ProviderError{
					Provider:   provider.config.DisplayName,
					StatusCode: http.StatusOK,
					Code:       chunk.Error.code(),
					Message:    chunk.Error.Message,
				})
				return
			}
			chunks++

			for _, event := range chunkToStreamEvents(chunk) {
				if event.Type == ai.StreamEventDone {
					finished = true
				}
				if !yield(event, nil) {
					return
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// chunkToStreamEvents converts one SSE chunk into zero or more StreamEvents.
// Only the first choice is read.
func chunkToStreamEvents(chunk *chatCompletionStreamChunk) []ai.StreamEvent {
	var events []ai.StreamEvent

	// Usage chunk typically has empty choices
	if chunk.Usage != nil {
		events = append(events, ai.StreamEvent{
			Type:  ai.StreamEventUsage,
			Usage: usageToGeneric(chunk.Usage),
			ID:    chunk.ID,
			Model: chunk.Model,
		})
	}

	if len(chunk.Choices) == 0 {
		return events
	}
	choice := chunk.Choices[0]

	if choice.Delta.Content != nil && *choice.Delta.Content != "" {
		events = append(events, ai.StreamEvent{
			Type:    ai.StreamEventContent,
			Content: *choice.Delta.Content,
			ID:      chunk.ID,
			Model:   chunk.Model,
		})
	}

	if choice.FinishReason != nil && *choice.FinishReason != "" {
		events = append(events, ai.StreamEvent{
			Type:         ai.StreamEventDone,
			FinishReason: *choice.FinishReason,
		})
	}

	return events
}
