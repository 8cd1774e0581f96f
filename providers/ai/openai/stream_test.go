package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cricket-aus/sukode-try/providers/ai"
)

func sseServer(t *testing.T, lines ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if body.Stream == nil || !*body.Stream {
			t.Error("expected stream=true in request")
		}
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("expected Accept text/event-stream, got %q", r.Header.Get("Accept"))
		}

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, line := range lines {
			_, _ = fmt.Fprintf(w, "%s\n\n", line)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
}

func contentChunk(id, content string) string {
	encoded, _ := json.Marshal(content)
	return fmt.Sprintf(`data: {"id":%q,"object":"chat.completion.chunk","model":"llama3.1-8b","choices":[{"index":0,"delta":{"content":%s},"finish_reason":null}]}`, id, encoded)
}

func TestStreamMessage_CollectsDeltasInOrder(t *testing.T) {
	server := sseServer(t,
		`data: {"id":"c1","choices":[{"index":0,"delta":{"role":"assistant"},"finish_reason":null}]}`,
		contentChunk("c1", "```js\n"),
		contentChunk("c1", "const a = 1;"),
		contentChunk("c1", "\n```"),
		`data: {"id":"c1","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		`data: [DONE]`,
	)
	defer server.Close()

	stream, err := New(Cerebras, "k", WithBaseURL(server.URL)).StreamMessage(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected stream error %v", err)
	}
	if response.Content != "```js\nconst a = 1;\n```" {
		t.Errorf("unexpected content %q", response.Content)
	}
	if response.FinishReason != "stop" {
		t.Errorf("expected finish reason stop, got %q", response.FinishReason)
	}
	if response.Id != "c1" {
		t.Errorf("expected id c1, got %q", response.Id)
	}
}

func TestStreamMessage_UsageChunk(t *testing.T) {
	server := sseServer(t,
		contentChunk("c2", "ok"),
		`data: {"id":"c2","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		`data: {"id":"c2","choices":[],"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`,
		`data: [DONE]`,
	)
	defer server.Close()

	stream, err := New(Cerebras, "k", WithBaseURL(server.URL)).StreamMessage(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected stream error %v", err)
	}
	if response.Usage == nil || response.Usage.TotalTokens != 4 {
		t.Errorf("expected usage total 4, got %+v", response.Usage)
	}
}

func TestStreamMessage_EarlyCloseKeepsPartialAndReportsTransport(t *testing.T) {
	server := sseServer(t,
		contentChunk("c3", "```go\nfunc add("),
		contentChunk("c3", "a, b int"),
	)
	defer server.Close()

	stream, err := New(Cerebras, "k", WithBaseURL(server.URL)).StreamMessage(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	response, err := stream.Collect()
	var transportErr *ai.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if !errors.Is(err, errStreamClosedEarly) {
		t.Errorf("expected early-close cause, got %v", err)
	}
	if response.Content != "```go\nfunc add(a, b int" {
		t.Errorf("expected partial content, got %q", response.Content)
	}
}

// droppingServer answers with a chunked 200, writes body as a single chunk,
// then closes the connection without the terminating zero-length chunk.
func droppingServer(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		hijacker, ok := w.(http.Hijacker)
		if !ok {
			t.Error("response writer cannot be hijacked")
			return
		}
		conn, buf, err := hijacker.Hijack()
		if err != nil {
			t.Errorf("hijack failed: %v", err)
			return
		}
		defer conn.Close()

		_, _ = fmt.Fprintf(buf, "HTTP/1.1 200 OK\r\nContent-Type: %s\r\nTransfer-Encoding: chunked\r\n\r\n", contentType)
		_, _ = fmt.Fprintf(buf, "%x\r\n%s\r\n", len(body), body)
		_ = buf.Flush()
	}))
}

func TestStreamMessage_ConnectionDropKeepsPartialAndReportsTransport(t *testing.T) {
	server := droppingServer(t, "text/event-stream", contentChunk("c5", "```go\nfunc a(")+"\n\n")
	defer server.Close()

	stream, err := New(Cerebras, "k", WithBaseURL(server.URL)).StreamMessage(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	response, err := stream.Collect()
	if kind := ai.KindOf(err); kind != ai.KindTransport {
		t.Fatalf("kind = %q, want transport (err %T: %v)", kind, err, err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected unexpected EOF cause, got %v", err)
	}
	var transportErr *ai.TransportError
	if errors.As(err, &transportErr) && transportErr.Provider != "Cerebras" {
		t.Errorf("expected provider name to be filled in, got %q", transportErr.Provider)
	}
	if response.Content != "```go\nfunc a(" {
		t.Errorf("expected partial content, got %q", response.Content)
	}
}

func TestStreamMessage_FinishWithoutDoneIsComplete(t *testing.T) {
	server := sseServer(t,
		contentChunk("c4", "x := 1"),
		`data: {"id":"c4","choices":[{"index":0,"delta":{},"finish_reason":"length"}]}`,
	)
	defer server.Close()

	stream, _ := New(Cerebras, "k", WithBaseURL(server.URL)).StreamMessage(context.Background(), testRequest())
	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if response.FinishReason != "length" {
		t.Errorf("expected finish reason length, got %q", response.FinishReason)
	}
}

func TestStreamMessage_MalformedChunkIsProviderError(t *testing.T) {
	server := sseServer(t,
		contentChunk("c5", "partial"),
		`data: {not json`,
	)
	defer server.Close()

	stream, _ := New(Cerebras, "k", WithBaseURL(server.URL)).StreamMessage(context.Background(), testRequest())
	response, err := stream.Collect()

	var providerErr *ai.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if response.Content != "partial" {
		t.Errorf("expected partial content, got %q", response.Content)
	}
}

func TestStreamMessage_ErrorChunkIsProviderError(t *testing.T) {
	server := sseServer(t,
		`data: {"error":{"message":"context length exceeded","type":"invalid_request_error"}}`,
	)
	defer server.Close()

	stream, _ := New(Cerebras, "k", WithBaseURL(server.URL)).StreamMessage(context.Background(), testRequest())
	_, err := stream.Collect()

	var providerErr *ai.ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("expected ProviderError, got %T: %v", err, err)
	}
	if providerErr.Message != "context length exceeded" {
		t.Errorf("unexpected message %q", providerErr.Message)
	}
}

func TestStreamMessage_StatusErrorBeforeStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Wrong API Key","type":"invalid_request_error","code":"wrong_api_key"}`))
	}))
	defer server.Close()

	stream, err := New(Cerebras, "bad", WithBaseURL(server.URL)).StreamMessage(context.Background(), testRequest())
	if stream != nil {
		t.Error("expected nil stream")
	}

	var transportErr *ai.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %T: %v", err, err)
	}
	if transportErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", transportErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "Wrong API Key") {
		t.Errorf("expected provider diagnostic in message, got %q", err.Error())
	}
}

func TestStreamMessage_EmptyKey(t *testing.T) {
	_, err := New(Cerebras, "").StreamMessage(context.Background(), testRequest())
	if ai.KindOf(err) != ai.KindAuthentication {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

func TestStreamMessage_CanceledContext(t *testing.T) {
	server := sseServer(t, contentChunk("c6", "a"), `data: [DONE]`)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := New(Cerebras, "k", WithBaseURL(server.URL)).StreamMessage(ctx, testRequest())
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	cancel()

	_, err = stream.Collect()
	if ai.KindOf(err) != ai.KindTransport {
		t.Fatalf("expected transport error after cancel, got %v", err)
	}
}

func TestChunkToStreamEvents(t *testing.T) {
	content := "hi"
	stop := "stop"
	chunk := &chatCompletionStreamChunk{
		ID:      "x",
		Choices: []streamChoice{{Delta: streamDelta{Content: &content}, FinishReason: &stop}},
		Usage:   &chatUsage{TotalTokens: 2},
	}

	events := chunkToStreamEvents(chunk)
	want := []ai.StreamEventType{ai.StreamEventUsage, ai.StreamEventContent, ai.StreamEventDone}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, event := range events {
		if event.Type != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], event.Type)
		}
	}
}

func TestStreamOptions_OnlyForHostsSupportingUsage(t *testing.T) {
	if capabilities, known := detectCapabilities("https://api.cerebras.ai/v1"); !known || capabilities.SupportsStreamUsage {
		t.Errorf("expected cerebras without stream usage, got %+v (known=%v)", capabilities, known)
	}
	if capabilities, known := detectCapabilities("https://api.openai.com/v1"); !known || !capabilities.SupportsStreamUsage {
		t.Errorf("expected openai with stream usage, got %+v (known=%v)", capabilities, known)
	}
}
