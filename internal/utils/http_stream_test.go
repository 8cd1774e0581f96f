package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---- SSEScanner tests -------------------------------------------------------

func collectPayloads(t *testing.T, scanner *SSEScanner) []string {
	t.Helper()
	var payloads []string
	for {
		payload, err := scanner.Next()
		if err == io.EOF {
			return payloads
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		payloads = append(payloads, payload)
	}
}

func TestSSEScanner_Events(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single event", "data: hello\n\n", []string{"hello"}},
		{"ordered events", "data: first\n\ndata: second\n\ndata: third\n\n", []string{"first", "second", "third"}},
		{"multi-line data", "data: line1\ndata: line2\n\n", []string{"line1\nline2"}},
		{"comments skipped", ": keep-alive\ndata: real\n\n", []string{"real"}},
		{"other fields ignored", "event: message\nid: 1\ndata: x\n\n", []string{"x"}},
		{"trailing data without blank line", "data: tail", []string{"tail"}},
		{"consecutive blank lines", "\n\n\ndata: a\n\n\n\ndata: b\n\n", []string{"a", "b"}},
		{"empty stream", "", nil},
		{"done stops reading", "data: a\n\ndata: [DONE]\n\ndata: ignored\n\n", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectPayloads(t, NewSSEScanner(strings.NewReader(tt.input)))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d payloads %q, got %d %q", len(tt.want), tt.want, len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("payload %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestSSEScanner_SawDone(t *testing.T) {
	withDone := NewSSEScanner(strings.NewReader("data: a\n\ndata: [DONE]\n\n"))
	collectPayloads(t, withDone)
	if !withDone.SawDone() {
		t.Error("expected SawDone after [DONE] sentinel")
	}

	dropped := NewSSEScanner(strings.NewReader("data: a\n\n"))
	collectPayloads(t, dropped)
	if dropped.SawDone() {
		t.Error("expected SawDone false when connection simply closed")
	}
}

type errReader struct{ data string }

func (r *errReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, errors.New("connection reset")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestSSEScanner_ReaderError_ReturnsWrappedError(t *testing.T) {
	scanner := NewSSEScanner(&errReader{data: "data: a\n\n"})

	if payload, err := scanner.Next(); err != nil || payload != "a" {
		t.Fatalf("expected first payload, got %q, %v", payload, err)
	}
	_, err := scanner.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("expected read error, got %v", err)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("expected underlying cause in message, got %v", err)
	}
}

// ---- DoPostStream tests -----------------------------------------------------

func TestDoPostStream_SuccessResponse_ReturnsOpenBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("expected SSE accept header, got %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: one\n\ndata: [DONE]\n\n")
	}))
	defer server.Close()

	response, err := DoPostStream(context.Background(), server.Client(), server.URL, map[string]bool{"stream": true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer CloseWithLog(response.Body)

	got := collectPayloads(t, NewSSEScanner(response.Body))
	if len(got) != 1 || got[0] != "one" {
		t.Errorf("expected [one], got %q", got)
	}
}

func TestDoPostStream_NonTwoxxResponse_ReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"slow down"}}`)
	}))
	defer server.Close()

	_, err := DoPostStream(context.Background(), server.Client(), server.URL, nil)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T (%v)", err, err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", statusErr.StatusCode)
	}
}

func TestDoPostStream_ContextCancellation_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DoPostStream(ctx, server.Client(), server.URL, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDoPostStream_CustomHeader_OverridesDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("expected x-api-key header, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/x-ndjson" {
			t.Errorf("expected overridden accept, got %q", got)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	response, err := DoPostStream(context.Background(), server.Client(), server.URL, nil,
		HeaderOption{Key: "x-api-key", Value: "secret"},
		HeaderOption{Key: "Accept", Value: "application/x-ndjson"},
	)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	CloseWithLog(response.Body)
}
