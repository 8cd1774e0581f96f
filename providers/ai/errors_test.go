package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	auth := &AuthenticationError{Provider: "Cerebras"}
	transport := &TransportError{Provider: "OpenAI", StatusCode: 401, Message: "Incorrect API key provided"}
	provider := &ProviderError{Provider: "OpenAI", Code: "invalid_request_error", Message: "bad model"}

	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"nil", nil, ""},
		{"authentication passes through", auth, KindAuthentication},
		{"wrapped authentication", fmt.Errorf("generate: %w", auth), KindAuthentication},
		{"transport passes through", transport, KindTransport},
		{"provider passes through", provider, KindProvider},
		{"canceled context", context.Canceled, KindTransport},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), KindTransport},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("refused")}, KindTransport},
		{"body cut off", fmt.Errorf("SSE read error: %w", io.ErrUnexpectedEOF), KindTransport},
		{"plain error", errors.New("weird"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.kind)
			}
		})
	}
}

func TestClassify_UnknownKeepsOriginalMessage(t *testing.T) {
	original := errors.New("something odd happened")
	classified := Classify(original)

	var unknown *UnknownError
	if !errors.As(classified, &unknown) {
		t.Fatalf("expected *UnknownError, got %T", classified)
	}
	if unknown.Error() != "something odd happened" {
		t.Errorf("expected original message, got %q", unknown.Error())
	}
	if !errors.Is(classified, original) {
		t.Error("expected UnknownError to unwrap to the original")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&AuthenticationError{Provider: "Cerebras"}, "API key not set. Please set your Cerebras API key first."},
		{&AuthenticationError{}, "API key not set. Please set your API key first."},
		{&TransportError{Provider: "OpenAI", StatusCode: 401, Message: "Incorrect API key"}, "OpenAI API error (status 401): Incorrect API key"},
		{&TransportError{Provider: "OpenAI"}, "OpenAI API error: request to provider failed"},
		{&ProviderError{Provider: "Cerebras", Code: "bad_request", Message: "no such model"}, "Cerebras API error [bad_request]: no such model"},
		{&ProviderError{}, "API error: provider returned an unusable response"},
		{&UnknownError{}, genericFailureMessage},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &TransportError{Message: "unreachable", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("expected TransportError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "unreachable") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
