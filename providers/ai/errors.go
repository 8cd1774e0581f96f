package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
)

// ErrorKind names one class of the failure taxonomy surfaced to callers.
type ErrorKind string

const (
	KindAuthentication ErrorKind = "authentication"
	KindTransport      ErrorKind = "transport"
	KindProvider       ErrorKind = "provider"
	KindUnknown        ErrorKind = "unknown"
)

const genericFailureMessage = "An unexpected error occurred while processing your request"

// AuthenticationError reports that no credential was available when a
// provider client had to be built. It is returned before any network call.
type AuthenticationError struct {
	Provider string // display name, e.g. "Cerebras"
}

func (e *AuthenticationError) Error() string {
	if e.Provider == "" {
		return "API key not set. Please set your API key first."
	}
	return fmt.Sprintf("API key not set. Please set your %s API key first.", e.Provider)
}

// TransportError reports a failure reaching the provider: connection
// errors, cancellations, or a non-2xx HTTP status.
type TransportError struct {
	Provider   string
	StatusCode int    // 0 when no response was received
	Message    string // provider diagnostic text when available
	Err        error
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request to provider failed"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", apiPrefix(e.Provider), e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", apiPrefix(e.Provider), msg)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProviderError reports a well-formed HTTP exchange in which the provider
// signalled an application-level failure: an error object in the body or a
// payload that could not be decoded.
type ProviderError struct {
	Provider   string
	StatusCode int
	Code       string // provider error code or type, if any
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider returned an unusable response"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s [%s]: %s", apiPrefix(e.Provider), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", apiPrefix(e.Provider), msg)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UnknownError wraps any failure not covered by the other kinds. Message
// always carries the original error text for display.
type UnknownError struct {
	Message string
	Err     error
}

func (e *UnknownError) Error() string {
	if e.Message == "" {
		return genericFailureMessage
	}
	return e.Message
}

func (e *UnknownError) Unwrap() error { return e.Err }

func apiPrefix(provider string) string {
	if provider == "" {
		return "API error"
	}
	return provider + " API error"
}

// Classify maps err onto the taxonomy. Errors that already belong to it are
// returned unchanged; context, network and truncated-read failures become
// TransportError;
// everything else becomes UnknownError. Classify(nil) is nil.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var authErr *AuthenticationError
	var transportErr *TransportError
	var providerErr *ProviderError
	var unknownErr *UnknownError
	switch {
	case errors.As(err, &authErr):
		return authErr
	case errors.As(err, &transportErr):
		return transportErr
	case errors.As(err, &providerErr):
		return providerErr
	case errors.As(err, &unknownErr):
		return unknownErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &TransportError{Message: "request canceled", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &TransportError{Message: "request timed out", Err: err}
	case errors.Is(err, io.ErrUnexpectedEOF):
		return &TransportError{Message: "connection closed before the response was complete", Err: err}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return &TransportError{Message: err.Error(), Err: err}
	}

	return &UnknownError{Message: err.Error(), Err: err}
}

// KindOf reports the taxonomy kind of err, classifying it first.
// It returns "" for a nil error.
func KindOf(err error) ErrorKind {
	switch Classify(err).(type) {
	case nil:
		return ""
	case *AuthenticationError:
		return KindAuthentication
	case *TransportError:
		return KindTransport
	case *ProviderError:
		return KindProvider
	default:
		return KindUnknown
	}
}
