package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cricket-aus/sukode-try/providers/observability"
)

// HeaderOption is a single request header applied after the defaults, so it
// can override Content-Type or Accept when a provider needs to.
type HeaderOption struct {
	Key   string
	Value string
}

// BearerAuth returns the Authorization header used by OpenAI-compatible APIs.
func BearerAuth(apiKey string) HeaderOption {
	return HeaderOption{Key: "Authorization", Value: "Bearer " + apiKey}
}

// StatusError is returned when the server answered with a non-2xx status.
// Body holds at most maxResponseBodySize bytes of the response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, TruncateStringDefault(string(e.Body)))
}

// DecodeError is returned when a 2xx body could not be decoded into the
// expected structure.
type DecodeError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error unmarshaling response body (status %d): %v\nResponse preview: %s",
		e.StatusCode, e.Err, TruncateString(string(e.Body), 500))
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ReadError is returned when the connection failed while the response body
// was being read, after the status line had arrived.
type ReadError struct {
	StatusCode int
	Err        error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("error reading response body (status %d): %v", e.StatusCode, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// DoPostSync performs a synchronous HTTP POST request with JSON body and parses the response.
// It handles observability tracing, request headers, and proper resource cleanup.
//
// Error Handling Strategy:
//   - Context errors (timeout, cancellation) and connection failures are wrapped and returned
//   - Non-2xx status codes return a *StatusError carrying the response body
//   - Undecodable 2xx bodies return a *DecodeError
//   - A body cut off mid-read returns a *ReadError
//   - Response body close errors are logged but don't override primary errors
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, body any, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for _, header := range headers {
		req.Header.Set(header.Key, header.Value)
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, &ReadError{StatusCode: res.StatusCode, Err: err}
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &StatusError{StatusCode: res.StatusCode, Status: res.Status, Body: respBody}
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, &DecodeError{StatusCode: res.StatusCode, Body: respBody, Err: err}
	}

	return res, &resStruct, nil
}

// CloseWithLog closes body and logs, rather than returns, any close error.
// It is meant for defer statements where the primary error takes precedence.
func CloseWithLog(body io.Closer) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
