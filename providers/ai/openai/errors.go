package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/cricket-aus/sukode-try/core/parse"
	"github.com/cricket-aus/sukode-try/internal/utils"
	"github.com/cricket-aus/sukode-try/providers/ai"
)

// classify maps HTTP helper failures onto the ai taxonomy, filling in the
// provider's own diagnostic text when the body carries one.
func (provider *Provider) classify(err error) error {
	name := provider.config.DisplayName

	var statusErr *utils.StatusError
	if errors.As(err, &statusErr) {
		diagnostic := parse.ErrorMessage(statusErr.Body)
		message := diagnostic.Message
		if message == "" {
			message = http.StatusText(statusErr.StatusCode)
		}
		return &ai.TransportError{
			Provider:   name,
			StatusCode: statusErr.StatusCode,
			Message:    message,
			Err:        err,
		}
	}

	var decodeErr *utils.DecodeError
	if errors.As(err, &decodeErr) {
		diagnostic := parse.ErrorMessage(decodeErr.Body)
		message := diagnostic.Message
		if message == "" {
			message = "response body could not be decoded"
		}
		return &ai.ProviderError{
			Provider:   name,
			StatusCode: decodeErr.StatusCode,
			Code:       diagnostic.Code,
			Message:    message,
			Err:        err,
		}
	}

	var readErr *utils.ReadError
	if errors.As(err, &readErr) {
		return provider.interrupted(readErr.StatusCode, err)
	}

	classified := ai.Classify(err)
	var transportErr *ai.TransportError
	if errors.As(classified, &transportErr) && transportErr.Provider == "" {
		transportErr.Provider = name
	}
	return classified
}

// interrupted reports a connection lost while the body was being read.
// Cancellation keeps its own classification.
func (provider *Provider) interrupted(statusCode int, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		classified := ai.Classify(err)
		var transportErr *ai.TransportError
		if errors.As(classified, &transportErr) {
			transportErr.Provider = provider.config.DisplayName
		}
		return classified
	}
	return &ai.TransportError{
		Provider:   provider.config.DisplayName,
		StatusCode: statusCode,
		Message:    "connection lost while reading the response",
		Err:        err,
	}
}
