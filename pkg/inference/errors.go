package inference

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoAPIKey     = errors.New("inference: API key required")
	ErrNoModel      = errors.New("inference: model required")
	ErrNoMessages   = errors.New("inference: request has no messages")
	ErrStreamClosed = errors.New("inference: stream closed")
)

// APIError is a non-2xx response from the chat completions endpoint.
type APIError struct {
	StatusCode int
	Message    string
	Code       string // Provider error code, often empty for Perplexity
	Provider   string
}

func (e *APIError) Error() string {
	status := fmt.Sprintf("HTTP %d", e.StatusCode)
	if e.Code != "" {
		status += " " + e.Code
	}
	msg := fmt.Sprintf("inference [%s]: %s: %s", e.Provider, status, e.Message)
	if hint := e.Hint(); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

// IsUnauthorized reports a rejected or missing credential.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited reports HTTP 429.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError reports a 5xx response.
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// Hint suggests what the user can do about the failure.
func (e *APIError) Hint() string {
	switch {
	case e.IsUnauthorized():
		return "check PPLX_API_KEY"
	case e.IsRateLimited():
		return "rate limited, wait a moment and try again"
	case e.IsServerError():
		return "the chat service is having trouble, try again"
	}
	return ""
}

// IsAPIError returns the APIError in err's chain, if any.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// WrapError prefixes err with the provider name, keeping it unwrappable.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("inference [%s]: %w", provider, err)
}
