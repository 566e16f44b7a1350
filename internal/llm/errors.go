package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ProviderError wraps a provider API failure with enough context for a
// caller to decide whether retrying the same request is worthwhile.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Retryable  bool
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s provider: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// IsRetryable reports whether the same request is worth sending again,
// typically after a backoff. Rate limiting and transient server errors are
// retryable; bad requests and auth failures are not.
func (e *ProviderError) IsRetryable() bool { return e.Retryable }

// NewProviderError builds a ProviderError from an HTTP-style status code,
// classifying retryability from the status alone.
func NewProviderError(provider string, statusCode int, message string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Retryable:  RetryableStatus(statusCode),
	}
}

// RetryableStatus reports whether an HTTP status code from a provider
// indicates a transient condition worth retrying: rate limiting, overload,
// or a server-side hiccup.
func RetryableStatus(code int) bool {
	switch code {
	case 408, 409, 429, 500, 502, 503, 504, 529:
		return true
	default:
		return false
	}
}

// ClassifyError reports whether retrying the request that produced err is
// likely to help. A *ProviderError carries its own classification; any
// other error (including the SDK-internal error types the Anthropic and
// Google provider clients don't currently unwrap) falls back to a
// conservative substring check against common transient phrasing.
func ClassifyError(err error) bool {
	if err == nil {
		return false
	}
	var perr *ProviderError
	if errors.As(err, &perr) {
		return perr.Retryable
	}

	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"rate limit", "overloaded", "too many requests", "timeout", "temporarily unavailable", "503", "529"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}
