package llm

import (
	"errors"
	"testing"
)

func TestNewProviderErrorClassifiesRetryableStatus(t *testing.T) {
	cases := []struct {
		status    int
		retryable bool
	}{
		{429, true},
		{503, true},
		{529, true},
		{400, false},
		{401, false},
		{404, false},
	}
	for _, c := range cases {
		err := NewProviderError("anthropic", c.status, "boom")
		if err.IsRetryable() != c.retryable {
			t.Errorf("status %d: got retryable=%v, want %v", c.status, err.IsRetryable(), c.retryable)
		}
	}
}

func TestProviderErrorUnwrap(t *testing.T) {
	cause := errors.New("network reset")
	err := &ProviderError{Provider: "openai", Message: "failed", Cause: cause}
	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to find the wrapped cause")
	}
}

func TestClassifyErrorFallsBackToMessageHeuristics(t *testing.T) {
	if !ClassifyError(errors.New("rate limit exceeded, try again later")) {
		t.Error("expected rate-limit phrasing to classify as retryable")
	}
	if ClassifyError(errors.New("invalid api key")) {
		t.Error("expected auth failure phrasing to classify as non-retryable")
	}
	if ClassifyError(nil) {
		t.Error("expected nil error to classify as non-retryable")
	}
}

func TestClassifyErrorUnwrapsProviderError(t *testing.T) {
	err := NewProviderError("google", 503, "overloaded")
	if !ClassifyError(err) {
		t.Error("expected a 503 ProviderError to classify as retryable")
	}
}
