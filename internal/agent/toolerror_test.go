package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeniedToolErrorIsNeverRetryable(t *testing.T) {
	err := NewDeniedToolError("bash")
	assert.False(t, err.IsRetryable())
	assert.Contains(t, err.Error(), "denied by user")
	assert.Equal(t, map[string]any{"ok": false, "error": err.Error()}, err.payload())
}

func TestNewDispatchToolErrorClassifiesTransientCauses(t *testing.T) {
	transient := NewDispatchToolError("grep", errors.New("connection reset by peer"))
	assert.True(t, transient.IsRetryable())

	logic := NewDispatchToolError("file", errors.New("old_text not found"))
	assert.False(t, logic.IsRetryable())
}

func TestDispatchToolErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := NewDispatchToolError("file", cause)
	assert.ErrorIs(t, err, cause)
}
