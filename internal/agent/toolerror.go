package agent

import (
	"fmt"
	"strings"
)

// ToolError classifies a tool dispatch outcome the agent loop needs to act
// on beyond simply reporting it back to the model: a user denial ends the
// call immediately, while a transient dispatch failure is worth one retry
// before the model sees it.
type ToolError struct {
	ToolName  string
	Reason    string
	Retryable bool
	Cause     error
}

func (e *ToolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tool %s: %s: %v", e.ToolName, e.Reason, e.Cause)
	}
	return fmt.Sprintf("tool %s: %s", e.ToolName, e.Reason)
}

func (e *ToolError) Unwrap() error { return e.Cause }

func (e *ToolError) IsRetryable() bool { return e.Retryable }

// NewDeniedToolError reports a user-denied tool call. Denials are never
// retried; the model needs to propose something else.
func NewDeniedToolError(toolName string) *ToolError {
	return &ToolError{ToolName: toolName, Reason: "denied by user"}
}

// NewDispatchToolError wraps a dispatch failure, classifying it retryable
// when the underlying cause looks transient (contention on a file, a
// timed-out I/O operation) rather than a logic error the model needs to
// adjust its arguments for.
func NewDispatchToolError(toolName string, cause error) *ToolError {
	return &ToolError{ToolName: toolName, Reason: "dispatch failed", Cause: cause, Retryable: isTransientToolError(cause)}
}

func isTransientToolError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range []string{"resource temporarily unavailable", "timeout", "timed out", "connection reset", "try again"} {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return false
}

// payload renders the error as the {"ok":false,...} shape the model sees
// in tool results, matching the JSON emitted for non-error tool calls.
func (e *ToolError) payload() map[string]any {
	return map[string]any{"ok": false, "error": e.Error()}
}
