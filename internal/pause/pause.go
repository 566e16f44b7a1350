// Package pause implements the cross-thread pause/resume protocol: a
// tool deep in the call stack blocks on a per-task handler until the UI
// supplies a response.
package pause

import (
	"context"
)

// Kind distinguishes a plain continuation pause from one requiring approval.
type Kind string

const (
	KindContinue Kind = "Continue"
	KindConfirm  Kind = "Confirm"
)

// Request is what a tool passes to PauseForUser.
type Request struct {
	Kind     Kind
	ToolName string
	Message  string
	Details  map[string]any
}

// Response is what the handler eventually returns.
type Response string

const (
	ResponseResumed     Response = "Resumed"
	ResponseApproved    Response = "Approved"
	ResponseDenied      Response = "Denied"
	ResponseInterrupted Response = "Interrupted"
)

// Handler is registered per-task (per agent turn) before a tool executes and
// cleared after it returns.
type Handler func(ctx context.Context, req Request) Response

type handlerKey struct{}

// WithHandler returns a context carrying the given handler, scoped to the
// call tree beneath it — the Go analogue of a thread-local, since handlers
// are per-task (per goroutine-rooted context), not process-wide.
func WithHandler(ctx context.Context, h Handler) context.Context {
	return context.WithValue(ctx, handlerKey{}, h)
}

// ClearHandler returns a context with no registered handler, used once a
// tool call completes so the handler doesn't leak to unrelated tool calls.
func ClearHandler(ctx context.Context) context.Context {
	return context.WithValue(ctx, handlerKey{}, Handler(nil))
}

func handlerFrom(ctx context.Context) Handler {
	h, _ := ctx.Value(handlerKey{}).(Handler)
	return h
}

// ForUser invokes the registered handler, if any. With no handler registered
// (headless/tests), it returns Resumed immediately — a no-op that performs
// no state changes.
func ForUser(ctx context.Context, req Request) Response {
	h := handlerFrom(ctx)
	if h == nil {
		return ResponseResumed
	}
	return h(ctx, req)
}
