package pause

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForUserNoHandlerReturnsResumed(t *testing.T) {
	resp := ForUser(context.Background(), Request{Kind: KindContinue, ToolName: "bash"})
	assert.Equal(t, ResponseResumed, resp)
}

func TestForUserRegisteredHandlerInvoked(t *testing.T) {
	var got Request
	ctx := WithHandler(context.Background(), func(ctx context.Context, req Request) Response {
		got = req
		return ResponseApproved
	})
	resp := ForUser(ctx, Request{Kind: KindConfirm, ToolName: "bash", Message: "run rm -rf?"})
	assert.Equal(t, ResponseApproved, resp)
	assert.Equal(t, "bash", got.ToolName)
}

func TestClearHandlerRemovesIt(t *testing.T) {
	ctx := WithHandler(context.Background(), func(ctx context.Context, req Request) Response {
		return ResponseApproved
	})
	ctx = ClearHandler(ctx)
	resp := ForUser(ctx, Request{Kind: KindContinue})
	assert.Equal(t, ResponseResumed, resp)
}
