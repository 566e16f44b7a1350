package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"codelet/internal/llm"
	"codelet/internal/session"
	"codelet/internal/tokentracker"
)

func TestStreamCollectorBuffersTextAndToolCalls(t *testing.T) {
	sess := newTestSession()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := newStreamCollector(sess, cancel, tokentracker.NewOutputTracker(0))

	c.OnDelta("hello ")
	c.OnDelta("world")
	c.OnToolCall(llm.ToolCall{ID: "t1", Name: "echo"})
	c.OnThoughtSignature("sig-abc")

	assert.Equal(t, "hello world", c.text.String())
	assert.Len(t, c.toolCalls, 1)
	assert.Equal(t, "sig-abc", c.thoughtSig)
}

func TestStreamCollectorStopsAfterInterrupt(t *testing.T) {
	sess := newTestSession()
	ctx, cancel := context.WithCancel(context.Background())
	c := newStreamCollector(sess, cancel, tokentracker.NewOutputTracker(0))

	sess.Interrupt()
	c.OnDelta("should not be recorded")

	assert.Equal(t, "", c.text.String())
	assert.Equal(t, context.Canceled, ctx.Err())
}

func TestStreamCollectorPushesToolCallChunk(t *testing.T) {
	sess := newTestSession()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := newStreamCollector(sess, cancel, tokentracker.NewOutputTracker(0))

	c.OnToolCall(llm.ToolCall{ID: "t1", Name: "grep", Args: []byte(`{"pattern":"x"}`)})

	var sawToolCall bool
	for _, chunk := range sess.DrainChunks() {
		if chunk.Kind == session.ChunkToolCall {
			sawToolCall = true
			assert.Equal(t, "t1", chunk.ToolUseID)
			assert.Equal(t, "grep", chunk.ToolName)
		}
	}
	assert.True(t, sawToolCall)
}
