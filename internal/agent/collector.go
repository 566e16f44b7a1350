package agent

import (
	"context"
	"strings"
	"time"

	"codelet/internal/llm"
	"codelet/internal/session"
	"codelet/internal/tokentracker"
)

// streamCollector implements llm.StreamHandler for a single provider call: it
// forwards text/thinking deltas to the session as chunks, buffers tool calls
// for the agent loop to dispatch once the stream ends, and throttles the
// token-rate display.
type streamCollector struct {
	sess   *session.BackgroundSession
	cancel context.CancelFunc
	out    *tokentracker.OutputTracker

	text       strings.Builder
	toolCalls  []llm.ToolCall
	images     []llm.GeneratedImage
	thoughtSig string

	disp *throttle
}

func newStreamCollector(sess *session.BackgroundSession, cancel context.CancelFunc, out *tokentracker.OutputTracker) *streamCollector {
	return &streamCollector{
		sess:   sess,
		cancel: cancel,
		out:    out,
		disp:   newThrottle(DisplayThrottleInterval),
	}
}

// interrupted checks the session status and, if interrupted, cancels the
// in-flight provider call so ChatStream returns promptly.
func (c *streamCollector) interrupted() bool {
	if c.sess.Status() == session.StatusInterrupted {
		if c.cancel != nil {
			c.cancel()
		}
		return true
	}
	return false
}

func (c *streamCollector) OnDelta(content string) {
	if c.interrupted() {
		return
	}
	c.text.WriteString(content)
	c.sess.PushChunk(session.TextChunk(content))
	c.out.RecordChunk(content)
	c.maybePushRate()
}

func (c *streamCollector) OnToolCall(tc llm.ToolCall) {
	if c.interrupted() {
		return
	}
	c.toolCalls = append(c.toolCalls, tc)
	c.sess.PushChunk(session.ToolCallChunk(tc.ID, tc.Name, tc.Args))
}

func (c *streamCollector) OnImage(img llm.GeneratedImage) {
	if c.interrupted() {
		return
	}
	c.images = append(c.images, img)
}

func (c *streamCollector) OnThoughtSummary(summary string) {
	if c.interrupted() {
		return
	}
	c.sess.PushChunk(session.ThinkingChunk(summary))
}

// OnThoughtSignature stores the provider's opaque thinking signature so the
// next flushed assistant message can echo it back on the following turn.
func (c *streamCollector) OnThoughtSignature(sig string) {
	c.thoughtSig = sig
}

func (c *streamCollector) maybePushRate() {
	if !c.disp.allow(time.Now()) {
		return
	}
	in, _ := c.sess.Tokens()
	c.sess.PushChunk(session.TokenUpdateChunk(int(in), int(c.out.DisplayTokens()), 0, 0))
}
