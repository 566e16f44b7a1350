package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelet/internal/compactor"
	"codelet/internal/llm"
	"codelet/internal/session"
	"codelet/internal/tools"
)

type scriptedProvider struct {
	calls int
	steps []func(ctx context.Context, h llm.StreamHandler) error
}

func (p *scriptedProvider) Chat(ctx context.Context, msgs []llm.Message, ts []llm.ToolSchema, model string) (llm.Message, error) {
	return llm.Message{Role: "assistant", Content: "summary"}, nil
}

func (p *scriptedProvider) ChatStream(ctx context.Context, msgs []llm.Message, ts []llm.ToolSchema, model string, h llm.StreamHandler) error {
	step := p.steps[p.calls]
	p.calls++
	return step(ctx, h)
}

func textStep(text string) func(context.Context, llm.StreamHandler) error {
	return func(ctx context.Context, h llm.StreamHandler) error {
		h.OnDelta(text)
		return nil
	}
}

func toolCallStep(id, name string, args json.RawMessage) func(context.Context, llm.StreamHandler) error {
	return func(ctx context.Context, h llm.StreamHandler) error {
		h.OnToolCall(llm.ToolCall{ID: id, Name: name, Args: args})
		return nil
	}
}

func cacheUsageStep(text string, u llm.CacheUsage) func(context.Context, llm.StreamHandler) error {
	return func(ctx context.Context, h llm.StreamHandler) error {
		h.OnDelta(text)
		llm.ReportCacheUsage(ctx, u)
		return nil
	}
}

func newTestSession() *session.BackgroundSession {
	sess := session.NewBackgroundSession(session.Manifest{ID: "sess-1"})
	sess.Start()
	return sess
}

func drainText(sess *session.BackgroundSession) string {
	var out string
	for _, c := range sess.DrainChunks() {
		if c.Kind == session.ChunkText {
			out += c.Text
		}
	}
	return out
}

func TestRunNoToolCallsFlushesTextAndDone(t *testing.T) {
	provider := &scriptedProvider{steps: []func(context.Context, llm.StreamHandler) error{
		textStep("hello there"),
	}}
	sess := newTestSession()
	history := []llm.Message{}
	deps := Deps{
		Provider:      provider,
		Model:         "test-model",
		ContextWindow: 200_000,
		Tools:         tools.NewRegistry(),
		Compactor:     compactor.New(provider, "test-model"),
		Workdir:       t.TempDir(),
	}

	err := Run(context.Background(), sess, &history, "hi", true, deps)
	require.NoError(t, err)

	assert.Equal(t, "hello there", drainText(sess))
	require.Len(t, history, 2)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "hello there", history[1].Content)
}

type echoTool struct{}

func (echoTool) Name() string { return "echo" }
func (echoTool) JSONSchema() map[string]any {
	return map[string]any{
		"description": "echoes input",
		"parameters":  map[string]any{"type": "object"},
	}
}
func (echoTool) Call(ctx context.Context, raw json.RawMessage) (any, error) {
	return map[string]any{"ok": true, "echo": string(raw)}, nil
}

func TestRunDispatchesToolCallThenFinishes(t *testing.T) {
	provider := &scriptedProvider{steps: []func(context.Context, llm.StreamHandler) error{
		toolCallStep("call-1", "echo", json.RawMessage(`{"x":1}`)),
		textStep("done"),
	}}
	registry := tools.NewRegistry()
	registry.Register(echoTool{})

	sess := newTestSession()
	history := []llm.Message{}
	deps := Deps{
		Provider:      provider,
		Model:         "test-model",
		ContextWindow: 200_000,
		Tools:         registry,
		Compactor:     compactor.New(provider, "test-model"),
		Workdir:       t.TempDir(),
	}

	err := Run(context.Background(), sess, &history, "run echo", true, deps)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)

	var sawToolResult bool
	for _, m := range history {
		if m.ToolID == "call-1" {
			sawToolResult = true
			assert.Contains(t, m.Content, `"ok":true`)
		}
	}
	assert.True(t, sawToolResult)
}

type slowEchoTool struct{ name string }

func (t slowEchoTool) Name() string { return t.name }
func (t slowEchoTool) JSONSchema() map[string]any {
	return map[string]any{"description": "echoes input", "parameters": map[string]any{"type": "object"}}
}
func (t slowEchoTool) Call(ctx context.Context, raw json.RawMessage) (any, error) {
	return map[string]any{"ok": true, "tool": t.name}, nil
}

func multiToolCallStep(calls ...llm.ToolCall) func(context.Context, llm.StreamHandler) error {
	return func(ctx context.Context, h llm.StreamHandler) error {
		for _, tc := range calls {
			h.OnToolCall(tc)
		}
		return nil
	}
}

func TestRunDispatchesMultipleToolCallsInOrder(t *testing.T) {
	provider := &scriptedProvider{steps: []func(context.Context, llm.StreamHandler) error{
		multiToolCallStep(
			llm.ToolCall{ID: "c1", Name: "a", Args: json.RawMessage(`{}`)},
			llm.ToolCall{ID: "c2", Name: "b", Args: json.RawMessage(`{}`)},
			llm.ToolCall{ID: "c3", Name: "c", Args: json.RawMessage(`{}`)},
		),
		textStep("done"),
	}}
	registry := tools.NewRegistry()
	registry.Register(slowEchoTool{name: "a"})
	registry.Register(slowEchoTool{name: "b"})
	registry.Register(slowEchoTool{name: "c"})

	sess := newTestSession()
	history := []llm.Message{}
	deps := Deps{
		Provider:      provider,
		Model:         "test-model",
		ContextWindow: 200_000,
		Tools:         registry,
		Compactor:     compactor.New(provider, "test-model"),
		Workdir:       t.TempDir(),
	}

	err := Run(context.Background(), sess, &history, "run three", true, deps)
	require.NoError(t, err)

	var toolIDs []string
	for _, m := range history {
		if m.ToolID != "" {
			toolIDs = append(toolIDs, m.ToolID)
		}
	}
	assert.Equal(t, []string{"c1", "c2", "c3"}, toolIDs)
}

func TestRunRetriesTransientProviderErrorBeforeAnyOutput(t *testing.T) {
	failures := 0
	provider := &scriptedProvider{steps: []func(context.Context, llm.StreamHandler) error{
		func(ctx context.Context, h llm.StreamHandler) error {
			failures++
			return llm.NewProviderError("anthropic", 529, "overloaded")
		},
		textStep("recovered"),
	}}
	sess := newTestSession()
	history := []llm.Message{}
	deps := Deps{
		Provider:      provider,
		Model:         "test-model",
		ContextWindow: 200_000,
		Tools:         tools.NewRegistry(),
		Compactor:     compactor.New(provider, "test-model"),
		Workdir:       t.TempDir(),
	}

	err := Run(context.Background(), sess, &history, "hi", true, deps)
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
	assert.Equal(t, "recovered", drainText(sess))
}

func TestRunStopsAtMaxDepth(t *testing.T) {
	steps := make([]func(context.Context, llm.StreamHandler) error, 0, 5)
	for i := 0; i < 5; i++ {
		steps = append(steps, toolCallStep("c", "echo", json.RawMessage(`{}`)))
	}
	provider := &scriptedProvider{steps: steps}
	registry := tools.NewRegistry()
	registry.Register(echoTool{})

	sess := newTestSession()
	history := []llm.Message{}
	deps := Deps{
		Provider:      provider,
		Model:         "test-model",
		ContextWindow: 200_000,
		Tools:         registry,
		Compactor:     compactor.New(provider, "test-model"),
		Workdir:       t.TempDir(),
		MaxDepth:      2,
	}

	err := Run(context.Background(), sess, &history, "loop forever", true, deps)
	require.Error(t, err)
}

func TestRunInterruptedStopsLoop(t *testing.T) {
	provider := &scriptedProvider{steps: []func(context.Context, llm.StreamHandler) error{
		func(ctx context.Context, h llm.StreamHandler) error {
			return nil
		},
	}}
	sess := newTestSession()
	sess.Interrupt()
	history := []llm.Message{}
	deps := Deps{
		Provider:      provider,
		Model:         "test-model",
		ContextWindow: 200_000,
		Tools:         tools.NewRegistry(),
		Compactor:     compactor.New(provider, "test-model"),
		Workdir:       t.TempDir(),
	}

	err := Run(context.Background(), sess, &history, "hi", true, deps)
	require.NoError(t, err)

	var sawStatus bool
	for _, c := range sess.DrainChunks() {
		if c.Kind == session.ChunkStatus {
			sawStatus = true
		}
	}
	assert.True(t, sawStatus)
}

func TestRunFeedsCacheUsageIntoSessionTokens(t *testing.T) {
	provider := &scriptedProvider{steps: []func(context.Context, llm.StreamHandler) error{
		cacheUsageStep("hi", llm.CacheUsage{
			InputTokens:          100,
			OutputTokens:         20,
			CacheReadInputTokens: 50,
			CacheReadSet:         true,
		}),
	}}
	sess := newTestSession()
	history := []llm.Message{}
	deps := Deps{
		Provider:      provider,
		Model:         "test-model",
		ContextWindow: 200_000,
		Tools:         tools.NewRegistry(),
		Compactor:     compactor.New(provider, "test-model"),
		Workdir:       t.TempDir(),
	}

	err := Run(context.Background(), sess, &history, "hi", true, deps)
	require.NoError(t, err)

	in, out := sess.Tokens()
	assert.Equal(t, uint32(150), in)
	assert.Equal(t, uint32(20), out)
}
