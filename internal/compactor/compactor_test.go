package compactor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelet/internal/llm"
)

type stubProvider struct {
	content string
	err     error
}

func (s *stubProvider) Chat(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string) (llm.Message, error) {
	if s.err != nil {
		return llm.Message{}, s.err
	}
	return llm.Message{Role: "assistant", Content: s.content}, nil
}

func (s *stubProvider) ChatStream(ctx context.Context, msgs []llm.Message, tools []llm.ToolSchema, model string, h llm.StreamHandler) error {
	return nil
}

func TestDetectAnchorsErrorResolution(t *testing.T) {
	turns := []ConversationTurn{
		{PreviousError: true, AssistantResponse: "I fixed the bug, tests pass now."},
	}
	anchors := DetectAnchors(turns)
	require.Len(t, anchors, 1)
	assert.Equal(t, AnchorErrorResolution, anchors[0].AnchorType)
}

func TestDetectAnchorsTaskCompletion(t *testing.T) {
	turns := []ConversationTurn{
		{AssistantResponse: "Done, implemented the feature.", ToolCalls: []ToolCall{{Name: "write"}}},
	}
	anchors := DetectAnchors(turns)
	require.Len(t, anchors, 1)
	assert.Equal(t, AnchorTaskCompletion, anchors[0].AnchorType)
}

func TestSelectKeepsRecentAndAnchors(t *testing.T) {
	turns := make([]ConversationTurn, 10)
	anchors := []AnchorPoint{{TurnIndex: 0}}
	sel := Select(turns, anchors, 3)
	assert.Contains(t, sel.KeptIndices, 0)
	assert.Contains(t, sel.KeptIndices, 7)
	assert.Contains(t, sel.KeptIndices, 9)
	assert.NotContains(t, sel.SummarizedIndices, 0)
}

func TestCompactEmptyHistoryIsNoop(t *testing.T) {
	c := New(&stubProvider{}, "test-model")
	msgs, res, err := c.Compact(context.Background(), nil, 200_000)
	require.NoError(t, err)
	assert.True(t, res.Noop)
	assert.Nil(t, msgs)
}

func TestCompactSplicesSummary(t *testing.T) {
	var msgs []llm.Message
	for i := 0; i < 8; i++ {
		msgs = append(msgs, llm.Message{Role: "user", Content: "do thing"})
		msgs = append(msgs, llm.Message{Role: "assistant", Content: "done"})
	}
	c := New(&stubProvider{content: "summary of older turns"}, "test-model")
	c.KeepRecent = 2
	out, res, err := c.Compact(context.Background(), msgs, 200_000)
	require.NoError(t, err)
	require.False(t, res.Noop)
	require.NotEmpty(t, out)
	assert.Contains(t, out[0].Content, "summary of older turns")
	assert.Equal(t, 2, res.TurnsKept)
}

func TestIsCompactionTriggerError(t *testing.T) {
	assert.True(t, IsCompactionTriggerError(errString("Prompt is too long for context")))
	assert.True(t, IsCompactionTriggerError(errString("invalid_request_error: maximum token count exceeded")))
	assert.False(t, IsCompactionTriggerError(errString("network timeout")))
}

type errString string

func (e errString) Error() string { return string(e) }
