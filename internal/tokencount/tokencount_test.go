package tokencount

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelet/internal/llm"
)

func TestCountBasic(t *testing.T) {
	n := Count("Hello, world!")
	require.Greater(t, n, 0)
	require.Less(t, n, 10)
}

func TestCountEmpty(t *testing.T) {
	assert.Equal(t, 0, Count(""))
}

func TestByteFallbackCeil(t *testing.T) {
	assert.Equal(t, 1, byteFallback("ab"))
	assert.Equal(t, 2, byteFallback("abcde"))
	assert.Equal(t, 0, byteFallback(""))
}

func TestCountMessagesToolCallOverhead(t *testing.T) {
	msgs := []llm.Message{
		{
			Role: "assistant",
			ToolCalls: []llm.ToolCall{
				{Name: "read_file", Args: []byte(`{"path":"a.go"}`)},
			},
		},
	}
	got := CountMessages(msgs)
	want := Count("read_file") + Count(`{"path":"a.go"}`) + toolCallOverhead
	assert.Equal(t, want, got)
}

func TestMaxFileTokensDefault(t *testing.T) {
	t.Setenv("CODELET_MAX_FILE_TOKENS", "")
	assert.Equal(t, DefaultMaxFileTokens, MaxFileTokens())
}

func TestMaxFileTokensCustom(t *testing.T) {
	t.Setenv("CODELET_MAX_FILE_TOKENS", "50000")
	assert.Equal(t, 50000, MaxFileTokens())
}

func TestCheckTokenLimitOver(t *testing.T) {
	t.Setenv("CODELET_MAX_FILE_TOKENS", "1")
	_, limit, exceeded := CheckTokenLimit("Hello, world! This is a longer text that will exceed 1 token.")
	require.True(t, exceeded)
	assert.Equal(t, 1, limit)
}

func TestCheckTokenLimitUnder(t *testing.T) {
	t.Setenv("CODELET_MAX_FILE_TOKENS", "")
	_, _, exceeded := CheckTokenLimit("Hello, world!")
	assert.False(t, exceeded)
}
