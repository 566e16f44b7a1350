package persistence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelet/internal/llm"
)

func TestMessageLogAppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	blobs := NewBlobStore(dir)
	log := NewMessageLog(dir, blobs)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, "s1", llm.Message{Role: "user", Content: "hi"}))
	require.NoError(t, log.Append(ctx, "s1", llm.Message{Role: "assistant", Content: "hello there"}))

	msgs, err := log.Load(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "hello there", msgs[1].Content)
}

func TestMessageLogLoadMissingSessionIsEmpty(t *testing.T) {
	dir := t.TempDir()
	log := NewMessageLog(dir, NewBlobStore(dir))
	msgs, err := log.Load(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestMessageLogExtractsLargeContentToBlob(t *testing.T) {
	dir := t.TempDir()
	blobs := NewBlobStore(dir)
	log := NewMessageLog(dir, blobs)
	ctx := context.Background()

	big := strings.Repeat("x", BlobThreshold+100)
	require.NoError(t, log.Append(ctx, "s2", llm.Message{Role: "assistant", Content: big}))

	msgs, err := log.Load(ctx, "s2")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, big, msgs[0].Content)
}
