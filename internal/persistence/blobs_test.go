package persistence

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobReferenceRoundTrip(t *testing.T) {
	hash := strings.Repeat("a", 64)
	ref := MakeBlobReference(hash)
	assert.True(t, IsBlobReference(ref))
	got, ok := ExtractBlobHash(ref)
	require.True(t, ok)
	assert.Equal(t, hash, got)
}

func TestExtractBlobHashRejectsNonReferences(t *testing.T) {
	for _, s := range []string{"", "hello", "blob:sha256:short", "blob:sha256:" + strings.Repeat("g", 64)} {
		_, ok := ExtractBlobHash(s)
		assert.False(t, ok, "unexpected match for %q", s)
	}
}

func TestBlobStoreRoundTrip(t *testing.T) {
	store := NewBlobStore(t.TempDir())
	ctx := context.Background()

	hash, err := store.Store(ctx, []byte("hello world"))
	require.NoError(t, err)
	assert.Len(t, hash, 64)
	assert.True(t, store.Exists(hash))

	content, err := store.Get(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))
}

func TestBlobStoreDeduplicates(t *testing.T) {
	store := NewBlobStore(t.TempDir())
	ctx := context.Background()

	h1, err := store.Store(ctx, []byte("same content"))
	require.NoError(t, err)
	h2, err := store.Store(ctx, []byte("same content"))
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestBlobStoreGetUnknownHash(t *testing.T) {
	store := NewBlobStore(t.TempDir())
	_, err := store.Get(context.Background(), strings.Repeat("0", 64))
	assert.Error(t, err)
}
