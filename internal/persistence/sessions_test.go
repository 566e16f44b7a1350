package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelet/internal/session"
)

func TestSessionStoreSaveLoad(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	m := session.Manifest{ID: "abc", Name: "test", Project: "/p", Provider: "anthropic", CreatedAt: time.Now(), UpdatedAt: time.Now()}

	require.NoError(t, store.Save(m))
	got, err := store.Load("abc")
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
	assert.Equal(t, m.Name, got.Name)
}

func TestSessionStoreListOrdersByUpdatedAt(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	older := session.Manifest{ID: "old", CreatedAt: time.Now(), UpdatedAt: time.Now().Add(-time.Hour)}
	newer := session.Manifest{ID: "new", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestSessionStoreDeleteMissingIsNotError(t *testing.T) {
	store := NewSessionStore(t.TempDir())
	assert.NoError(t, store.Delete("nope"))
}
