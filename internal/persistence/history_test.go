package persistence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStoreRecordAndRecent(t *testing.T) {
	h, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Record(HistoryEntry{SessionID: "s1", Project: "proj-a", Summary: "fixed the login bug", Timestamp: time.Now().Add(-time.Minute)}))
	require.NoError(t, h.Record(HistoryEntry{SessionID: "s2", Project: "proj-b", Summary: "added search feature", Timestamp: time.Now()}))

	recent := h.Recent("", 10)
	require.Len(t, recent, 2)
	assert.Equal(t, "s2", recent[0].SessionID)

	scoped := h.Recent("proj-a", 10)
	require.Len(t, scoped, 1)
	assert.Equal(t, "s1", scoped[0].SessionID)
}

func TestHistoryStoreSearchWithProjectFilter(t *testing.T) {
	h, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Record(HistoryEntry{SessionID: "s1", Project: "proj-a", Summary: "fixed the login bug", Timestamp: time.Now()}))
	require.NoError(t, h.Record(HistoryEntry{SessionID: "s2", Project: "proj-b", Summary: "added search feature", Timestamp: time.Now()}))

	results, err := h.Search("login", "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "s1", results[0].SessionID)

	scoped, err := h.Search("login", "proj-b")
	require.NoError(t, err)
	require.Len(t, scoped, 0)
}

func TestHistoryStoreClear(t *testing.T) {
	h, err := NewHistoryStore(t.TempDir())
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Record(HistoryEntry{SessionID: "s1", Summary: "fixed the login bug", Timestamp: time.Now()}))
	require.NoError(t, h.Clear())
	assert.Empty(t, h.Recent("", 10))

	results, err := h.Search("login", "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHistoryStoreReloadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	h1, err := NewHistoryStore(dir)
	require.NoError(t, err)
	require.NoError(t, h1.Record(HistoryEntry{SessionID: "s1", Summary: "first run", Timestamp: time.Now()}))
	require.NoError(t, h1.Close())

	h2, err := NewHistoryStore(dir)
	require.NoError(t, err)
	defer h2.Close()
	assert.Len(t, h2.Recent("", 10), 1)
}
