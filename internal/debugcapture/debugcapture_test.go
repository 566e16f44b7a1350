package debugcapture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureNoopWhenDisabled(t *testing.T) {
	m := New(t.TempDir())
	assert.False(t, m.IsEnabled())
	m.Capture(EventUserInput, map[string]any{"text": "hi"}, "")
	assert.Empty(t, m.events)
}

func TestStartCreatesDirAndFile(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	path, err := m.Start()
	require.NoError(t, err)
	require.FileExists(t, path)

	info, err := os.Stat(filepath.Join(dir, "debug"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCaptureRedactsHeaders(t *testing.T) {
	m := New(t.TempDir())
	_, err := m.Start()
	require.NoError(t, err)

	m.Capture(EventAPIRequest, map[string]any{
		"headers": map[string]any{"Authorization": "Bearer secret", "Content-Type": "application/json"},
	}, "req-1")

	require.Len(t, m.events, 1)
	assert.Contains(t, string(m.events[0].Data), "[REDACTED]")
	assert.NotContains(t, string(m.events[0].Data), "secret")
	assert.Contains(t, string(m.events[0].Data), "application/json")
}

func TestStopWritesSummary(t *testing.T) {
	dir := t.TempDir()
	m := New(dir)
	_, err := m.Start()
	require.NoError(t, err)
	m.Capture(EventSessionStart, map[string]any{}, "")

	sessFile, err := m.Stop()
	require.NoError(t, err)
	require.FileExists(t, sessFile)

	summaryPath := sessFile[:len(sessFile)-len(".jsonl")] + ".summary.md"
	require.FileExists(t, summaryPath)
	assert.False(t, m.IsEnabled())
}
