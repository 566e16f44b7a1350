package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentReminderIncludesWorkdir(t *testing.T) {
	r := EnvironmentReminder("/tmp/project")
	assert.Contains(t, r, "/tmp/project")
	assert.Contains(t, r, "<system-reminder>")
}

func TestDiscoverProjectMemoryFindsClaudeMD(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("Use tabs not spaces."), 0o644))

	r := DiscoverProjectMemory(dir)
	assert.Contains(t, r, "CLAUDE.md")
	assert.Contains(t, r, "Use tabs not spaces.")
}

func TestDiscoverProjectMemoryFallsBackToAgentsMD(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AGENTS.md"), []byte("Run tests before committing."), 0o644))

	r := DiscoverProjectMemory(dir)
	assert.Contains(t, r, "AGENTS.md")
}

func TestDiscoverProjectMemoryEmptyWhenAbsent(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", DiscoverProjectMemory(dir))
}

func TestInitialRemindersIncludesBothWhenPresent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "CLAUDE.md"), []byte("notes"), 0o644))

	reminders := InitialReminders(dir)
	require.Len(t, reminders, 2)
}
