// Package agent implements the streaming multi-turn tool-calling loop that
// drives a BackgroundSession: it turns one user message into zero or more
// provider round-trips, dispatching tool calls in between and folding
// compaction in when the projected prompt would overrun the context window.
package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// EnvironmentReminder renders the one-shot environment-info block injected
// before the first provider call of a session. It is appended, never
// replacing prior reminders, so the prompt-cache prefix stays stable across
// turns.
func EnvironmentReminder(workdir string) string {
	var b strings.Builder
	b.WriteString("<system-reminder>\n")
	fmt.Fprintf(&b, "Working directory: %s\n", workdir)
	fmt.Fprintf(&b, "Platform: %s\n", runtime.GOOS)
	fmt.Fprintf(&b, "Today's date: %s\n", time.Now().Format("2006-01-02"))
	b.WriteString("</system-reminder>")
	return b.String()
}

// projectMemoryNames are the conventional file names checked for project
// instructions, in priority order. The first one found is used.
var projectMemoryNames = []string{"CLAUDE.md", "AGENTS.md"}

// DiscoverProjectMemory looks for a conventional instructions file at the
// root of workdir and returns its reminder block, or "" if none exists.
func DiscoverProjectMemory(workdir string) string {
	for _, name := range projectMemoryNames {
		path := filepath.Join(workdir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		return fmt.Sprintf("<system-reminder>\nProject instructions from %s:\n%s\n</system-reminder>", name, content)
	}
	return ""
}

// InitialReminders builds the append-only reminder blocks injected on the
// first user turn of a session: environment info, then project memory if
// present. Callers append the result to history once; it is never reissued
// on later turns.
func InitialReminders(workdir string) []string {
	reminders := []string{EnvironmentReminder(workdir)}
	if mem := DiscoverProjectMemory(workdir); mem != "" {
		reminders = append(reminders, mem)
	}
	return reminders
}
