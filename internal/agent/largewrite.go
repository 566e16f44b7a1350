package agent

import (
	"regexp"
	"strings"
)

// largeWriteKeywords are whole-word signals that the user is asking for a
// sweeping, large-surface-area change.
var largeWriteKeywords = []string{"complete", "comprehensive", "entire", "full", "all"}

var largeWriteKeywordPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(largeWriteKeywords, "|") + `)\b`)

// largeWriteLineCountPattern matches phrases like "500 lines" or "300+ lines".
var largeWriteLineCountPattern = regexp.MustCompile(`(?i)\b\d{3,}\+?\s*lines?\b`)

// largeWriteScopePattern matches phrases naming a broad multi-file scope.
var largeWriteScopePattern = regexp.MustCompile(`(?i)\b(all files|multiple files|system)\b`)

// largeWriteReminder is appended to the prompt when DetectLargeWriteIntent
// matches, nudging the model to avoid a single oversized write.
const largeWriteReminder = "<system-reminder>\n" +
	"This request may involve writing a large amount of code. Chunk file writes " +
	"into 100-200 line units across multiple tool calls rather than one very " +
	"large write.\n</system-reminder>"

// DetectLargeWriteIntent reports whether userInput signals a sweeping,
// many-line or many-file change.
func DetectLargeWriteIntent(userInput string) bool {
	return largeWriteKeywordPattern.MatchString(userInput) ||
		largeWriteLineCountPattern.MatchString(userInput) ||
		largeWriteScopePattern.MatchString(userInput)
}

// LargeWriteReminder returns the reminder block to append when
// DetectLargeWriteIntent(userInput) is true, or "" otherwise.
func LargeWriteReminder(userInput string) string {
	if !DetectLargeWriteIntent(userInput) {
		return ""
	}
	return largeWriteReminder
}
