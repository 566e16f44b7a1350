// Package truncate implements bounded-line and bounded-char output
// truncation with UTF-8-safe boundaries, matching the limits every tool's
// captured output is subjected to before it reaches the model.
package truncate

import (
	"fmt"
	"strings"
)

// Default limits, tool-agnostic.
const (
	DefaultMaxChars   = 30_000
	DefaultMaxLineLen = 2 * 1024
)

// Line truncates s to at most max bytes, cutting on the nearest UTF-8 char
// boundary at or before max-3, and appends "...". It never panics on
// multi-byte sequences and never returns a string longer than max(max, 3).
func Line(s string, max int) string {
	if max < 3 {
		max = 3
	}
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !isUTF8Boundary(s, cut) {
		cut--
	}
	return s[:cut] + "..."
}

func isUTF8Boundary(s string, i int) bool {
	if i <= 0 || i >= len(s) {
		return true
	}
	// A byte is a continuation byte of a multi-byte rune iff its top two
	// bits are 10. Boundaries never fall inside such a byte.
	return s[i]&0xC0 != 0x80
}

// Result is the outcome of a bounded-char accumulation over a line list.
type Result struct {
	Output         string
	CharTruncated  bool
	RemainingCount int
	IncludedCount  int
}

// Output greedily accumulates "line\n" for each line in lines until the next
// line would overflow maxChars, then stops.
func Output(lines []string, maxChars int) Result {
	var b strings.Builder
	included := 0
	for i, ln := range lines {
		candidate := ln + "\n"
		if b.Len()+len(candidate) > maxChars {
			return Result{
				Output:         b.String(),
				CharTruncated:  true,
				RemainingCount: len(lines) - i,
				IncludedCount:  included,
			}
		}
		b.WriteString(candidate)
		included++
	}
	return Result{Output: b.String(), CharTruncated: false, RemainingCount: 0, IncludedCount: included}
}

// ProcessLines replaces any line whose byte length exceeds maxLineLen with a
// placeholder, leaving shorter lines untouched.
func ProcessLines(s string, maxLineLen int) string {
	if maxLineLen <= 0 {
		maxLineLen = DefaultMaxLineLen
	}
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if len(ln) > maxLineLen {
			lines[i] = "[Omitted long line]"
		}
	}
	return strings.Join(lines, "\n")
}

// Footer renders the warning appended to list-like tool output whenever
// truncation occurred; returns "" when nothing was truncated.
func Footer(remaining, maxChars int) string {
	if remaining <= 0 {
		return ""
	}
	return fmt.Sprintf("... [%d items truncated - output truncated at %d chars] ...", remaining, maxChars)
}
