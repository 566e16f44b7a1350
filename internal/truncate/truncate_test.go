package truncate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineMultiByteBoundary(t *testing.T) {
	s := strings.Repeat("日", 20) // each rune is 3 bytes
	out := Line(s, 10)
	require.True(t, strings.HasSuffix(out, "..."))
	require.True(t, utf8Valid(out))
}

func utf8Valid(s string) bool {
	for i := 0; i < len(s); {
		r := s[i]
		switch {
		case r < 0x80:
			i++
		case r&0xE0 == 0xC0:
			i += 2
		case r&0xF0 == 0xE0:
			i += 3
		case r&0xF8 == 0xF0:
			i += 4
		default:
			return false
		}
		if i > len(s) {
			return false
		}
	}
	return true
}

func TestLineShortUnchanged(t *testing.T) {
	assert.Equal(t, "hi", Line("hi", 10))
}

func TestLineNeverPanics(t *testing.T) {
	s := strings.Repeat("é", 5)
	for n := 0; n < 12; n++ {
		assert.NotPanics(t, func() { Line(s, n) })
	}
}

func TestOutputExactLimitNoTruncation(t *testing.T) {
	lines := []string{"abc", "def"}
	max := len("abc\n") + len("def\n")
	res := Output(lines, max)
	assert.False(t, res.CharTruncated)
	assert.Equal(t, 2, res.IncludedCount)
}

func TestOutputTruncates(t *testing.T) {
	lines := []string{"abc", "defghijk"}
	res := Output(lines, 4)
	assert.True(t, res.CharTruncated)
	assert.Equal(t, 1, res.IncludedCount)
	assert.Equal(t, 1, res.RemainingCount)
}

func TestProcessLinesOmitsLong(t *testing.T) {
	long := strings.Repeat("x", DefaultMaxLineLen+1)
	out := ProcessLines("short\n"+long, 0)
	assert.Contains(t, out, "[Omitted long line]")
	assert.Contains(t, out, "short")
}

func TestFooterEmptyWhenNoneTruncated(t *testing.T) {
	assert.Equal(t, "", Footer(0, 100))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
