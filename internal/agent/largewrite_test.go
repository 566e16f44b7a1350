package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLargeWriteIntentKeyword(t *testing.T) {
	assert.True(t, DetectLargeWriteIntent("write a comprehensive test suite"))
	assert.True(t, DetectLargeWriteIntent("implement the entire module"))
}

func TestDetectLargeWriteIntentLineCount(t *testing.T) {
	assert.True(t, DetectLargeWriteIntent("generate 500 lines of boilerplate"))
	assert.True(t, DetectLargeWriteIntent("about 1200+ lines please"))
}

func TestDetectLargeWriteIntentScope(t *testing.T) {
	assert.True(t, DetectLargeWriteIntent("update all files in the repo"))
	assert.True(t, DetectLargeWriteIntent("refactor the system"))
}

func TestDetectLargeWriteIntentFalseForSmallAsk(t *testing.T) {
	assert.False(t, DetectLargeWriteIntent("fix the off-by-one in parse.go"))
}

func TestLargeWriteReminderEmptyWhenNotDetected(t *testing.T) {
	assert.Equal(t, "", LargeWriteReminder("fix a typo"))
}

func TestLargeWriteReminderNonEmptyWhenDetected(t *testing.T) {
	assert.NotEqual(t, "", LargeWriteReminder("write a complete implementation"))
}
