package agent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleAllowsFirstCall(t *testing.T) {
	th := newThrottle(100 * time.Millisecond)
	assert.True(t, th.allow(time.Now()))
}

func TestThrottleSuppressesRapidCalls(t *testing.T) {
	th := newThrottle(100 * time.Millisecond)
	now := time.Now()
	assert.True(t, th.allow(now))
	assert.False(t, th.allow(now.Add(10*time.Millisecond)))
}

func TestThrottleAllowsAfterInterval(t *testing.T) {
	th := newThrottle(100 * time.Millisecond)
	now := time.Now()
	assert.True(t, th.allow(now))
	assert.True(t, th.allow(now.Add(150*time.Millisecond)))
}
