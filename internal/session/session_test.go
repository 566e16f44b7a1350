package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelet/internal/pause"
)

func TestStatusTransitions(t *testing.T) {
	s := NewBackgroundSession(Manifest{ID: "a"})
	assert.Equal(t, StatusIdle, s.Status())
	s.Start()
	assert.Equal(t, StatusRunning, s.Status())
	s.Interrupt()
	assert.Equal(t, StatusInterrupted, s.Status())
}

func TestPauseResumeProtocol(t *testing.T) {
	s := NewBackgroundSession(Manifest{ID: "a"})
	s.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	var got pause.Response
	go func() {
		defer wg.Done()
		got = s.handlePause(pause.Request{Kind: pause.KindConfirm, ToolName: "bash", Message: "run?"})
	}()

	// Give the handler goroutine a chance to register Paused status.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && s.Status() != StatusPaused {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, StatusPaused, s.Status())
	require.NotNil(t, s.PauseStateSnapshot())

	s.Resume(pause.ResponseApproved)
	wg.Wait()

	assert.Equal(t, pause.ResponseApproved, got)
	assert.Equal(t, StatusRunning, s.Status())
	assert.Nil(t, s.PauseStateSnapshot())
}

func TestGetTokensReturnsLastWritten(t *testing.T) {
	mgr := NewManager()
	s := mgr.Create("test", "/tmp/proj", "anthropic")
	s.SetTokens(100, 50)
	in, out, ok := mgr.GetTokens(s.ID)
	require.True(t, ok)
	assert.EqualValues(t, 100, in)
	assert.EqualValues(t, 50, out)

	require.NoError(t, mgr.RestoreTokenState(s.ID, 200, 80, 10, 5, 200, 80))
	in, out, _ = mgr.GetTokens(s.ID)
	assert.EqualValues(t, 200, in)
	assert.EqualValues(t, 80, out)
}

func TestOutputBufferCoalescesTextNeverDropsTool(t *testing.T) {
	buf := newOutputBuffer(4)
	buf.Push(TextChunk("a"))
	buf.Push(TextChunk("b"))
	buf.Push(ToolCallChunk("1", "bash", nil))
	buf.Push(ToolResultChunk("1", "ok", false))
	buf.Push(TextChunk("c")) // forces coalesce since over capacity

	items := buf.Drain()
	toolCount := 0
	for _, it := range items {
		if it.Kind == ChunkToolCall || it.Kind == ChunkToolResult {
			toolCount++
		}
	}
	assert.Equal(t, 2, toolCount)
	assert.LessOrEqual(t, len(items), 5)
}

func TestNavigationThroughParentWithWatchers(t *testing.T) {
	mgr := NewManager()
	a := mgr.Create("A", "/p", "anthropic")
	w1, err := mgr.CreateWatcher(a.ID, "W1", "/p", "anthropic")
	require.NoError(t, err)
	w2, err := mgr.CreateWatcher(a.ID, "W2", "/p", "anthropic")
	require.NoError(t, err)
	b := mgr.Create("B", "/p", "anthropic")

	next := mgr.NextTarget(nil)
	require.Equal(t, TargetSession, next.Kind)
	assert.Equal(t, a.ID, next.SessionID)

	next = mgr.NextTarget(&a.ID)
	assert.Equal(t, w1.ID, next.SessionID)

	next = mgr.NextTarget(&w1.ID)
	assert.Equal(t, w2.ID, next.SessionID)

	next = mgr.NextTarget(&w2.ID)
	assert.Equal(t, b.ID, next.SessionID)

	next = mgr.NextTarget(&b.ID)
	assert.Equal(t, TargetCreateDialog, next.Kind)

	prev := mgr.PrevTarget(&b.ID)
	assert.Equal(t, w2.ID, prev.SessionID)
	prev = mgr.PrevTarget(&w2.ID)
	assert.Equal(t, w1.ID, prev.SessionID)
	prev = mgr.PrevTarget(&w1.ID)
	assert.Equal(t, a.ID, prev.SessionID)
	prev = mgr.PrevTarget(&a.ID)
	assert.Equal(t, TargetBoard, prev.Kind)
}
