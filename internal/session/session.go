package session

import (
	"context"
	"sync"
	"sync/atomic"

	"codelet/internal/pause"
)

// PauseState is the snapshot written into a session while it's paused.
type PauseState struct {
	Kind     pause.Kind
	ToolName string
	Message  string
	Details  map[string]any
}

// BackgroundSession is the runtime state for one session; it is owned by the
// Manager and shared (by pointer) with worker goroutines and handler
// closures, using atomics and mutex-protected fields in place of a
// lock-wrapped accessor.
type BackgroundSession struct {
	ID string

	status atomicStatus

	pauseMu    sync.RWMutex
	pauseState *PauseState

	cachedInputTokens  atomic.Uint32
	cachedOutputTokens atomic.Uint32

	output *outputBuffer

	respMu   sync.Mutex
	respCond *sync.Cond
	response *pause.Response

	innerMu  sync.Mutex
	Manifest Manifest
}

// NewBackgroundSession constructs an Idle session with the given manifest.
func NewBackgroundSession(m Manifest) *BackgroundSession {
	s := &BackgroundSession{ID: m.ID, output: newOutputBuffer(0), Manifest: m}
	s.respCond = sync.NewCond(&s.respMu)
	return s
}

// Status returns the current lifecycle state.
func (s *BackgroundSession) Status() Status { return s.status.Load() }

// Start transitions Idle -> Running on first prompt.
func (s *BackgroundSession) Start() { s.status.CompareAndSwap(StatusIdle, StatusRunning) }

// Interrupt transitions Running or Paused -> Interrupted.
func (s *BackgroundSession) Interrupt() {
	for {
		cur := s.status.Load()
		if cur != StatusRunning && cur != StatusPaused {
			return
		}
		if s.status.CompareAndSwap(cur, StatusInterrupted) {
			return
		}
	}
}

// Done transitions Running -> Idle (end of a turn, no error, no interrupt).
func (s *BackgroundSession) Done() { s.status.CompareAndSwap(StatusRunning, StatusIdle) }

// PushChunk appends a chunk to the session's output buffer.
func (s *BackgroundSession) PushChunk(c StreamChunk) { s.output.Push(c) }

// DrainChunks returns and clears all buffered chunks.
func (s *BackgroundSession) DrainChunks() []StreamChunk { return s.output.Drain() }

// Tokens returns the atomic cache field reads used for lock-free UI polling.
func (s *BackgroundSession) Tokens() (input, output uint32) {
	return s.cachedInputTokens.Load(), s.cachedOutputTokens.Load()
}

// SetTokens writes both atomic cache fields.
func (s *BackgroundSession) SetTokens(input, output uint32) {
	s.cachedInputTokens.Store(input)
	s.cachedOutputTokens.Store(output)
}

// PauseStateSnapshot returns a read-only copy of the current pause state, or
// nil if not paused.
func (s *BackgroundSession) PauseStateSnapshot() *PauseState {
	s.pauseMu.RLock()
	defer s.pauseMu.RUnlock()
	if s.pauseState == nil {
		return nil
	}
	cp := *s.pauseState
	return &cp
}

// PauseHandler implements pause.Handler bound to this session: it writes the
// pause state, flips status to Paused, blocks on the condvar until a
// response is posted, then restores Running and clears state.
func (s *BackgroundSession) PauseHandler() pause.Handler {
	return func(ctx context.Context, req pause.Request) pause.Response {
		return s.handlePause(req)
	}
}

func (s *BackgroundSession) handlePause(req pause.Request) pause.Response {
	s.pauseMu.Lock()
	s.pauseState = &PauseState{Kind: req.Kind, ToolName: req.ToolName, Message: req.Message, Details: req.Details}
	s.pauseMu.Unlock()

	s.status.Store(StatusPaused)

	s.respMu.Lock()
	for s.response == nil {
		s.respCond.Wait()
	}
	resp := *s.response
	s.response = nil
	s.respMu.Unlock()

	s.pauseMu.Lock()
	s.pauseState = nil
	s.pauseMu.Unlock()

	s.status.Store(StatusRunning)
	return resp
}

// Resume posts a response and wakes the blocked pause handler.
func (s *BackgroundSession) Resume(resp pause.Response) {
	s.respMu.Lock()
	defer s.respMu.Unlock()
	r := resp
	s.response = &r
	s.respCond.Signal()
}
