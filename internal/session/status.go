// Package session implements the background session manager: per-session
// runtime state (status, pause state, token caches, output buffer), the
// watch graph for session forking/navigation, and the pause/resume protocol
// bridged into internal/pause.
package session

import "sync/atomic"

// Status is the session's atomic lifecycle state.
type Status uint32

const (
	StatusIdle Status = iota
	StatusRunning
	StatusPaused
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusRunning:
		return "Running"
	case StatusPaused:
		return "Paused"
	case StatusInterrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}

// atomicStatus wraps atomic.Uint32 with the Status-typed accessors the rest
// of the package uses.
type atomicStatus struct {
	v atomic.Uint32
}

func (a *atomicStatus) Load() Status      { return Status(a.v.Load()) }
func (a *atomicStatus) Store(s Status)    { a.v.Store(uint32(s)) }
func (a *atomicStatus) CompareAndSwap(old, new Status) bool {
	return a.v.CompareAndSwap(uint32(old), uint32(new))
}
