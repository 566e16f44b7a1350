// Package progress implements the process-wide tool-progress callback: a
// single slot the agent loop sets before running a tool and clears after, so
// tools can stream stdout back to the UI without depending on any specific
// UI trait.
package progress

import "sync"

// Callback receives each chunk of captured tool output as it arrives.
type Callback func(chunk string)

var (
	mu sync.RWMutex
	cb Callback
)

// Set installs the callback. Passing nil clears it.
func Set(c Callback) {
	mu.Lock()
	defer mu.Unlock()
	cb = c
}

// Clear removes any installed callback.
func Clear() { Set(nil) }

// Emit calls the installed callback, if any; a no-op when none is registered.
func Emit(chunk string) {
	mu.RLock()
	c := cb
	mu.RUnlock()
	if c != nil {
		c(chunk)
	}
}

// Bracket installs cb for the duration of fn and clears it afterward,
// matching the agent loop's set/run-tool/clear pattern.
func Bracket(c Callback, fn func()) {
	Set(c)
	defer Clear()
	fn()
}
