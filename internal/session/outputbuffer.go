package session

import "sync"

// DefaultOutputBufferCap is the soft cap on buffered chunks before the
// oldest text chunks start getting coalesced.
const DefaultOutputBufferCap = 2000

// outputBuffer is a bounded, thread-safe queue of StreamChunks. When full,
// oldest Text/Thinking chunks are merged together rather than dropped;
// ToolCall and ToolResult chunks are never dropped or coalesced.
type outputBuffer struct {
	mu       sync.Mutex
	items    []StreamChunk
	capacity int
}

func newOutputBuffer(capacity int) *outputBuffer {
	if capacity <= 0 {
		capacity = DefaultOutputBufferCap
	}
	return &outputBuffer{capacity: capacity}
}

func (b *outputBuffer) Push(c StreamChunk) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, c)
	if len(b.items) > b.capacity {
		b.coalesceOldest()
	}
}

// coalesceOldest merges the two oldest coalescable (Text/Thinking) chunks
// into one, preserving order and never touching ToolCall/ToolResult chunks.
func (b *outputBuffer) coalesceOldest() {
	for i := 0; i+1 < len(b.items); i++ {
		if isCoalescable(b.items[i]) && isCoalescable(b.items[i+1]) && b.items[i].Kind == b.items[i+1].Kind {
			b.items[i].Text += b.items[i+1].Text
			b.items = append(b.items[:i+1], b.items[i+2:]...)
			return
		}
	}
	// No adjacent coalescable pair found (e.g. all tool chunks); accept growth.
}

func isCoalescable(c StreamChunk) bool {
	return c.Kind == ChunkText || c.Kind == ChunkThinking
}

// Drain returns and clears all buffered chunks, the eager-drain pattern the
// UI uses.
func (b *outputBuffer) Drain() []StreamChunk {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	return out
}

// Len reports the current buffered chunk count.
func (b *outputBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
