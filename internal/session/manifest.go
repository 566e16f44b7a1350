package session

import "time"

// MessageSource tags where a MessageRef's content originated.
type MessageSource struct {
	Kind         string // "Native" | "Forked" | "Imported"
	From         string // uuid of the source session
	OriginalIndex int   // only set for Imported
}

// MessageRef points at a stored message without embedding its content.
type MessageRef struct {
	MessageID string
	Source    MessageSource
}

// ForkPoint records where a session was forked from.
type ForkPoint struct {
	SessionID    string
	MessageIndex int
	ForkedAt     time.Time
}

// MergeRecord records a merge-in of another session's messages.
type MergeRecord struct {
	FromSessionID string
	MergedAt      time.Time
	MessageCount  int
}

// CompactionState is the last compaction result recorded on a manifest.
type CompactionState struct {
	OriginalTokens  int
	CompactedTokens int
	TurnsKept       int
	TurnsSummarized int
	CompactedAt     time.Time
}

// TokenUsage is the persisted usage snapshot for a session.
type TokenUsage struct {
	InputTokens              uint64
	OutputTokens             uint64
	CacheReadInputTokens     uint64
	CacheCreationInputTokens uint64
	CumulativeBilledInput    uint64
	CumulativeBilledOutput   uint64
}

// Manifest is the persisted (non-runtime) description of a session.
type Manifest struct {
	ID         string
	Name       string
	Project    string
	Provider   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Messages   []MessageRef
	ForkedFrom *ForkPoint
	MergedFrom []MergeRecord
	Compaction *CompactionState
	TokenUsage TokenUsage
}
