package compactor

import "time"

// ToolCall mirrors the minimal shape a turn needs for anchor detection:
// whether it touched the filesystem.
type ToolCall struct {
	Name string
}

// IsWriteOrEdit reports whether this call is a write/edit-family tool.
func (c ToolCall) IsWriteOrEdit() bool {
	switch c.Name {
	case "write", "edit", "write_file", "replace":
		return true
	default:
		return false
	}
}

// ToolResult is the minimal result shape carried on a turn.
type ToolResult struct {
	ToolCallID string
	IsError    bool
}

// ConversationTurn is derived lazily from the linear message log at
// compaction time; it is never stored duplicatively.
type ConversationTurn struct {
	UserMessage        string
	ToolCalls          []ToolCall
	ToolResults        []ToolResult
	AssistantResponse  string
	Tokens             uint32
	Timestamp          time.Time
	PreviousError      bool
}
