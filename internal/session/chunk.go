package session

// ChunkKind tags the StreamChunk union.
type ChunkKind string

const (
	ChunkText        ChunkKind = "Text"
	ChunkThinking    ChunkKind = "Thinking"
	ChunkToolCall    ChunkKind = "ToolCall"
	ChunkToolResult  ChunkKind = "ToolResult"
	ChunkUserInput   ChunkKind = "UserInput"
	ChunkTokenUpdate ChunkKind = "TokenUpdate"
	ChunkStatus      ChunkKind = "Status"
	ChunkDone        ChunkKind = "Done"
	ChunkError       ChunkKind = "Error"
)

// StreamChunk is the tagged union emitted to the UI via a session's output
// buffer. Only the fields relevant to Kind are populated.
type StreamChunk struct {
	Kind ChunkKind

	Text string // Text, Thinking, UserInput, Status, Error

	ToolUseID string // ToolCall.ID, ToolResult.ToolUseID
	ToolName  string // ToolCall.Name
	ToolInput []byte // ToolCall.Input (json)
	IsError   bool   // ToolResult.IsError

	InputTokens      int
	OutputTokens     int
	CacheReadTokens  int
	CacheCreateTokens int
}

func TextChunk(s string) StreamChunk     { return StreamChunk{Kind: ChunkText, Text: s} }
func ThinkingChunk(s string) StreamChunk { return StreamChunk{Kind: ChunkThinking, Text: s} }
func UserInputChunk(s string) StreamChunk { return StreamChunk{Kind: ChunkUserInput, Text: s} }
func StatusChunk(s string) StreamChunk   { return StreamChunk{Kind: ChunkStatus, Text: s} }
func ErrorChunk(s string) StreamChunk    { return StreamChunk{Kind: ChunkError, Text: s} }
func DoneChunk() StreamChunk             { return StreamChunk{Kind: ChunkDone} }

func ToolCallChunk(id, name string, input []byte) StreamChunk {
	return StreamChunk{Kind: ChunkToolCall, ToolUseID: id, ToolName: name, ToolInput: input}
}

func ToolResultChunk(toolUseID, content string, isErr bool) StreamChunk {
	return StreamChunk{Kind: ChunkToolResult, ToolUseID: toolUseID, Text: content, IsError: isErr}
}

func TokenUpdateChunk(input, output, cacheRead, cacheCreate int) StreamChunk {
	return StreamChunk{
		Kind:              ChunkTokenUpdate,
		InputTokens:       input,
		OutputTokens:      output,
		CacheReadTokens:   cacheRead,
		CacheCreateTokens: cacheCreate,
	}
}
