package compactor

import "strings"

// AnchorType classifies why a turn is worth preserving across compaction.
type AnchorType string

const (
	AnchorErrorResolution AnchorType = "ErrorResolution"
	AnchorTaskCompletion  AnchorType = "TaskCompletion"
)

// AnchorPoint marks a turn as an anchor with a confidence and a weight used
// to break ties when the selector must choose among anchors.
type AnchorPoint struct {
	TurnIndex   int
	AnchorType  AnchorType
	Confidence  float64
	Weight      float64
	Description string
}

var errorResolutionPhrases = []string{"fixed", "resolved", "working now", "tests pass", "compiles"}
var taskCompletionPhrases = []string{"done", "complete", "implemented", "ready"}

// DetectAnchors runs the detection heuristics over every turn, in order,
// first match wins per turn.
func DetectAnchors(turns []ConversationTurn) []AnchorPoint {
	var out []AnchorPoint
	for i, turn := range turns {
		if ap, ok := detectTurn(i, turn); ok {
			out = append(out, ap)
		}
	}
	return out
}

func detectTurn(index int, turn ConversationTurn) (AnchorPoint, bool) {
	resp := strings.ToLower(turn.AssistantResponse)

	if turn.PreviousError && containsAny(resp, errorResolutionPhrases) {
		return AnchorPoint{
			TurnIndex:   index,
			AnchorType:  AnchorErrorResolution,
			Confidence:  0.9,
			Weight:      1.0,
			Description: "error resolved in assistant response",
		}, true
	}

	if containsAny(resp, taskCompletionPhrases) && hasWriteOrEdit(turn.ToolCalls) {
		return AnchorPoint{
			TurnIndex:   index,
			AnchorType:  AnchorTaskCompletion,
			Confidence:  0.8,
			Weight:      0.8,
			Description: "task completion with write/edit tool calls",
		}, true
	}

	return AnchorPoint{}, false
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func hasWriteOrEdit(calls []ToolCall) bool {
	for _, c := range calls {
		if c.IsWriteOrEdit() {
			return true
		}
	}
	return false
}
