// Package tokencount provides tiktoken-backed token counting with a
// byte-based fallback, plus per-message-variant cost estimation for the
// provider-agnostic message model.
package tokencount

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"codelet/internal/llm"
)

// DefaultMaxFileTokens is used when CODELET_MAX_FILE_TOKENS is unset or invalid.
const DefaultMaxFileTokens = 25_000

// Fixed per-part overheads, in tokens, matching the JSON scaffolding cost of
// each content variant when serialized into a provider request.
const (
	toolCallOverhead = 20
	imageTokens      = 85
	audioTokens      = 100
	videoTokens      = 200
	documentTokens   = 100
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

func encoder() *tiktoken.Tiktoken {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			enc = e
		}
	})
	return enc
}

// Count returns the number of tokens in text using the process-wide
// cl100k_base encoder. If the encoder failed to initialize, it falls back to
// ceil(len(text in bytes)/4).
func Count(text string) int {
	if text == "" {
		return 0
	}
	if e := encoder(); e != nil {
		return len(e.Encode(text, nil, nil))
	}
	return byteFallback(text)
}

func byteFallback(text string) int {
	n := len(text)
	return (n + 3) / 4
}

// CountMessages sums per-variant costs across a conversation, matching the
// wire-level overhead each message type carries once serialized.
func CountMessages(msgs []llm.Message) int {
	total := 0
	for _, m := range msgs {
		total += Count(m.Content)
		total += Count(m.ThoughtSignature)
		for _, tc := range m.ToolCalls {
			total += toolCallCost(tc)
		}
		for _, img := range m.Images {
			_ = img
			total += imageTokens
		}
	}
	return total
}

func toolCallCost(tc llm.ToolCall) int {
	argsStr := ""
	if len(tc.Args) > 0 {
		argsStr = string(tc.Args)
	} else {
		argsStr = "{}"
	}
	return Count(tc.Name) + Count(argsStr) + toolCallOverhead
}

// CostOf returns the estimated token cost of a single attachment kind by
// name, for content variants that never carry text (images/audio/video/docs).
func CostOf(kind string) int {
	switch kind {
	case "image":
		return imageTokens
	case "audio":
		return audioTokens
	case "video":
		return videoTokens
	case "document":
		return documentTokens
	default:
		return 0
	}
}

// MaxFileTokens reads CODELET_MAX_FILE_TOKENS, defaulting to 25000.
func MaxFileTokens() int {
	if v := os.Getenv("CODELET_MAX_FILE_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return DefaultMaxFileTokens
}

// CheckTokenLimit reports (estimated, limit, true) when content exceeds the
// configured max-file-tokens limit.
func CheckTokenLimit(content string) (estimated, limit int, exceeded bool) {
	limit = MaxFileTokens()
	estimated = Count(content)
	return estimated, limit, estimated > limit
}

// SerializeArgs is a helper so callers building ToolCall.Args from typed
// structs can reuse the exact token-cost accounting path above.
func SerializeArgs(v any) (json.RawMessage, error) {
	return json.Marshal(v)
}
