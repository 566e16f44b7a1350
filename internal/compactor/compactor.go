package compactor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codelet/internal/llm"
	"codelet/internal/tokencount"
)

// DefaultMaxChunkTokens caps the summary the provider is asked to produce.
const DefaultMaxChunkTokens = 4096

// DefaultMaxRetries is the number of summarization attempts before giving up.
const DefaultMaxRetries = 3

// Result reports what a compaction pass did, for metrics emission.
type Result struct {
	OriginalTokens   int
	CompactedTokens  int
	TurnsKept        int
	TurnsSummarized  int
	DurationMs       int64
	Noop             bool
}

// Compactor runs the summarize-and-replace workflow.
type Compactor struct {
	Provider       llm.Provider
	Model          string
	KeepRecent     int
	MaxRetries     int
	MaxChunkTokens int
}

// New returns a Compactor with sane default tuning.
func New(provider llm.Provider, model string) *Compactor {
	return &Compactor{
		Provider:       provider,
		Model:          model,
		KeepRecent:     DefaultKeepRecent,
		MaxRetries:     DefaultMaxRetries,
		MaxChunkTokens: DefaultMaxChunkTokens,
	}
}

// TurnsFromMessages derives conversation turns lazily from the linear
// message log by forward-scanning user/assistant/tool-result groups.
func TurnsFromMessages(msgs []llm.Message) []ConversationTurn {
	var turns []ConversationTurn
	var cur *ConversationTurn

	flush := func() {
		if cur != nil {
			turns = append(turns, *cur)
			cur = nil
		}
	}

	for _, m := range msgs {
		switch m.Role {
		case "user":
			if m.ToolID != "" {
				if cur != nil {
					cur.ToolResults = append(cur.ToolResults, ToolResult{ToolCallID: m.ToolID})
				}
				continue
			}
			flush()
			cur = &ConversationTurn{UserMessage: m.Content, Timestamp: time.Now()}
		case "assistant":
			if cur == nil {
				cur = &ConversationTurn{Timestamp: time.Now()}
			}
			if m.Content != "" {
				cur.AssistantResponse = strings.TrimSpace(cur.AssistantResponse + " " + m.Content)
			}
			for _, tc := range m.ToolCalls {
				cur.ToolCalls = append(cur.ToolCalls, ToolCall{Name: tc.Name})
			}
		}
	}
	flush()

	for i := range turns {
		turns[i].Tokens = uint32(tokencount.Count(turns[i].UserMessage) + tokencount.Count(turns[i].AssistantResponse))
	}
	return turns
}

// Compact runs the full workflow: refuse on empty history, detect anchors,
// select turns, summarize the rest, and splice a new message log.
func (c *Compactor) Compact(ctx context.Context, msgs []llm.Message, contextWindow int) ([]llm.Message, Result, error) {
	start := time.Now()

	turns := TurnsFromMessages(msgs)
	if len(turns) == 0 {
		return msgs, Result{Noop: true}, nil
	}

	anchors := DetectAnchors(turns)
	sel := Select(turns, anchors, c.KeepRecent)

	if len(sel.SummarizedTurns) == 0 {
		// Nothing old enough to summarize; keep as-is.
		return msgs, Result{Noop: true, TurnsKept: len(sel.KeptTurns)}, nil
	}

	originalTokens := tokencount.CountMessages(msgs)
	budget := SummarizationBudget(contextWindow)

	summary, err := c.summarizeWithRetry(ctx, sel.SummarizedTurns, budget)
	if err != nil {
		return nil, Result{}, fmt.Errorf("compaction: summarize: %w", err)
	}

	newMsgs := make([]llm.Message, 0, len(sel.KeptTurns)*2+1)
	newMsgs = append(newMsgs, llm.Message{Role: "user", Content: renderReminder(summary)})
	for _, t := range sel.KeptTurns {
		newMsgs = append(newMsgs, turnToMessages(t)...)
	}

	compactedTokens := tokencount.CountMessages(newMsgs)

	return newMsgs, Result{
		OriginalTokens:  originalTokens,
		CompactedTokens: compactedTokens,
		TurnsKept:       len(sel.KeptTurns),
		TurnsSummarized: len(sel.SummarizedTurns),
		DurationMs:      time.Since(start).Milliseconds(),
	}, nil
}

func renderReminder(summary string) string {
	return "<system-reminder>\nPrior conversation summary (compacted):\n" + summary + "\n</system-reminder>"
}

func turnToMessages(t ConversationTurn) []llm.Message {
	var out []llm.Message
	if t.UserMessage != "" {
		out = append(out, llm.Message{Role: "user", Content: t.UserMessage})
	}
	if t.AssistantResponse != "" {
		out = append(out, llm.Message{Role: "assistant", Content: t.AssistantResponse})
	}
	return out
}

func (c *Compactor) summarizeWithRetry(ctx context.Context, turns []ConversationTurn, budget int) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		prompt := buildSummarizationPrompt(turns, budget, c.MaxChunkTokens)
		resp, err := c.Provider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, nil, c.Model)
		if err == nil {
			return resp.Content, nil
		}
		lastErr = err
		if !isRateLimited(err) {
			return "", err
		}
		budget /= 2
		delay := time.Duration(1<<attempt) * time.Second
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	return "", lastErr
}

func isRateLimited(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "rate limit")
}

// buildSummarizationPrompt feeds the newest turns whose token counts fit in
// budget (always at least one) and asks for a summary under maxTokens.
func buildSummarizationPrompt(turns []ConversationTurn, budget, maxTokens int) string {
	start, total := len(turns), 0
	for start > 0 && (start == len(turns) || total+int(turns[start-1].Tokens) <= budget) {
		start--
		total += int(turns[start].Tokens)
	}
	var b strings.Builder
	b.WriteString("Summarize the following conversation turns. Preserve: open bugs, ")
	b.WriteString("user intent, file paths touched, and unresolved errors. ")
	fmt.Fprintf(&b, "Keep the summary under %d tokens.\n\n", maxTokens)
	for _, t := range turns[start:] {
		if t.UserMessage != "" {
			b.WriteString("User: ")
			b.WriteString(t.UserMessage)
			b.WriteString("\n")
		}
		if t.AssistantResponse != "" {
			b.WriteString("Assistant: ")
			b.WriteString(t.AssistantResponse)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// IsCompactionTriggerError reports whether err's lowercased message matches
// one of the provider error strings that should trigger compaction instead
// of propagating.
func IsCompactionTriggerError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	triggers := []string{
		"prompt is too long",
		"maximum context length",
		"context_length_exceeded",
		"too many tokens",
		"exceeds the model",
	}
	for _, trig := range triggers {
		if strings.Contains(msg, trig) {
			return true
		}
	}
	if strings.Contains(msg, "invalid_request_error") && (strings.Contains(msg, "token") || strings.Contains(msg, "maximum")) {
		return true
	}
	return false
}
