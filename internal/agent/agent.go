package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codelet/internal/compactor"
	"codelet/internal/debugcapture"
	"codelet/internal/llm"
	"codelet/internal/pause"
	"codelet/internal/progress"
	"codelet/internal/session"
	"codelet/internal/tokencount"
	"codelet/internal/tokentracker"
	"codelet/internal/tools"

	"golang.org/x/sync/errgroup"
)

// maxProviderRetries bounds how many times a single provider turn is
// retried after a retryable error (rate limiting, overload, transient
// server failure) before the error is surfaced to the caller.
const maxProviderRetries = 3

// chatStreamWithRetry calls provider.ChatStream, retrying with a short
// exponential backoff when the error is classified as transient. It only
// retries while collector hasn't buffered any output yet, since reissuing
// the call after partial streaming would duplicate chunks already pushed
// to the session.
func chatStreamWithRetry(ctx context.Context, provider llm.Provider, msgs []llm.Message, schemas []llm.ToolSchema, model string, collector *streamCollector) error {
	var err error
	for attempt := 0; attempt <= maxProviderRetries; attempt++ {
		err = provider.ChatStream(ctx, msgs, schemas, model, collector)
		if err == nil || !llm.ClassifyError(err) || attempt == maxProviderRetries {
			return err
		}
		if collector.text.Len() > 0 || len(collector.toolCalls) > 0 {
			return err
		}
		delay := time.Duration(1<<attempt) * 250 * time.Millisecond
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
	}
	return err
}

// DefaultMaxDepth bounds how many provider round-trips a single Run
// call may take before it gives up rather than looping forever on a model
// that keeps issuing tool calls. Overridable via CODELET_MAX_DEPTH.
const DefaultMaxDepth = 100

// DefaultToolConcurrency bounds how many tool calls from a single model
// turn dispatch in parallel. A model that asks for several independent
// reads in one turn shouldn't pay for them serially.
const DefaultToolConcurrency = 4

// Deps wires the collaborators a single agent run needs. Debug is optional,
// and MaxDepth and ToolConcurrency fall back to DefaultMaxDepth and
// DefaultToolConcurrency when zero; the other fields are required.
type Deps struct {
	Provider        llm.Provider
	Model           string
	ContextWindow   int
	Tools           tools.Registry
	Compactor       *compactor.Compactor
	Debug           *debugcapture.Manager
	MaxDepth        int
	ToolConcurrency int
	Workdir         string
}

func (d Deps) maxDepth() int {
	if d.MaxDepth > 0 {
		return d.MaxDepth
	}
	return DefaultMaxDepth
}

func (d Deps) toolConcurrency() int {
	if d.ToolConcurrency > 0 {
		return d.ToolConcurrency
	}
	return DefaultToolConcurrency
}

// Run drives one user turn of the streaming agent loop against sess. history
// is the full linear message log for the session; Run appends to it in
// place (including across any tool round-trips and mid-turn compactions) so
// callers can persist it after Run returns, whatever the outcome.
//
// The loop: push a UserInput chunk and append the user message; inject
// reminders and large-write-intent nudges; then repeatedly stream a
// provider call, dispatch any tool calls it requested, and feed the results
// back, until the model stops requesting tools or max depth is hit. A
// Done chunk is pushed when the model stops requesting tools; an
// interrupted run returns nil after a Status chunk and pushes no Done chunk.
func Run(ctx context.Context, sess *session.BackgroundSession, history *[]llm.Message, userInput string, firstTurn bool, deps Deps) error {
	sess.PushChunk(session.UserInputChunk(userInput))

	prompt := userInput
	if firstTurn {
		for _, r := range InitialReminders(deps.Workdir) {
			prompt += "\n\n" + r
		}
	}
	if r := LargeWriteReminder(userInput); r != "" {
		prompt += "\n\n" + r
	}
	*history = append(*history, llm.Message{Role: "user", Content: prompt})

	schemas := deps.Tools.Schemas()
	outTracker := tokentracker.NewOutputTracker(0)
	tokens := tokentracker.New()

	depth := 0
	compactionNeeded := false
	for {
		depth++
		if depth > deps.maxDepth() {
			sess.PushChunk(session.ErrorChunk(fmt.Sprintf("agent: exceeded max depth (%d)", deps.maxDepth())))
			return fmt.Errorf("agent: exceeded max depth (%d)", deps.maxDepth())
		}
		if sess.Status() == session.StatusInterrupted {
			sess.PushChunk(session.StatusChunk("Agent interrupted"))
			return nil
		}

		if projected := tokencount.CountMessages(*history); compactionNeeded || projected > compactor.Threshold(deps.ContextWindow) {
			compactionNeeded = false
			compacted, result, err := deps.Compactor.Compact(ctx, *history, deps.ContextWindow)
			if err != nil {
				sess.PushChunk(session.ErrorChunk(fmt.Sprintf("agent: compaction failed: %v", err)))
				return err
			}
			if deps.Debug != nil {
				deps.Debug.Capture(debugcapture.EventCompactionTriggered, result, "")
			}
			if !result.Noop {
				*history = compacted
				sess.PushChunk(session.StatusChunk("Compacted conversation history"))
			}
		}

		turnCtx, cancel := context.WithCancel(ctx)
		collector := newStreamCollector(sess, cancel, outTracker)

		if deps.Debug != nil {
			deps.Debug.Capture(debugcapture.EventAPIRequest, map[string]any{"model": deps.Model, "messages": len(*history)}, "")
		}

		turnCtx = llm.WithCacheTap(turnCtx, func(u llm.CacheUsage) {
			tokens.UpdateFromUsage(tokentracker.Usage{
				InputTokens:              u.InputTokens,
				OutputTokens:             u.OutputTokens,
				CacheReadInputTokens:     u.CacheReadInputTokens,
				CacheCreationInputTokens: u.CacheCreationInputTokens,
				CacheReadSet:             u.CacheReadSet,
				CacheCreationSet:         u.CacheCreationSet,
			})
			sess.SetTokens(uint32(tokens.TotalInput()), uint32(tokens.OutputTokens))
			if deps.Debug != nil {
				deps.Debug.Capture(debugcapture.EventTokenUpdate, tokens, "")
			}
		})

		outTracker.StartNewSegment()
		err := chatStreamWithRetry(turnCtx, deps.Provider, *history, schemas, deps.Model, collector)
		cancel()

		if err != nil {
			if sess.Status() == session.StatusInterrupted {
				flushAssistant(history, collector)
				sess.PushChunk(session.StatusChunk("Agent interrupted"))
				return nil
			}
			if compactor.IsCompactionTriggerError(err) {
				flushAssistant(history, collector)
				if deps.Debug != nil {
					deps.Debug.Capture(debugcapture.EventCompactionTriggered, map[string]any{"reason": err.Error()}, "")
				}
				compactionNeeded = true
				continue
			}
			if deps.Debug != nil {
				deps.Debug.Capture(debugcapture.EventAPIError, map[string]any{"error": err.Error()}, "")
			}
			sess.PushChunk(session.ErrorChunk(err.Error()))
			return err
		}

		pendingCalls := collector.toolCalls
		flushAssistant(history, collector)

		if len(pendingCalls) == 0 {
			break
		}

		results := make([]toolResult, len(pendingCalls))
		group, gctx := errgroup.WithContext(ctx)
		group.SetLimit(deps.toolConcurrency())

		for i, tc := range pendingCalls {
			if sess.Status() == session.StatusInterrupted {
				sess.PushChunk(session.StatusChunk("Agent interrupted"))
				return nil
			}

			resp := pause.ForUser(ctx, pause.Request{Kind: pause.KindConfirm, ToolName: tc.Name, Message: "run tool " + tc.Name})
			if resp == pause.ResponseDenied || resp == pause.ResponseInterrupted {
				payload, _ := json.Marshal(NewDeniedToolError(tc.Name).payload())
				results[i] = toolResult{call: tc, payload: payload}
				continue
			}

			if deps.Debug != nil {
				deps.Debug.Capture(debugcapture.EventToolCall, map[string]any{"name": tc.Name, "args": tc.Args}, tc.ID)
			}

			i, tc := i, tc
			group.Go(func() error {
				payload, derr := dispatchToolWithRetry(gctx, deps.Tools, sess, tc)
				results[i] = toolResult{call: tc, payload: payload, err: derr}
				return nil
			})
		}
		group.Wait()

		for _, r := range results {
			if r.call.ID == "" {
				continue
			}
			if deps.Debug != nil && r.err != nil {
				deps.Debug.Capture(debugcapture.EventToolError, map[string]any{"name": r.call.Name, "error": r.err.Error()}, r.call.ID)
			} else if deps.Debug != nil {
				deps.Debug.Capture(debugcapture.EventToolResult, map[string]any{"name": r.call.Name, "payload": string(r.payload)}, r.call.ID)
			}
			sess.PushChunk(session.ToolResultChunk(r.call.ID, string(r.payload), r.err != nil))
			*history = append(*history, llm.Message{Role: "user", ToolID: r.call.ID, Content: string(r.payload)})
		}
	}

	sess.PushChunk(session.DoneChunk())
	return nil
}

// dispatchToolWithRetry dispatches tc once, and once more if the failure
// looks transient, before giving up and returning a ToolError payload to
// the model.
func dispatchToolWithRetry(ctx context.Context, registry tools.Registry, sess *session.BackgroundSession, tc llm.ToolCall) ([]byte, error) {
	var payload []byte
	var derr error
	for attempt := 0; attempt < 2; attempt++ {
		progress.Bracket(func(chunk string) {
			sess.PushChunk(session.StatusChunk(chunk))
		}, func() {
			payload, derr = registry.Dispatch(ctx, tc.Name, tc.Args)
		})
		if derr == nil {
			return payload, nil
		}
		toolErr := NewDispatchToolError(tc.Name, derr)
		if !toolErr.IsRetryable() || attempt == 1 {
			b, _ := json.Marshal(toolErr.payload())
			return b, toolErr
		}
	}
	return payload, derr
}

// toolResult holds one dispatched tool call's outcome, indexed by its
// position in the turn's pendingCalls so results can be appended to history
// in call order even though dispatch itself runs concurrently.
type toolResult struct {
	call    llm.ToolCall
	payload []byte
	err     error
}

// flushAssistant appends the assistant message accumulated in collector to
// history, if there is anything to flush, then resets the collector's text
// buffer so a later retry of the same turn doesn't double-append.
func flushAssistant(history *[]llm.Message, c *streamCollector) {
	text := c.text.String()
	if text == "" && len(c.toolCalls) == 0 && len(c.images) == 0 {
		return
	}
	*history = append(*history, llm.Message{
		Role:             "assistant",
		Content:          text,
		ToolCalls:        c.toolCalls,
		Images:           c.images,
		ThoughtSignature: c.thoughtSig,
	})
	c.text.Reset()
	c.toolCalls = nil
	c.images = nil
	c.thoughtSig = ""
}
