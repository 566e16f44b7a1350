package persistence

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codelet/internal/llm"
)

// MessageLog is an append-only JSONL log of one session's message envelopes.
type MessageLog struct {
	dir   string
	blobs *MessageStore
}

// NewMessageLog roots a message log at {dataDir}/messages.
func NewMessageLog(dataDir string, blobs *BlobStore) *MessageLog {
	return &MessageLog{
		dir:   filepath.Join(dataDir, "messages"),
		blobs: NewMessageStore(blobs),
	}
}

func (l *MessageLog) path(sessionID string) string {
	return filepath.Join(l.dir, sessionID+".jsonl")
}

// Append stores m (extracting large fields to blobs as needed) and appends
// its envelope as one JSON line.
func (l *MessageLog) Append(ctx context.Context, sessionID string, m llm.Message) error {
	sm, err := l.blobs.Store(ctx, m)
	if err != nil {
		return err
	}
	line, err := MarshalEnvelope(sm)
	if err != nil {
		return fmt.Errorf("persistence: marshal envelope: %w", err)
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("persistence: mkdir messages: %w", err)
	}
	f, err := os.OpenFile(l.path(sessionID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("persistence: open message log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("persistence: append message: %w", err)
	}
	return nil
}

// Load reads and rehydrates every message in a session's log, in append
// order.
func (l *MessageLog) Load(ctx context.Context, sessionID string) ([]llm.Message, error) {
	f, err := os.Open(l.path(sessionID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("persistence: open message log: %w", err)
	}
	defer f.Close()

	var out []llm.Message
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		sm, err := UnmarshalEnvelope(line)
		if err != nil {
			return nil, fmt.Errorf("persistence: parse envelope: %w", err)
		}
		m, err := l.blobs.Rehydrate(ctx, sm)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("persistence: scan message log: %w", err)
	}
	return out, nil
}
