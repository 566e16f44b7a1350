package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"codelet/internal/llm"
)

// StoredMessage is the on-disk shape of an llm.Message: large fields
// (Content, ThoughtSignature) above BlobThreshold are rewritten to blob
// references before serialization.
type StoredMessage struct {
	Role             string          `json:"role"`
	Content          string          `json:"content"`
	ToolID           string          `json:"tool_id,omitempty"`
	ToolCalls        []llm.ToolCall  `json:"tool_calls,omitempty"`
	Images           []StoredImage   `json:"images,omitempty"`
	ThoughtSignature string              `json:"thought_signature,omitempty"`
	Compaction       *llm.CompactionItem `json:"compaction,omitempty"`
}

// StoredImage mirrors llm.GeneratedImage but allows the raw Data field to be
// replaced by a blob reference once it crosses BlobThreshold.
type StoredImage struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

// MessageStore rewrites message envelopes to and from their stored form,
// extracting large fields into the blob store transparently.
type MessageStore struct {
	blobs *BlobStore
}

// NewMessageStore wraps a BlobStore for envelope rewriting.
func NewMessageStore(blobs *BlobStore) *MessageStore {
	return &MessageStore{blobs: blobs}
}

// Store converts a message into its persisted envelope, extracting any
// field longer than BlobThreshold into the blob store and replacing it with
// a blob reference string.
func (s *MessageStore) Store(ctx context.Context, m llm.Message) (StoredMessage, error) {
	content, err := s.maybeExtract(ctx, m.Content)
	if err != nil {
		return StoredMessage{}, err
	}
	thought, err := s.maybeExtract(ctx, m.ThoughtSignature)
	if err != nil {
		return StoredMessage{}, err
	}

	out := StoredMessage{
		Role:             m.Role,
		Content:          content,
		ToolID:           m.ToolID,
		ToolCalls:        m.ToolCalls,
		ThoughtSignature: thought,
		Compaction:       m.Compaction,
	}
	for _, img := range m.Images {
		data, err := s.maybeExtract(ctx, img.Data)
		if err != nil {
			return StoredMessage{}, err
		}
		out.Images = append(out.Images, StoredImage{Data: data, MIMEType: img.MIMEType})
	}
	return out, nil
}

// Rehydrate reverses Store, resolving any blob references back into their
// original field values.
func (s *MessageStore) Rehydrate(ctx context.Context, sm StoredMessage) (llm.Message, error) {
	content, err := s.maybeResolve(ctx, sm.Content)
	if err != nil {
		return llm.Message{}, err
	}
	thought, err := s.maybeResolve(ctx, sm.ThoughtSignature)
	if err != nil {
		return llm.Message{}, err
	}

	out := llm.Message{
		Role:             sm.Role,
		Content:          content,
		ToolID:           sm.ToolID,
		ToolCalls:        sm.ToolCalls,
		ThoughtSignature: thought,
		Compaction:       sm.Compaction,
	}
	for _, img := range sm.Images {
		data, err := s.maybeResolve(ctx, img.Data)
		if err != nil {
			return llm.Message{}, err
		}
		out.Images = append(out.Images, llm.GeneratedImage{Data: data, MIMEType: img.MIMEType})
	}
	return out, nil
}

func (s *MessageStore) maybeExtract(ctx context.Context, field string) (string, error) {
	if len(field) <= BlobThreshold {
		return field, nil
	}
	hash, err := s.blobs.Store(ctx, []byte(field))
	if err != nil {
		return "", fmt.Errorf("persistence: extract blob: %w", err)
	}
	return MakeBlobReference(hash), nil
}

func (s *MessageStore) maybeResolve(ctx context.Context, field string) (string, error) {
	hash, ok := ExtractBlobHash(field)
	if !ok {
		return field, nil
	}
	content, err := s.blobs.Get(ctx, hash)
	if err != nil {
		return "", fmt.Errorf("persistence: resolve blob: %w", err)
	}
	return string(content), nil
}

// MarshalEnvelope serializes a StoredMessage to a single JSON line.
func MarshalEnvelope(sm StoredMessage) ([]byte, error) {
	return json.Marshal(sm)
}

// UnmarshalEnvelope parses a single JSON line into a StoredMessage.
func UnmarshalEnvelope(data []byte) (StoredMessage, error) {
	var sm StoredMessage
	err := json.Unmarshal(data, &sm)
	return sm, err
}
