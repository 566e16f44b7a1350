package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"codelet/internal/pause"
)

// Manager holds every live BackgroundSession in a process-wide,
// insertion-order-preserving map, plus the watch graph used for navigation.
type Manager struct {
	mu            sync.RWMutex
	sessions      map[string]*BackgroundSession
	topLevelOrder []string
	graph         *WatchGraph
	active        *string
}

// NewManager constructs an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*BackgroundSession),
		graph:    newWatchGraph(),
	}
}

// Create initializes a manifest and registers a new Idle session.
func (m *Manager) Create(name, project, provider string) *BackgroundSession {
	id := uuid.NewString()
	now := time.Now()
	s := NewBackgroundSession(Manifest{
		ID: id, Name: name, Project: project, Provider: provider,
		CreatedAt: now, UpdatedAt: now,
	})

	m.mu.Lock()
	m.sessions[id] = s
	m.topLevelOrder = append(m.topLevelOrder, id)
	m.mu.Unlock()

	return s
}

// CreateWatcher registers a new session that watches an existing parent
// session, linked in the watch graph rather than as a top-level entry.
func (m *Manager) CreateWatcher(parentID, name, project, provider string) (*BackgroundSession, error) {
	m.mu.RLock()
	_, ok := m.sessions[parentID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session: parent %s not found", parentID)
	}

	id := uuid.NewString()
	now := time.Now()
	s := NewBackgroundSession(Manifest{
		ID: id, Name: name, Project: project, Provider: provider,
		CreatedAt: now, UpdatedAt: now,
	})

	m.mu.Lock()
	m.sessions[id] = s
	m.graph.Link(parentID, id)
	m.mu.Unlock()

	return s, nil
}

// Get returns the session for uuid, or nil if unknown.
func (m *Manager) Get(id string) *BackgroundSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Attach marks id as the active session and transitions Idle->Running.
func (m *Manager) Attach(id string) error {
	s := m.Get(id)
	if s == nil {
		return fmt.Errorf("session: %s not found", id)
	}
	m.mu.Lock()
	cp := id
	m.active = &cp
	m.mu.Unlock()
	s.Start()
	return nil
}

// Detach preserves all runtime state; any in-flight stream keeps writing to
// the output buffer. It simply clears the active pointer if it matches id.
func (m *Manager) Detach(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil && *m.active == id {
		m.active = nil
	}
}

// SetActive sets or clears (nil) the single active session.
func (m *Manager) SetActive(id *string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = id
}

// Active returns the current active session ID, if any.
func (m *Manager) Active() *string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// GetTokens reads the atomic cache fields for a session.
func (m *Manager) GetTokens(id string) (input, output uint32, ok bool) {
	s := m.Get(id)
	if s == nil {
		return 0, 0, false
	}
	in, out := s.Tokens()
	return in, out, true
}

// GetPauseState returns a read-only snapshot of a session's pause state.
func (m *Manager) GetPauseState(id string) *PauseState {
	s := m.Get(id)
	if s == nil {
		return nil
	}
	return s.PauseStateSnapshot()
}

// PauseResume writes a response and notifies the condvar for id's session.
func (m *Manager) PauseResume(id string, resp pause.Response) error {
	s := m.Get(id)
	if s == nil {
		return fmt.Errorf("session: %s not found", id)
	}
	s.Resume(resp)
	return nil
}

// RestoreTokenState writes both the inner tracker fields and the atomic
// cache fields for id, used when re-attaching a persisted session.
func (m *Manager) RestoreTokenState(id string, input, output, cacheRead, cacheCreate, cumIn, cumOut uint64) error {
	s := m.Get(id)
	if s == nil {
		return fmt.Errorf("session: %s not found", id)
	}
	s.SetTokens(uint32(input), uint32(output))
	s.innerMu.Lock()
	s.Manifest.TokenUsage = TokenUsage{
		InputTokens:              input,
		OutputTokens:             output,
		CacheReadInputTokens:     cacheRead,
		CacheCreationInputTokens: cacheCreate,
		CumulativeBilledInput:    cumIn,
		CumulativeBilledOutput:   cumOut,
	}
	s.innerMu.Unlock()
	return nil
}

// RestoreMessages re-parses persisted envelopes and pushes synthetic
// StreamChunks into the output buffer so a re-attached UI can replay the
// conversation. envelopes is role/content pairs already rehydrated by the
// persistence layer.
func (m *Manager) RestoreMessages(id string, envelopes []RestoredMessage) error {
	s := m.Get(id)
	if s == nil {
		return fmt.Errorf("session: %s not found", id)
	}
	for _, e := range envelopes {
		switch e.Role {
		case "user":
			s.PushChunk(UserInputChunk(e.Content))
		case "assistant":
			s.PushChunk(TextChunk(e.Content))
		}
	}
	return nil
}

// RestoredMessage is the minimal shape RestoreMessages needs; the
// persistence layer's StoredMessage rehydrates into this.
type RestoredMessage struct {
	Role    string
	Content string
}
