package persistence

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryEntry is one line in the append-only cross-session history index:
// enough to render a session list and to search without opening every
// message log.
type HistoryEntry struct {
	SessionID string    `json:"session_id"`
	Project   string    `json:"project"`
	Provider  string    `json:"provider"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryStore is an append-only JSONL index of session activity, cached in
// memory sorted newest-first, with an optional SQLite FTS5 index for full
// text search over summaries.
type HistoryStore struct {
	path string

	mu      sync.RWMutex
	entries []HistoryEntry

	db *sql.DB
}

// NewHistoryStore opens {dataDir}/history.jsonl, loading any existing
// entries into memory, and opens a side SQLite database at
// {dataDir}/history.db for full text search. A failure to open the FTS
// database degrades Search to an in-memory substring scan rather than
// failing construction.
func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	h := &HistoryStore{path: filepath.Join(dataDir, "history.jsonl")}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("persistence: mkdir history dir: %w", err)
	}
	if err := h.loadFromDisk(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "history.db"))
	if err == nil {
		if _, ferr := db.Exec(`CREATE VIRTUAL TABLE IF NOT EXISTS history_fts USING fts5(session_id UNINDEXED, summary)`); ferr == nil {
			h.db = db
			for _, e := range h.entries {
				_, _ = h.db.Exec(`INSERT INTO history_fts(session_id, summary) VALUES (?, ?)`, e.SessionID, e.Summary)
			}
		} else {
			_ = db.Close()
		}
	}

	return h, nil
}

func (h *HistoryStore) loadFromDisk() error {
	f, err := os.Open(h.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("persistence: open history log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var entries []HistoryEntry
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e HistoryEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("persistence: parse history entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("persistence: scan history log: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })
	h.entries = entries
	return nil
}

// Record appends e to the log, updates the in-memory cache, and indexes it
// for search when FTS is available.
func (h *HistoryStore) Record(e HistoryEntry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("persistence: marshal history entry: %w", err)
	}

	f, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("persistence: open history log: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("persistence: append history entry: %w", err)
	}

	h.mu.Lock()
	h.entries = append([]HistoryEntry{e}, h.entries...)
	h.mu.Unlock()

	if h.db != nil {
		_, _ = h.db.Exec(`INSERT INTO history_fts(session_id, summary) VALUES (?, ?)`, e.SessionID, e.Summary)
	}
	return nil
}

// Recent returns up to n entries, newest first, optionally restricted to a
// single project. An empty project returns entries across all projects.
func (h *HistoryStore) Recent(project string, n int) []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []HistoryEntry
	for _, e := range h.entries {
		if project != "" && e.Project != project {
			continue
		}
		out = append(out, e)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// Search finds entries whose summary matches query, optionally restricted to
// a single project, using FTS5 when available and falling back to a
// case-insensitive substring scan of the in-memory cache otherwise.
func (h *HistoryStore) Search(query, project string) ([]HistoryEntry, error) {
	matches := func(e HistoryEntry) bool {
		return project == "" || e.Project == project
	}

	if h.db != nil {
		rows, err := h.db.Query(`SELECT session_id FROM history_fts WHERE history_fts MATCH ? ORDER BY rank`, query)
		if err == nil {
			defer rows.Close()
			ids := make(map[string]bool)
			for rows.Next() {
				var id string
				if err := rows.Scan(&id); err == nil {
					ids[id] = true
				}
			}
			h.mu.RLock()
			var out []HistoryEntry
			for _, e := range h.entries {
				if ids[e.SessionID] && matches(e) {
					out = append(out, e)
				}
			}
			h.mu.RUnlock()
			return out, nil
		}
	}

	needle := strings.ToLower(query)
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []HistoryEntry
	for _, e := range h.entries {
		if strings.Contains(strings.ToLower(e.Summary), needle) && matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Clear truncates the history log, drops the in-memory cache, and empties
// the FTS index when one is open.
func (h *HistoryStore) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.Truncate(h.path, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("persistence: truncate history log: %w", err)
	}
	h.entries = nil

	if h.db != nil {
		if _, err := h.db.Exec(`DELETE FROM history_fts`); err != nil {
			return fmt.Errorf("persistence: clear history fts index: %w", err)
		}
	}
	return nil
}

// Close releases the FTS database handle, if one was opened.
func (h *HistoryStore) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}
