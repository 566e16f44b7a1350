package session

// TargetKind distinguishes a concrete session target from the two sentinel
// targets at the ends of the traversal order.
type TargetKind string

const (
	TargetSession      TargetKind = "Session"
	TargetCreateDialog TargetKind = "CreateDialog"
	TargetBoard        TargetKind = "Board"
)

// Target is what navigation returns: either a concrete session or one of the
// two sentinel UX targets.
type Target struct {
	Kind      TargetKind
	SessionID string
}

// flattenedOrder returns top-level sessions interleaved with their watchers,
// in the order "Session1 -> its watchers -> Session2 -> ...".
func (m *Manager) flattenedOrder() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for _, id := range m.topLevelOrder {
		if _, ok := m.graph.watchToParent[id]; ok {
			continue // not top-level anymore (was forked/linked)
		}
		out = append(out, id)
		out = append(out, m.graph.Watchers(id)...)
	}
	return out
}

// NextTarget implements the Shift+Right UX: from the active session, move to
// its first watcher, the next top-level session, or CreateDialog at the end.
// From no active session (the board view), returns the first entry.
func (m *Manager) NextTarget(active *string) Target {
	order := m.flattenedOrder()
	if active == nil {
		if len(order) == 0 {
			return Target{Kind: TargetCreateDialog}
		}
		return Target{Kind: TargetSession, SessionID: order[0]}
	}
	for i, id := range order {
		if id == *active {
			if i+1 < len(order) {
				return Target{Kind: TargetSession, SessionID: order[i+1]}
			}
			return Target{Kind: TargetCreateDialog}
		}
	}
	return Target{Kind: TargetCreateDialog}
}

// PrevTarget implements the Shift+Left UX: mirrors NextTarget, ending at
// Board when stepping back from the first entry.
func (m *Manager) PrevTarget(active *string) Target {
	order := m.flattenedOrder()
	if active == nil {
		return Target{Kind: TargetBoard}
	}
	for i, id := range order {
		if id == *active {
			if i == 0 {
				return Target{Kind: TargetBoard}
			}
			return Target{Kind: TargetSession, SessionID: order[i-1]}
		}
	}
	return Target{Kind: TargetBoard}
}
