package console

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/events"
)

// Manager holds the workspaces of all live sessions.
type Manager struct {
	mu         sync.Mutex
	src        Source
	pageSize   int
	policy     string
	workspaces map[string]*Workspace
}

// NewManager creates a manager whose tables fetch from src.
func NewManager(src Source, pageSize int, policy string) *Manager {
	return &Manager{
		src:        src,
		pageSize:   pageSize,
		policy:     policy,
		workspaces: make(map[string]*Workspace),
	}
}

// Workspace returns the workspace of a session, creating it if needed.
func (m *Manager) Workspace(sessionID string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workspaces[sessionID]
	if !ok {
		w = newWorkspace(sessionID, m.src, m.pageSize, m.policy)
		m.workspaces[sessionID] = w
	}
	w.touch()
	return w
}

// Close tears down the workspace of a session, on logout or auth failure.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	w, ok := m.workspaces[sessionID]
	delete(m.workspaces, sessionID)
	m.mu.Unlock()
	if ok {
		w.Close()
	}
}

// Attach subscribes the manager to bus and returns the unsubscribe func.
func (m *Manager) Attach(bus *events.Bus) func() {
	return bus.Subscribe(m.Handle)
}

// Handle forwards a change to every workspace except the one that made it;
// that one already patched or refreshed its rows.
func (m *Manager) Handle(ev events.ResourceChanged) {
	m.mu.Lock()
	targets := make([]*Workspace, 0, len(m.workspaces))
	for id, w := range m.workspaces {
		if id != ev.Origin {
			targets = append(targets, w)
		}
	}
	m.mu.Unlock()

	for _, w := range targets {
		w.Handle(ev)
	}
}

// Sweep closes workspaces not used for longer than idle and returns how
// many were evicted.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := time.Now().Add(-idle)

	m.mu.Lock()
	var evicted []*Workspace
	for id, w := range m.workspaces {
		if w.idleSince().Before(cutoff) {
			evicted = append(evicted, w)
			delete(m.workspaces, id)
		}
	}
	m.mu.Unlock()

	for _, w := range evicted {
		w.Close()
	}
	if len(evicted) > 0 {
		log.Info().Int("evicted", len(evicted)).Int("remaining", m.Count()).Msg("Idle workspaces evicted")
	}
	return len(evicted)
}

// Count returns the number of live workspaces.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workspaces)
}
