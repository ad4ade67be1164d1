package console

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/events"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

type mounted interface {
	Key() Key
	MarkStale()
	Close()
}

// Workspace is the set of tables mounted for one browser session.
type Workspace struct {
	mu        sync.Mutex
	sessionID string
	src       Source
	pageSize  int
	policy    string
	adapters  map[Key]mounted
	lastSeen  time.Time
	closed    bool
}

func newWorkspace(sessionID string, src Source, pageSize int, policy string) *Workspace {
	return &Workspace{
		sessionID: sessionID,
		src:       src,
		pageSize:  pageSize,
		policy:    policy,
		adapters:  make(map[Key]mounted),
		lastSeen:  time.Now(),
	}
}

// Hospitals returns the hospitals table, mounting it on first use.
func (w *Workspace) Hospitals() *Adapter[hms.Hospital] {
	return mount(w, Key{Kind: events.KindHospital}, func() Definition[hms.Hospital] {
		return HospitalsDefinition(w.src)
	})
}

// Branches returns the branches table of a hospital.
func (w *Workspace) Branches(hospitalID string) *Adapter[hms.Branch] {
	return mount(w, Key{Kind: events.KindBranch, ParentID: hospitalID}, func() Definition[hms.Branch] {
		return BranchesDefinition(w.src, hospitalID)
	})
}

// SuperAdmins returns the super-admins table of a hospital.
func (w *Workspace) SuperAdmins(hospitalID string) *Adapter[hms.SuperAdmin] {
	return mount(w, Key{Kind: events.KindSuperAdmin, ParentID: hospitalID}, func() Definition[hms.SuperAdmin] {
		return SuperAdminsDefinition(w.src, hospitalID)
	})
}

func mount[T any](w *Workspace, key Key, def func() Definition[T]) *Adapter[T] {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = time.Now()

	if m, ok := w.adapters[key]; ok {
		if a, ok := m.(*Adapter[T]); ok {
			return a
		}
	}
	a := NewAdapter(def(), w.pageSize, w.policy)
	if w.closed {
		a.Close()
		return a
	}
	w.adapters[key] = a
	return a
}

// Handle marks the tables showing the changed collection as stale.
func (w *Workspace) Handle(ev events.ResourceChanged) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for key, m := range w.adapters {
		if key.Kind == ev.Kind && key.ParentID == ev.ParentID {
			m.MarkStale()
		}
	}
}

func (w *Workspace) touch() {
	w.mu.Lock()
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Close tears down every table of the workspace.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.adapters)
	for key, m := range w.adapters {
		m.Close()
		delete(w.adapters, key)
	}
	w.closed = true
	log.Debug().Str("session_id", w.sessionID).Int("tables", n).Msg("Workspace closed")
}
