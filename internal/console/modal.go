package console

import "sync"

// ModalKind names a dialog attached to a table.
type ModalKind string

const (
	ModalAdd           ModalKind = "add"
	ModalView          ModalKind = "view"
	ModalEdit          ModalKind = "edit"
	ModalResetPassword ModalKind = "resetpassword"
)

// ParseModalKind returns the kind for a query value.
func ParseModalKind(s string) (ModalKind, bool) {
	switch k := ModalKind(s); k {
	case ModalAdd, ModalView, ModalEdit, ModalResetPassword:
		return k, true
	}
	return "", false
}

// ModalState tracks which dialogs are open. At most one dialog of each kind
// is open at a time; opening another replaces its target record.
type ModalState struct {
	mu   sync.Mutex
	open map[ModalKind]string
}

// Open opens kind for record id (empty for add dialogs).
func (m *ModalState) Open(kind ModalKind, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open == nil {
		m.open = make(map[ModalKind]string)
	}
	m.open[kind] = id
}

// Close closes kind.
func (m *ModalState) Close(kind ModalKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.open, kind)
}

// CloseAll closes every dialog.
func (m *ModalState) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = nil
}

// Current returns the record id of an open dialog.
func (m *ModalState) Current(kind ModalKind) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.open[kind]
	return id, ok
}

// IsOpen reports whether kind is open for id.
func (m *ModalState) IsOpen(kind ModalKind, id string) bool {
	cur, ok := m.Current(kind)
	return ok && cur == id
}
