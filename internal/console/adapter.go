// Package console binds backend collections to data tables and keeps them
// per browser session.
package console

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/events"
	"github.com/ppldoc/superadmin-console/internal/service"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/table"
)

// State of an adapter's data.
type State int

const (
	Loading State = iota
	Ready
	// Unauthenticated is terminal; the shell must sign the user out.
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

var (
	ErrUnauthenticated = errors.New("console: session is not authenticated")
	ErrClosed          = errors.New("console: adapter closed")
	ErrNotReady        = errors.New("console: data not loaded")
	ErrRowNotFound     = errors.New("console: row not found")
)

// Key identifies a mounted adapter within a workspace.
type Key struct {
	Kind     events.Kind
	ParentID string
}

// Definition describes one entity table.
type Definition[T any] struct {
	Kind       events.Kind
	ParentID   string
	Columns    []table.Column[T]
	CSVHeaders []table.CSVHeader
	Filename   string
	// InitialSort applies on mount and whenever the browser sends no sort.
	InitialSort table.SortState
	ID          func(T) string
	SetActive   func(*T, bool)
	Fetch       func(ctx context.Context, token string) ([]T, error)
}

// Adapter owns the rows of one entity table and their view state.
type Adapter[T any] struct {
	mu     sync.Mutex
	def    Definition[T]
	policy string
	table  *table.Table[T]
	modals ModalState

	state    State
	lastErr  error
	stale    bool
	closed   bool
	gen      uint64
	loadedAt time.Time
}

// NewAdapter mounts a definition. Nothing is fetched until Load.
func NewAdapter[T any](def Definition[T], pageSize int, policy string) *Adapter[T] {
	t := table.New(def.Columns, nil, pageSize)
	t.SetSort(def.InitialSort.ColumnID, def.InitialSort.Direction)
	return &Adapter[T]{def: def, policy: policy, table: t, state: Loading}
}

// Key returns the adapter's workspace key.
func (a *Adapter[T]) Key() Key {
	return Key{Kind: a.def.Kind, ParentID: a.def.ParentID}
}

// Filename is the CSV download name.
func (a *Adapter[T]) Filename() string {
	return a.def.Filename
}

// State returns the current state and the last fetch error, if any.
func (a *Adapter[T]) State() (State, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, a.lastErr
}

// Load fetches the rows. Without a token it moves to Unauthenticated without
// calling the backend. A result that arrives after Close is dropped.
func (a *Adapter[T]) Load(ctx context.Context, sess *session.Session) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	if a.state == Unauthenticated {
		a.mu.Unlock()
		return ErrUnauthenticated
	}
	if !sess.Authenticated() {
		a.state = Unauthenticated
		a.mu.Unlock()
		return ErrUnauthenticated
	}
	gen := a.gen
	a.mu.Unlock()

	rows, err := a.def.Fetch(ctx, sess.Token)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || gen != a.gen {
		log.Debug().Str("kind", string(a.def.Kind)).Msg("Discarding fetch result for closed adapter")
		return ErrClosed
	}
	if err != nil {
		a.lastErr = err
		c := service.Classify(err, a.policy)
		if c.Outcome == service.OutcomeUnauthenticated {
			a.state = Unauthenticated
			return ErrUnauthenticated
		}
		log.Warn().Err(err).Str("kind", string(a.def.Kind)).Str("parent_id", a.def.ParentID).Msg("Table fetch failed")
		return err
	}

	a.table.SetRows(rows)
	a.state = Ready
	a.lastErr = nil
	a.stale = false
	a.loadedAt = time.Now()
	return nil
}

// MarkStale schedules a re-fetch on next access.
func (a *Adapter[T]) MarkStale() {
	a.mu.Lock()
	a.stale = true
	a.mu.Unlock()
}

// Stale reports whether the adapter needs a fetch before rendering.
func (a *Adapter[T]) Stale() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stale || a.state == Loading
}

// EnsureLoaded fetches when the adapter has no data yet or was marked stale.
func (a *Adapter[T]) EnsureLoaded(ctx context.Context, sess *session.Session) error {
	if !a.Stale() {
		return nil
	}
	return a.Load(ctx, sess)
}

// DefaultState is the view state of a freshly mounted table.
func (a *Adapter[T]) DefaultState() table.State {
	return table.State{Sort: a.def.InitialSort}
}

// View applies st and renders the current page.
func (a *Adapter[T]) View(st table.State) table.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.table.Apply(st)
	return a.table.View(a.def.ID)
}

// Find returns the loaded row with id, used by view dialogs.
func (a *Adapter[T]) Find(id string) (T, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.table.Find(func(r T) bool { return a.def.ID(r) == id })
}

// PatchActive flips the active flag of one row after the backend
// acknowledged it, without a re-fetch.
func (a *Adapter[T]) PatchActive(id string, active bool) error {
	if a.def.SetActive == nil {
		return ErrRowNotFound
	}
	return a.PatchFields(id, func(r *T) { a.def.SetActive(r, active) })
}

// PatchFields applies fn to the row with id.
func (a *Adapter[T]) PatchFields(id string, fn func(*T)) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Ready {
		return ErrNotReady
	}
	if a.table.Patch(func(r T) bool { return a.def.ID(r) == id }, fn) == 0 {
		return ErrRowNotFound
	}
	return nil
}

// ExportCSV writes every loaded row and returns the row count.
func (a *Adapter[T]) ExportCSV(w io.Writer) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != Ready {
		return 0, ErrNotReady
	}
	return a.table.ExportCSV(w, a.def.CSVHeaders)
}

// Modals returns the adapter's dialog state.
func (a *Adapter[T]) Modals() *ModalState {
	return &a.modals
}

// Close tears the adapter down. Fetches still in flight are discarded.
func (a *Adapter[T]) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.gen++
	a.modals.CloseAll()
}
