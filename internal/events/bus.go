// Package events carries resource-changed notifications between the parts of
// the console that mutate backend data and the tables that display it.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Kind identifies a backend collection.
type Kind string

const (
	KindHospital   Kind = "hospital"
	KindBranch     Kind = "branch"
	KindSuperAdmin Kind = "superadmin"
)

// Action describes what happened to a record.
type Action string

const (
	ActionCreated       Action = "created"
	ActionUpdated       Action = "updated"
	ActionEnabled       Action = "enabled"
	ActionDisabled      Action = "disabled"
	ActionPasswordReset Action = "password_reset"
)

// ResourceChanged is published after the backend acknowledged a mutation.
// ParentID is the owning hospital for branches and super-admins and empty
// for hospitals. Origin is the session that made the change; it already
// holds the patched rows.
type ResourceChanged struct {
	Kind      Kind      `json:"kind"`
	ParentID  string    `json:"parentId,omitempty"`
	ID        string    `json:"id,omitempty"`
	Action    Action    `json:"action"`
	Origin    string    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher is what services use to announce changes.
type Publisher interface {
	Publish(ev ResourceChanged)
}

// Bus is an in-process fan-out of ResourceChanged events. Subscribers run
// synchronously on the publishing goroutine and must not block.
type Bus struct {
	mu   sync.RWMutex
	subs map[uint64]func(ResourceChanged)
	next uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]func(ResourceChanged))}
}

// Subscribe registers fn and returns a function removing it again.
func (b *Bus) Subscribe(fn func(ResourceChanged)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish delivers ev to every subscriber. A panicking subscriber is logged
// and does not stop delivery to the others.
func (b *Bus) Publish(ev ResourceChanged) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	b.mu.RLock()
	subs := make([]func(ResourceChanged), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		deliver(fn, ev)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func deliver(fn func(ResourceChanged), ev ResourceChanged) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("kind", string(ev.Kind)).Msg("Event subscriber panicked")
		}
	}()
	fn(ev)
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(ResourceChanged) {}
