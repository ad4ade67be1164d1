// Package session keeps the backend bearer token on the server side. The
// browser only ever sees a signed, opaque session id.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/ppldoc/superadmin-console/pkg/hms"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session: not found")
	// ErrTokenExpired is returned when login yields a token that is already
	// past its expiry.
	ErrTokenExpired = errors.New("session: token already expired")
)

// Session is the authenticated context handed to every component that
// talks to the backend.
type Session struct {
	ID        string       `json:"id"`
	Token     string       `json:"token"`
	Profile   *hms.Profile `json:"profile,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Authenticated reports whether s carries a bearer token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot notification shown on the next render.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, token string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Destroy(ctx context.Context, id string) error
	AddFlash(ctx context.Context, id string, f Flash) error
	Flashes(ctx context.Context, id string) ([]Flash, error)
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
