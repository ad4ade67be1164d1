package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/models"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/validation"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

// AuthService signs super-admins in and out.
type AuthService struct {
	client *hms.Client
	store  session.Store
	audit  AuditRecorder
}

// NewAuthService constructs a new AuthService.
func NewAuthService(client *hms.Client, store session.Store, rec AuditRecorder) *AuthService {
	return &AuthService{client: client, store: store, audit: rec}
}

// Login validates the form, exchanges the credentials for a token and opens
// a session. A rejection from the backend is returned as a ConflictError
// carrying the backend's message.
func (s *AuthService) Login(ctx context.Context, form *validation.Login) (*session.Session, error) {
	if errs := validation.Check(form); errs != nil {
		return nil, &ValidationError{Errors: errs}
	}

	log.Debug().Str("email", form.Email).Msg("Login attempt")

	token, err := s.client.Login(ctx, form.Email, form.Password)
	if err != nil {
		var apiErr *hms.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			log.Warn().Str("email", form.Email).Str("reason", apiErr.Message).Msg("Login rejected")
			return nil, &ConflictError{Notice: apiErr.Message}
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	sess, err := s.store.Create(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	log.Info().Str("email", form.Email).Msg("Login successful")
	audit(ctx, s.audit, &session.Session{ID: sess.ID, Profile: &hms.Profile{Email: form.Email}},
		models.AuditLogin, "session", "", "")
	return sess, nil
}

// EnsureProfile fetches and caches the signed-in super-admin's profile. The
// dashboard is only shown once this succeeds.
func (s *AuthService) EnsureProfile(ctx context.Context, sess *session.Session) (*hms.Profile, error) {
	if !sess.Authenticated() {
		return nil, hms.ErrMissingToken
	}
	if sess.Profile != nil {
		return sess.Profile, nil
	}

	profile, err := s.client.GetMyProfile(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	sess.Profile = profile
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}

// Logout ends the session.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	audit(ctx, s.audit, sess, models.AuditLogout, "session", "", "")
	if err := s.store.Destroy(ctx, sess.ID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
