package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/config"
	"github.com/ppldoc/superadmin-console/internal/console"
	"github.com/ppldoc/superadmin-console/internal/middleware"
	"github.com/ppldoc/superadmin-console/internal/service"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/sse"
	"github.com/ppldoc/superadmin-console/internal/utils"
	"github.com/ppldoc/superadmin-console/internal/web"
)

// Flash texts shown after successful operations.
const (
	msgHospitalCreated   = "Hospital created successfully."
	msgHospitalUpdated   = "Hospital updated successfully."
	msgHospitalEnabled   = "Hospital enabled successfully."
	msgHospitalDisabled  = "Hospital disabled successfully."
	msgSuperAdminCreated = "Hospital super admin created successfully."
	msgSuperAdminUpdated = "Hospital Superadmin updated successfully."
	msgPasswordReset     = "Password reset successfully."
	msgDialogClosed      = "This form is no longer open. Please open it again."
)

// endedParam is appended to the login URL after a forced sign-out.
const endedParam = "ended"

// Shell owns the pieces every page needs: the session, the per-session
// workspace and teardown on authentication failure.
type Shell struct {
	store   session.Store
	manager *console.Manager
	hub     *sse.Hub
	auth    *service.AuthService
	cookie  config.SessionConfig
	policy  string
}

// NewShell constructs a new Shell.
func NewShell(store session.Store, manager *console.Manager, hub *sse.Hub, auth *service.AuthService, cookie config.SessionConfig, policy string) *Shell {
	return &Shell{store: store, manager: manager, hub: hub, auth: auth, cookie: cookie, policy: policy}
}

// backendCtx detaches backend calls from the browser request: a closed tab
// does not cancel a mutation that is already on its way.
func backendCtx(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// current returns the session resolved by the session middleware.
func current(c *gin.Context) *session.Session {
	sess, _ := middleware.CurrentSession(c)
	return sess
}

// workspace returns the caller's table workspace.
func (s *Shell) workspace(sess *session.Session) *console.Workspace {
	return s.manager.Workspace(sess.ID)
}

// classify maps err under the configured failure policy.
func (s *Shell) classify(err error) service.Classification {
	if errors.Is(err, console.ErrUnauthenticated) {
		return service.Classification{Outcome: service.OutcomeUnauthenticated, Message: service.MsgSessionEnded}
	}
	return service.Classify(err, s.policy)
}

// endSession tears down everything held for sess.
func (s *Shell) endSession(c *gin.Context, sess *session.Session) {
	middleware.ClearSessionCookie(c, s.cookie)
	if sess == nil {
		return
	}
	s.manager.Close(sess.ID)
	s.hub.DisconnectSession(sess.ID)
	if err := s.store.Destroy(backendCtx(c), sess.ID); err != nil {
		log.Error().Err(err).Msg("Failed to destroy session")
	}
}

// signOut ends the session and sends the browser back to the login page.
func (s *Shell) signOut(c *gin.Context, sess *session.Session) {
	s.endSession(c, sess)
	if middleware.WantsJSON(c) {
		utils.Error(c, http.StatusUnauthorized, utils.CodeUnauthenticated, service.MsgSessionEnded)
		c.Abort()
		return
	}
	c.Redirect(http.StatusSeeOther, "/?"+endedParam+"=1")
	c.Abort()
}

// flash queues a notification for the next page render.
func (s *Shell) flash(c *gin.Context, sess *session.Session, kind, msg string) {
	if err := s.store.AddFlash(backendCtx(c), sess.ID, session.Flash{Type: kind, Message: msg}); err != nil {
		log.Warn().Err(err).Msg("Failed to queue flash")
	}
}

// ensureProfile gates every dashboard page on the signed-in profile. It
// writes the response and returns false when the page must not render.
func (s *Shell) ensureProfile(c *gin.Context, sess *session.Session) bool {
	if _, err := s.auth.EnsureProfile(backendCtx(c), sess); err != nil {
		cl := s.classify(err)
		if cl.Outcome == service.OutcomeUnauthenticated {
			log.Warn().Err(err).Msg("Profile fetch rejected, signing out")
			s.signOut(c, sess)
			return false
		}
		log.Error().Err(err).Msg("Profile fetch failed")
		s.render(c, sess, http.StatusBadGateway, web.PageError, gin.H{"Title": "Unavailable", "Message": cl.Message})
		return false
	}
	return true
}

// render draws a page with the shell's header data and pending flashes.
func (s *Shell) render(c *gin.Context, sess *session.Session, status int, page string, data gin.H) {
	if sess != nil {
		data["Profile"] = sess.Profile
		flashes, err := s.store.Flashes(backendCtx(c), sess.ID)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to read flashes")
		}
		data["Flashes"] = flashes
	}
	c.HTML(status, page, data)
}

// fail reacts to a failed mutation that is not tied to an open form: the
// session ends or a notification is queued and the browser goes back.
func (s *Shell) fail(c *gin.Context, sess *session.Session, err error, back string) {
	cl := s.classify(err)
	if cl.Outcome == service.OutcomeUnauthenticated {
		s.signOut(c, sess)
		return
	}
	log.Warn().Err(err).Str("outcome", cl.Outcome.String()).Msg("Operation failed")
	s.flash(c, sess, session.FlashError, cl.Message)
	c.Redirect(http.StatusSeeOther, back)
}

// formFailure handles a failed form submit. Validation errors, conflicts and
// transient failures re-render the form with its values; authentication
// failures end the session. It returns false when the response is written.
func (s *Shell) formFailure(c *gin.Context, sess *session.Session, err error, modal *web.Modal) bool {
	cl := s.classify(err)
	switch cl.Outcome {
	case service.OutcomeUnauthenticated:
		log.Warn().Err(err).Msg("Backend rejected session, signing out")
		s.signOut(c, sess)
		return false
	case service.OutcomeValidation:
		modal.Errors = cl.Fields
	default:
		log.Warn().Err(err).Str("outcome", cl.Outcome.String()).Msg("Form submit failed")
		modal.Notice = cl.Message
	}
	return true
}

// failureStatus is the HTTP status of a re-rendered form.
func failureStatus(m *web.Modal) int {
	if len(m.Errors) > 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
