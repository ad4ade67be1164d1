package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/config"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/utils"
)

const sessionKey = "session"

// SessionMiddleware resolves the signed session cookie into a *session.Session.
// Requests without a valid cookie continue anonymously.
func SessionMiddleware(store session.Store, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cfg.CookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}
		id, ok := session.VerifyCookie(raw, cfg.Secret)
		if !ok {
			ClearSessionCookie(c, cfg)
			c.Next()
			return
		}

		ctx := c.Request.Context()
		sess, err := store.Get(ctx, id)
		switch {
		case err == nil:
			c.Set(sessionKey, sess)
			c.Request = c.Request.WithContext(session.WithSession(ctx, sess))
		case errors.Is(err, session.ErrNotFound):
			ClearSessionCookie(c, cfg)
		default:
			log.Error().Err(err).Msg("Failed to load session")
		}
		c.Next()
	}
}

// RequireSession stops anonymous requests. Pages redirect to the login
// screen, JSON clients get a 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := CurrentSession(c); ok && sess.Authenticated() {
			c.Next()
			return
		}
		if WantsJSON(c) {
			utils.Error(c, http.StatusUnauthorized, utils.CodeUnauthenticated, "Session has ended, please log in again")
			c.Abort()
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
	}
}

// CurrentSession returns the session resolved by SessionMiddleware.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// SetSessionCookie issues the signed cookie for sess.
func SetSessionCookie(c *gin.Context, cfg config.SessionConfig, sess *session.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, session.SignID(sess.ID, cfg.Secret), int(cfg.TTL.Seconds()), "/", "", cfg.CookieSecure, true)
	c.Set(sessionKey, sess)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, cfg config.SessionConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.CookieSecure, true)
}

// WantsJSON reports whether the caller expects a JSON body instead of a page.
func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/console/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
