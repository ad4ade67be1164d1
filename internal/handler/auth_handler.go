package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/middleware"
	"github.com/ppldoc/superadmin-console/internal/service"
	"github.com/ppldoc/superadmin-console/internal/validation"
	"github.com/ppldoc/superadmin-console/internal/web"
)

const msgTooManyAttempts = "Too many failed login attempts. Please try again in a minute."

// AuthHandler serves the login screen and sign-out.
type AuthHandler struct {
	shell   *Shell
	auth    *service.AuthService
	limiter *middleware.LoginRateLimiter
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(shell *Shell, auth *service.AuthService, limiter *middleware.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{shell: shell, auth: auth, limiter: limiter}
}

// LoginPage handles GET /. A signed-in user goes straight to the dashboard.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if sess := current(c); sess.Authenticated() {
		c.Redirect(http.StatusSeeOther, hospitalsPath)
		return
	}
	notice := ""
	if c.Query(endedParam) != "" {
		notice = service.MsgSessionEnded
	}
	h.renderLogin(c, http.StatusOK, &web.Modal{Values: map[string]string{}}, notice)
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, form *web.Modal, notice string) {
	c.HTML(status, web.PageLogin, gin.H{
		"Title":  "Login",
		"Form":   form,
		"Notice": notice,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	form := &web.Modal{Values: postedValues(c)}
	if h.limiter.Blocked(ip) {
		log.Warn().Str("ip", ip).Msg("Login rate limited")
		h.renderLogin(c, http.StatusTooManyRequests, form, msgTooManyAttempts)
		return
	}

	var req validation.Login
	if !bindForm(c, &req) {
		return
	}

	sess, err := h.auth.Login(backendCtx(c), &req)
	if err != nil {
		cl := h.shell.classify(err)
		switch cl.Outcome {
		case service.OutcomeValidation:
			form.Errors = cl.Fields
			h.renderLogin(c, http.StatusUnprocessableEntity, form, "")
		case service.OutcomeConflict:
			h.limiter.Fail(ip)
			h.renderLogin(c, http.StatusOK, form, cl.Message)
		case service.OutcomeTransient:
			log.Error().Err(err).Msg("Login failed")
			h.renderLogin(c, http.StatusOK, form, cl.Message)
		default:
			h.limiter.Fail(ip)
			log.Warn().Err(err).Msg("Login rejected")
			h.renderLogin(c, http.StatusOK, form, service.MsgRetry)
		}
		return
	}

	h.limiter.Reset(ip)
	middleware.SetSessionCookie(c, h.shell.cookie, sess)
	c.Redirect(http.StatusSeeOther, hospitalsPath)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := current(c)
	if err := h.auth.Logout(backendCtx(c), sess); err != nil {
		log.Error().Err(err).Msg("Logout failed")
	}
	h.shell.endSession(c, sess)
	c.Redirect(http.StatusSeeOther, "/")
}
