package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/console"
	"github.com/ppldoc/superadmin-console/internal/models"
	"github.com/ppldoc/superadmin-console/internal/service"
	"github.com/ppldoc/superadmin-console/internal/utils"
)

// AuditLister reads the audit trail.
type AuditLister interface {
	List(ctx context.Context, f models.AuditFilter) ([]models.AuditEvent, error)
}

// APIHandler exposes the tables as JSON for scripted clients.
type APIHandler struct {
	shell  *Shell
	audits AuditLister
}

// NewAPIHandler creates a new APIHandler. audits may be nil when no
// database is configured.
func NewAPIHandler(shell *Shell, audits AuditLister) *APIHandler {
	return &APIHandler{shell: shell, audits: audits}
}

// respondTable writes the page of a selected by q, sort, dir and page.
func respondTable[T any](s *Shell, c *gin.Context, a *console.Adapter[T]) {
	sess := current(c)
	if err := a.EnsureLoaded(backendCtx(c), sess); err != nil {
		cl := s.classify(err)
		if cl.Outcome == service.OutcomeUnauthenticated {
			s.signOut(c, sess)
			return
		}
		log.Warn().Err(err).Msg("Table fetch failed")
		utils.Error(c, http.StatusBadGateway, utils.CodeTransient, cl.Message)
		return
	}
	view := a.View(viewState(c, a))
	utils.SuccessWithPagination(c, http.StatusOK, "OK", view, view.Page+1, view.PageSize, view.Filtered)
}

// Profile handles GET /console/api/profile.
func (h *APIHandler) Profile(c *gin.Context) {
	sess := current(c)
	profile, err := h.shell.auth.EnsureProfile(backendCtx(c), sess)
	if err != nil {
		cl := h.shell.classify(err)
		if cl.Outcome == service.OutcomeUnauthenticated {
			h.shell.signOut(c, sess)
			return
		}
		utils.Error(c, http.StatusBadGateway, utils.CodeTransient, cl.Message)
		return
	}
	utils.Success(c, http.StatusOK, "OK", profile)
}

// Hospitals handles GET /console/api/hospitals.
func (h *APIHandler) Hospitals(c *gin.Context) {
	respondTable(h.shell, c, h.shell.workspace(current(c)).Hospitals())
}

// Branches handles GET /console/api/hospitals/:hospitalid/branches.
func (h *APIHandler) Branches(c *gin.Context) {
	respondTable(h.shell, c, h.shell.workspace(current(c)).Branches(c.Param("hospitalid")))
}

// SuperAdmins handles GET /console/api/hospitals/:hospitalid/superadmins.
func (h *APIHandler) SuperAdmins(c *gin.Context) {
	respondTable(h.shell, c, h.shell.workspace(current(c)).SuperAdmins(c.Param("hospitalid")))
}

// Audit handles GET /console/api/audit.
func (h *APIHandler) Audit(c *gin.Context) {
	if h.audits == nil {
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "Audit trail is not enabled")
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	events, err := h.audits.List(c.Request.Context(), models.AuditFilter{
		Actor:    c.Query("actor"),
		Resource: c.Query("resource"),
		Limit:    limit,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list audit events")
		utils.Error(c, http.StatusInternalServerError, utils.CodeTransient, "Failed to load audit trail")
		return
	}
	utils.Success(c, http.StatusOK, "OK", events)
}
