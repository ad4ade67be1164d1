package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/ppldoc/superadmin-console/internal/console"
	"github.com/ppldoc/superadmin-console/internal/events"
	"github.com/ppldoc/superadmin-console/internal/service"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/validation"
	"github.com/ppldoc/superadmin-console/internal/web"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

const (
	branchesTable    = "branches"
	superAdminsTable = "superadmins"
)

// HospitalDetailHandler serves the branches and super-admins of one hospital.
type HospitalDetailHandler struct {
	shell       *Shell
	superAdmins *service.SuperAdminService
	audit       service.AuditRecorder
}

// NewHospitalDetailHandler creates a new HospitalDetailHandler.
func NewHospitalDetailHandler(shell *Shell, superAdmins *service.SuperAdminService, rec service.AuditRecorder) *HospitalDetailHandler {
	return &HospitalDetailHandler{shell: shell, superAdmins: superAdmins, audit: rec}
}

func detailPath(hospitalID string) string {
	return "/superadmin/hospitalbranch/" + url.PathEscape(hospitalID)
}

func branchesModel(hospitalID string) web.TableModel {
	return web.TableModel{
		Name:      branchesTable,
		Title:     "Branches",
		Prefix:    "b_",
		Path:      detailPath(hospitalID),
		ExportURL: detailPath(hospitalID) + "/branches.csv",
	}
}

func superAdminsModel(hospitalID string) web.TableModel {
	return web.TableModel{
		Name:       superAdminsTable,
		Title:      "Super Admins",
		Prefix:     "s_",
		Path:       detailPath(hospitalID),
		ExportURL:  detailPath(hospitalID) + "/superadmins.csv",
		ActionBase: detailPath(hospitalID) + "/superadmins",
		AddLabel:   "Add Super Admin",
	}
}

// Show handles GET /superadmin/hospitalbranch/:hospitalid.
func (h *HospitalDetailHandler) Show(c *gin.Context) {
	sess := current(c)
	if !h.shell.ensureProfile(c, sess) {
		return
	}
	h.render(c, sess, c.Param("hospitalid"), http.StatusOK, c.Request.URL.Query(), nil)
}

func (h *HospitalDetailHandler) render(c *gin.Context, sess *session.Session, hospitalID string, status int, query url.Values, modal *web.Modal) {
	ws := h.shell.workspace(sess)
	branches := ws.Branches(hospitalID)
	admins := ws.SuperAdmins(hospitalID)

	bm, ok := tableModel(h.shell, c, sess, branches, branchesModel(hospitalID), query)
	if !ok {
		return
	}
	sm, ok := tableModel(h.shell, c, sess, admins, superAdminsModel(hospitalID), query)
	if !ok {
		return
	}
	if modal == nil {
		if modal, ok = h.modalFromQuery(c, sess, branches, admins, bm, sm); !ok {
			return
		}
	}

	name := ""
	if hosp, found := ws.Hospitals().Find(hospitalID); found {
		name = hosp.Name
	}
	h.shell.render(c, sess, status, web.PageHospital, gin.H{
		"Title":        "Hospital Branches",
		"HospitalID":   hospitalID,
		"HospitalName": name,
		"Branches":     bm,
		"SuperAdmins":  sm,
		"Modal":        modal,
	})
}

func (h *HospitalDetailHandler) modalFromQuery(c *gin.Context, sess *session.Session, branches *console.Adapter[hms.Branch], admins *console.Adapter[hms.SuperAdmin], bm, sm web.TableModel) (*web.Modal, bool) {
	kind, ok := console.ParseModalKind(bm.Query.Get(web.ParamModal))
	if !ok {
		return nil, true
	}
	id := bm.Query.Get(web.ParamTarget)

	switch bm.Query.Get(web.ParamTable) {
	case branchesTable:
		if kind != console.ModalView {
			return nil, true
		}
		b, found := branches.Find(id)
		if !found {
			return nil, true
		}
		modal := openModal(branches, branchesTable, kind, id, "Branch Details", bm)
		modal.Record = b
		modal.Values["createdBy"] = console.BranchCreator(b)
		return modal, true

	case superAdminsTable:
		switch kind {
		case console.ModalAdd:
			modal := openModal(admins, superAdminsTable, kind, "", "Add Super Admin", sm)
			modal.Action = sm.ActionBase
			return modal, true
		case console.ModalView:
			sa, found := admins.Find(id)
			if !found {
				return nil, true
			}
			modal := openModal(admins, superAdminsTable, kind, id, "Super Admin Details", sm)
			modal.Record = sa
			return modal, true
		case console.ModalEdit:
			modal := openModal(admins, superAdminsTable, kind, id, "Edit Super Admin", sm)
			modal.Action = sm.ActionURL(id, "edit")
			sa, err := h.superAdmins.Get(backendCtx(c), sess, id)
			if err != nil {
				return modal, h.shell.formFailure(c, sess, err, modal)
			}
			modal.Values["name"] = sa.Name
			modal.Values["email"] = sa.Email
			modal.Values["phone"] = sa.Phone
			return modal, true
		case console.ModalResetPassword:
			modal := openModal(admins, superAdminsTable, kind, id, "Reset Password", sm)
			modal.Action = sm.ActionURL(id, "resetpassword")
			return modal, true
		}
	}
	return nil, true
}

// failedForm re-renders the page with the submitted dialog still open.
func (h *HospitalDetailHandler) failedForm(c *gin.Context, sess *session.Session, hospitalID string, kind console.ModalKind, title string, err error) {
	ret, query := returnTarget(c, detailPath(hospitalID))
	modal := &web.Modal{
		Kind:   string(kind),
		Table:  superAdminsTable,
		Title:  title,
		Action: c.Request.URL.Path,
		Values: postedValues(c),
		Return: ret,
		Close:  ret,
	}
	if h.shell.formFailure(c, sess, err, modal) {
		h.render(c, sess, hospitalID, failureStatus(modal), query, modal)
	}
}

// ExportBranches handles GET /superadmin/hospitalbranch/:hospitalid/branches.csv.
func (h *HospitalDetailHandler) ExportBranches(c *gin.Context) {
	sess := current(c)
	hospitalID := c.Param("hospitalid")
	exportCSV(h.shell, c, sess, h.shell.workspace(sess).Branches(hospitalID), h.audit,
		string(events.KindBranch), hospitalID, detailPath(hospitalID))
}

// ExportSuperAdmins handles GET /superadmin/hospitalbranch/:hospitalid/superadmins.csv.
func (h *HospitalDetailHandler) ExportSuperAdmins(c *gin.Context) {
	sess := current(c)
	hospitalID := c.Param("hospitalid")
	exportCSV(h.shell, c, sess, h.shell.workspace(sess).SuperAdmins(hospitalID), h.audit,
		string(events.KindSuperAdmin), hospitalID, detailPath(hospitalID))
}

// AddSuperAdmin handles POST /superadmin/hospitalbranch/:hospitalid/superadmins.
func (h *HospitalDetailHandler) AddSuperAdmin(c *gin.Context) {
	sess := current(c)
	hospitalID := c.Param("hospitalid")

	var form validation.AddSuperAdmin
	if !bindForm(c, &form) {
		return
	}

	if err := h.superAdmins.Add(backendCtx(c), sess, hospitalID, &form); err != nil {
		h.failedForm(c, sess, hospitalID, console.ModalAdd, "Add Super Admin", err)
		return
	}

	ret, _ := returnTarget(c, detailPath(hospitalID))
	a := h.shell.workspace(sess).SuperAdmins(hospitalID)
	a.MarkStale()
	a.Modals().Close(console.ModalAdd)
	h.shell.flash(c, sess, session.FlashSuccess, msgSuperAdminCreated)
	c.Redirect(http.StatusSeeOther, ret)
}

// EditSuperAdmin handles POST /superadmin/hospitalbranch/:hospitalid/superadmins/:id/edit.
func (h *HospitalDetailHandler) EditSuperAdmin(c *gin.Context) {
	sess := current(c)
	hospitalID, id := c.Param("hospitalid"), c.Param("id")

	var form validation.EditSuperAdmin
	if !bindForm(c, &form) {
		return
	}

	ret, _ := returnTarget(c, detailPath(hospitalID))
	a := h.shell.workspace(sess).SuperAdmins(hospitalID)
	if !dialogOpen(h.shell, c, sess, a, console.ModalEdit, id, ret) {
		return
	}

	req, err := h.superAdmins.Edit(backendCtx(c), sess, hospitalID, id, &form)
	if err != nil {
		h.failedForm(c, sess, hospitalID, console.ModalEdit, "Edit Super Admin", err)
		return
	}

	if err := a.PatchFields(id, func(s *hms.SuperAdmin) {
		s.Name = req.Name
		s.Email = req.Email
		s.Phone = req.Phone
	}); err != nil {
		a.MarkStale()
	}
	a.Modals().Close(console.ModalEdit)
	h.shell.flash(c, sess, session.FlashSuccess, msgSuperAdminUpdated)
	c.Redirect(http.StatusSeeOther, ret)
}

// ResetPassword handles POST /superadmin/hospitalbranch/:hospitalid/superadmins/:id/resetpassword.
func (h *HospitalDetailHandler) ResetPassword(c *gin.Context) {
	sess := current(c)
	hospitalID, id := c.Param("hospitalid"), c.Param("id")

	var form validation.ResetPassword
	if !bindForm(c, &form) {
		return
	}

	ret, _ := returnTarget(c, detailPath(hospitalID))
	a := h.shell.workspace(sess).SuperAdmins(hospitalID)
	if !dialogOpen(h.shell, c, sess, a, console.ModalResetPassword, id, ret) {
		return
	}

	if err := h.superAdmins.ResetPassword(backendCtx(c), sess, id, &form); err != nil {
		h.failedForm(c, sess, hospitalID, console.ModalResetPassword, "Reset Password", err)
		return
	}

	a.Modals().Close(console.ModalResetPassword)
	h.shell.flash(c, sess, session.FlashSuccess, msgPasswordReset)
	c.Redirect(http.StatusSeeOther, ret)
}

// EnableSuperAdmin handles POST /superadmin/hospitalbranch/:hospitalid/superadmins/:id/enable.
func (h *HospitalDetailHandler) EnableSuperAdmin(c *gin.Context) {
	h.setActive(c, true)
}

// DisableSuperAdmin handles POST /superadmin/hospitalbranch/:hospitalid/superadmins/:id/disable.
func (h *HospitalDetailHandler) DisableSuperAdmin(c *gin.Context) {
	h.setActive(c, false)
}

func (h *HospitalDetailHandler) setActive(c *gin.Context, active bool) {
	sess := current(c)
	hospitalID, id := c.Param("hospitalid"), c.Param("id")
	ret, _ := returnTarget(c, detailPath(hospitalID))

	if err := h.superAdmins.SetActive(backendCtx(c), sess, id, active); err != nil {
		h.shell.fail(c, sess, err, ret)
		return
	}
	a := h.shell.workspace(sess).SuperAdmins(hospitalID)
	if err := a.PatchActive(id, active); err != nil {
		a.MarkStale()
	}
	c.Redirect(http.StatusSeeOther, ret)
}
