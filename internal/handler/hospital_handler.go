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
	hospitalsPath  = "/superadmin"
	hospitalsTable = "hospitals"
)

// HospitalHandler serves the hospitals table and its forms.
type HospitalHandler struct {
	shell     *Shell
	hospitals *service.HospitalService
	audit     service.AuditRecorder
}

// NewHospitalHandler creates a new HospitalHandler.
func NewHospitalHandler(shell *Shell, hospitals *service.HospitalService, rec service.AuditRecorder) *HospitalHandler {
	return &HospitalHandler{shell: shell, hospitals: hospitals, audit: rec}
}

func hospitalsModel() web.TableModel {
	return web.TableModel{
		Name:       hospitalsTable,
		Title:      "Hospitals",
		Path:       hospitalsPath,
		ExportURL:  "/superadmin/hospitals.csv",
		ActionBase: "/superadmin/hospitals",
	}
}

// List handles GET /superadmin.
func (h *HospitalHandler) List(c *gin.Context) {
	sess := current(c)
	if !h.shell.ensureProfile(c, sess) {
		return
	}
	h.render(c, sess, http.StatusOK, c.Request.URL.Query(), nil)
}

// render draws the hospitals page. A nil modal opens whatever dialog the
// query asks for.
func (h *HospitalHandler) render(c *gin.Context, sess *session.Session, status int, query url.Values, modal *web.Modal) {
	a := h.shell.workspace(sess).Hospitals()
	m, ok := tableModel(h.shell, c, sess, a, hospitalsModel(), query)
	if !ok {
		return
	}
	if modal == nil {
		if modal, ok = h.modalFromQuery(c, sess, a, m); !ok {
			return
		}
	}
	h.shell.render(c, sess, status, web.PageHospitals, gin.H{
		"Title":     "Hospitals",
		"Hospitals": m,
		"Modal":     modal,
	})
}

func (h *HospitalHandler) modalFromQuery(c *gin.Context, sess *session.Session, a *console.Adapter[hms.Hospital], m web.TableModel) (*web.Modal, bool) {
	kind, ok := console.ParseModalKind(m.Query.Get(web.ParamModal))
	if !ok || m.Query.Get(web.ParamTable) != hospitalsTable {
		return nil, true
	}
	id := m.Query.Get(web.ParamTarget)

	switch kind {
	case console.ModalEdit:
		modal := openModal(a, hospitalsTable, kind, id, "Edit Hospital", m)
		modal.Action = m.ActionURL(id, "edit")
		hosp, err := h.hospitals.Get(backendCtx(c), sess, id)
		if err != nil {
			return modal, h.shell.formFailure(c, sess, err, modal)
		}
		modal.Values["name"] = hosp.Name
		modal.Values["email"] = hosp.Email
		return modal, true
	case console.ModalView:
		hosp, found := a.Find(id)
		if !found {
			return nil, true
		}
		modal := openModal(a, hospitalsTable, kind, id, "Hospital Details", m)
		modal.Record = hosp
		return modal, true
	}
	return nil, true
}

// Export handles GET /superadmin/hospitals.csv.
func (h *HospitalHandler) Export(c *gin.Context) {
	sess := current(c)
	exportCSV(h.shell, c, sess, h.shell.workspace(sess).Hospitals(), h.audit, string(events.KindHospital), "", hospitalsPath)
}

// Edit handles POST /superadmin/hospitals/:id/edit.
func (h *HospitalHandler) Edit(c *gin.Context) {
	sess := current(c)
	id := c.Param("id")
	ret, query := returnTarget(c, hospitalsPath)

	var form validation.EditHospital
	if !bindForm(c, &form) {
		return
	}

	a := h.shell.workspace(sess).Hospitals()
	if !dialogOpen(h.shell, c, sess, a, console.ModalEdit, id, ret) {
		return
	}
	req, err := h.hospitals.Edit(backendCtx(c), sess, id, &form)
	if err != nil {
		modal := &web.Modal{
			Kind:   string(console.ModalEdit),
			Table:  hospitalsTable,
			Title:  "Edit Hospital",
			Action: c.Request.URL.Path,
			Values: postedValues(c),
			Return: ret,
			Close:  ret,
		}
		if h.shell.formFailure(c, sess, err, modal) {
			h.render(c, sess, failureStatus(modal), query, modal)
		}
		return
	}

	if err := a.PatchFields(id, func(x *hms.Hospital) {
		x.Name = req.Name
		x.Email = req.Email
	}); err != nil {
		a.MarkStale()
	}
	a.Modals().Close(console.ModalEdit)
	h.shell.flash(c, sess, session.FlashSuccess, msgHospitalUpdated)
	c.Redirect(http.StatusSeeOther, ret)
}

// Enable handles POST /superadmin/hospitals/:id/enable.
func (h *HospitalHandler) Enable(c *gin.Context) {
	h.setActive(c, true)
}

// Disable handles POST /superadmin/hospitals/:id/disable.
func (h *HospitalHandler) Disable(c *gin.Context) {
	h.setActive(c, false)
}

func (h *HospitalHandler) setActive(c *gin.Context, active bool) {
	sess := current(c)
	id := c.Param("id")
	ret, _ := returnTarget(c, hospitalsPath)

	if err := h.hospitals.SetActive(backendCtx(c), sess, id, active); err != nil {
		h.shell.fail(c, sess, err, ret)
		return
	}
	a := h.shell.workspace(sess).Hospitals()
	if err := a.PatchActive(id, active); err != nil {
		a.MarkStale()
	}
	msg := msgHospitalDisabled
	if active {
		msg = msgHospitalEnabled
	}
	h.shell.flash(c, sess, session.FlashSuccess, msg)
	c.Redirect(http.StatusSeeOther, ret)
}

// AddPage handles GET /superadmin/addhospitalbranch.
func (h *HospitalHandler) AddPage(c *gin.Context) {
	sess := current(c)
	if !h.shell.ensureProfile(c, sess) {
		return
	}
	h.shell.render(c, sess, http.StatusOK, web.PageAddHospital, gin.H{
		"Title": "Add Hospital",
		"Form":  &web.Modal{Kind: string(console.ModalAdd), Values: map[string]string{}},
	})
}

// Add handles POST /superadmin/addhospitalbranch. Success returns to the
// hospitals list.
func (h *HospitalHandler) Add(c *gin.Context) {
	sess := current(c)

	var form validation.AddHospital
	if !bindForm(c, &form) {
		return
	}

	if err := h.hospitals.Add(backendCtx(c), sess, &form); err != nil {
		modal := &web.Modal{Kind: string(console.ModalAdd), Values: postedValues(c)}
		if h.shell.formFailure(c, sess, err, modal) {
			h.shell.render(c, sess, failureStatus(modal), web.PageAddHospital, gin.H{
				"Title":  "Add Hospital",
				"Form":   modal,
				"Notice": modal.Notice,
			})
		}
		return
	}

	h.shell.workspace(sess).Hospitals().MarkStale()
	h.shell.flash(c, sess, session.FlashSuccess, msgHospitalCreated)
	c.Redirect(http.StatusSeeOther, hospitalsPath)
}
