package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/console"
	"github.com/ppldoc/superadmin-console/internal/middleware"
	"github.com/ppldoc/superadmin-console/internal/service"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/table"
	"github.com/ppldoc/superadmin-console/internal/utils"
	"github.com/ppldoc/superadmin-console/internal/web"
)

// tableModel loads an adapter if needed and renders the page of it selected
// by query. It returns false after signing the user out.
func tableModel[T any](s *Shell, c *gin.Context, sess *session.Session, a *console.Adapter[T], m web.TableModel, query url.Values) (web.TableModel, bool) {
	m.Query = query
	if err := a.EnsureLoaded(backendCtx(c), sess); err != nil {
		cl := s.classify(err)
		if cl.Outcome == service.OutcomeUnauthenticated {
			s.signOut(c, sess)
			return m, false
		}
		m.Error = cl.Message
	}
	st := table.ParseState(m.Query, m.Prefix, a.DefaultState())
	m.View = a.View(st)
	return m, true
}

// viewState reads the view state of a JSON table request.
func viewState[T any](c *gin.Context, a *console.Adapter[T]) table.State {
	return table.ParseState(c.Request.URL.Query(), "", a.DefaultState())
}

// openModal records an open dialog on the adapter and returns its model.
func openModal[T any](a *console.Adapter[T], tbl string, kind console.ModalKind, id, title string, m web.TableModel) *web.Modal {
	a.Modals().Open(kind, id)
	return &web.Modal{
		Kind:   string(kind),
		Table:  tbl,
		Title:  title,
		Values: map[string]string{},
		Return: m.CloseURL(),
		Close:  m.CloseURL(),
	}
}

// exportCSV sends every loaded row of a as a CSV download.
func exportCSV[T any](s *Shell, c *gin.Context, sess *session.Session, a *console.Adapter[T], rec service.AuditRecorder, resource, parentID, back string) {
	ctx := backendCtx(c)
	if err := a.EnsureLoaded(ctx, sess); err != nil {
		s.fail(c, sess, err, back)
		return
	}
	var buf bytes.Buffer
	n, err := a.ExportCSV(&buf)
	if err != nil {
		s.fail(c, sess, err, back)
		return
	}
	service.RecordExport(ctx, rec, sess, resource, parentID, n)
	c.Header("Content-Disposition", `attachment; filename="`+a.Filename()+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// returnTarget is where a form post sends the browser afterwards, plus the
// query of that page so a failed submit can re-render it.
func returnTarget(c *gin.Context, fallback string) (string, url.Values) {
	ret := web.SafeReturn(c.PostForm("return"), fallback)
	u, err := url.Parse(ret)
	if err != nil {
		return fallback, url.Values{}
	}
	return ret, u.Query()
}

// bindForm decodes a posted form into form. A body that cannot be decoded
// gets 400; empty or malformed fields are left to the form's rules.
func bindForm(c *gin.Context, form any) bool {
	if err := c.ShouldBind(form); err != nil {
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("Invalid form body")
		if middleware.WantsJSON(c) {
			utils.Error(c, http.StatusBadRequest, utils.CodeBadRequest, "Invalid form body")
		} else {
			c.String(http.StatusBadRequest, "Invalid form body")
		}
		return false
	}
	return true
}

// dialogOpen reports whether the dialog a submit belongs to is the one open
// on the adapter. A stale submit is sent back with a notice and never
// reaches the backend.
func dialogOpen[T any](s *Shell, c *gin.Context, sess *session.Session, a *console.Adapter[T], kind console.ModalKind, id, back string) bool {
	if a.Modals().IsOpen(kind, id) {
		return true
	}
	log.Warn().Str("dialog", string(kind)).Str("id", id).Msg("Submit for a dialog that is not open")
	s.flash(c, sess, session.FlashError, msgDialogClosed)
	c.Redirect(http.StatusSeeOther, back)
	return false
}

// postedValues echoes submitted fields back into a re-rendered form.
// Passwords are never echoed.
func postedValues(c *gin.Context) map[string]string {
	out := map[string]string{}
	if err := c.Request.ParseForm(); err != nil {
		return out
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 && k != "password" && k != "confirmPassword" && k != "return" {
			out[k] = v[0]
		}
	}
	return out
}
