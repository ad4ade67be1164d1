package service

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/models"
	"github.com/ppldoc/superadmin-console/internal/session"
)

// AuditRecorder persists console actions.
type AuditRecorder interface {
	Record(ctx context.Context, ev *models.AuditEvent) error
}

// NopRecorder is used when no database is configured.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, *models.AuditEvent) error { return nil }

// audit records an action. Failures are logged and never fail the caller.
func audit(ctx context.Context, rec AuditRecorder, sess *session.Session, action, resource, id, detail string) {
	if rec == nil {
		return
	}
	ev := &models.AuditEvent{
		Action:     action,
		Resource:   resource,
		ResourceID: id,
		Detail:     detail,
	}
	if sess != nil {
		ev.SessionID = sess.ID
		if sess.Profile != nil {
			ev.Actor = sess.Profile.Email
		}
	}
	if err := rec.Record(ctx, ev); err != nil {
		log.Warn().Err(err).Str("action", action).Str("resource", resource).Msg("Failed to record audit event")
	}
}

// RecordExport audits a CSV download.
func RecordExport(ctx context.Context, rec AuditRecorder, sess *session.Session, resource, parentID string, rows int) {
	audit(ctx, rec, sess, models.AuditExport, resource, parentID, strconv.Itoa(rows)+" rows")
}

func tokenOf(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Token
}

func originOf(sess *session.Session) string {
	if sess == nil {
		return ""
	}
	return sess.ID
}
