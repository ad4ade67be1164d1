package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ppldoc/superadmin-console/internal/models"
)

// AuditRepository provides access to the audit_events table.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts an audit event and fills its id and creation time.
func (r *AuditRepository) Record(ctx context.Context, ev *models.AuditEvent) error {
	const q = `
		INSERT INTO audit_events (
			session_id, actor, action, resource, resource_id, detail, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW()
		) RETURNING id, created_at`
	return r.db.QueryRowxContext(ctx, q,
		ev.SessionID,
		ev.Actor,
		ev.Action,
		ev.Resource,
		ev.ResourceID,
		ev.Detail,
	).Scan(&ev.ID, &ev.CreatedAt)
}

// List returns the most recent events matching f, newest first.
func (r *AuditRepository) List(ctx context.Context, f models.AuditFilter) ([]models.AuditEvent, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `
		SELECT id, session_id, actor, action, resource, resource_id, detail, created_at
		FROM audit_events
		WHERE ($1 = '' OR actor = $1) AND ($2 = '' OR resource = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3`
	events := []models.AuditEvent{}
	if err := r.db.SelectContext(ctx, &events, q, f.Actor, f.Resource, limit); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteOlderThan removes events created before cutoff and returns how many
// rows were deleted.
func (r *AuditRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_events WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
