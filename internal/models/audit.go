package models

import "time"

// Audit actions.
const (
	AuditLogin         = "login"
	AuditLogout        = "logout"
	AuditCreate        = "create"
	AuditEdit          = "edit"
	AuditEnable        = "enable"
	AuditDisable       = "disable"
	AuditResetPassword = "reset_password"
	AuditExport        = "export"
)

// AuditEvent is one console action performed by a super-admin.
type AuditEvent struct {
	ID         int64     `db:"id" json:"id"`
	SessionID  string    `db:"session_id" json:"sessionId"`
	Actor      string    `db:"actor" json:"actor"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID string    `db:"resource_id" json:"resourceId"`
	Detail     string    `db:"detail" json:"detail"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// AuditFilter narrows an audit listing.
type AuditFilter struct {
	Actor    string
	Resource string
	Limit    int
}
