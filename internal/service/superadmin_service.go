package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ppldoc/superadmin-console/internal/events"
	"github.com/ppldoc/superadmin-console/internal/models"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/validation"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

// SuperAdminService runs the hospital super-admin forms against the backend.
type SuperAdminService struct {
	client *hms.Client
	bus    events.Publisher
	audit  AuditRecorder
}

// NewSuperAdminService constructs a new SuperAdminService.
func NewSuperAdminService(client *hms.Client, bus events.Publisher, rec AuditRecorder) *SuperAdminService {
	return &SuperAdminService{client: client, bus: bus, audit: rec}
}

// Add creates a super-admin for hospitalID.
func (s *SuperAdminService) Add(ctx context.Context, sess *session.Session, hospitalID string, form *validation.AddSuperAdmin) error {
	if errs := validation.Check(form); errs != nil {
		return &ValidationError{Errors: errs}
	}

	req := hms.AddSuperAdminRequest{
		Name:               form.Name,
		Email:              form.Email,
		Phone:              form.Phone,
		Password:           form.Password,
		ConfirmPassword:    form.ConfirmPassword,
		AssociatedHospital: hospitalID,
	}
	if err := s.client.AddSuperAdmin(ctx, tokenOf(sess), req); err != nil {
		return asConflict(err, superAdminAddConflicts)
	}

	log.Info().Str("hospital_id", hospitalID).Msg("Hospital super admin created")
	audit(ctx, s.audit, sess, models.AuditCreate, string(events.KindSuperAdmin), hospitalID, req.Name)
	s.bus.Publish(events.ResourceChanged{
		Kind:     events.KindSuperAdmin,
		ParentID: hospitalID,
		Action:   events.ActionCreated,
		Origin:   originOf(sess),
	})
	return nil
}

// Get fetches a super-admin for the edit form.
func (s *SuperAdminService) Get(ctx context.Context, sess *session.Session, id string) (*hms.SuperAdmin, error) {
	return s.client.GetSuperAdmin(ctx, tokenOf(sess), id)
}

// Edit updates a super-admin of hospitalID and returns the accepted fields.
func (s *SuperAdminService) Edit(ctx context.Context, sess *session.Session, hospitalID, id string, form *validation.EditSuperAdmin) (hms.EditSuperAdminRequest, error) {
	if errs := validation.Check(form); errs != nil {
		return hms.EditSuperAdminRequest{}, &ValidationError{Errors: errs}
	}

	req := hms.EditSuperAdminRequest{Name: form.Name, Email: form.Email, Phone: form.Phone}
	if err := s.client.EditSuperAdmin(ctx, tokenOf(sess), id, req); err != nil {
		return hms.EditSuperAdminRequest{}, asConflict(err, superAdminEditConflicts)
	}

	log.Info().Str("superadmin_id", id).Msg("Hospital super admin updated")
	audit(ctx, s.audit, sess, models.AuditEdit, string(events.KindSuperAdmin), id, req.Name)
	s.bus.Publish(events.ResourceChanged{
		Kind:     events.KindSuperAdmin,
		ParentID: hospitalID,
		ID:       id,
		Action:   events.ActionUpdated,
		Origin:   originOf(sess),
	})
	return req, nil
}

// ResetPassword sets a new password. The password is never stored or logged
// by the console.
func (s *SuperAdminService) ResetPassword(ctx context.Context, sess *session.Session, id string, form *validation.ResetPassword) error {
	if errs := validation.Check(form); errs != nil {
		return &ValidationError{Errors: errs}
	}

	req := hms.ResetPasswordRequest{Password: form.Password, ConfirmPassword: form.ConfirmPassword}
	if err := s.client.ResetSuperAdminPassword(ctx, tokenOf(sess), id, req); err != nil {
		return err
	}

	log.Info().Str("superadmin_id", id).Msg("Hospital super admin password reset")
	audit(ctx, s.audit, sess, models.AuditResetPassword, string(events.KindSuperAdmin), id, "")
	return nil
}

// SetActive is declared for super-admins but the backend has no endpoint
// for it yet.
func (s *SuperAdminService) SetActive(ctx context.Context, sess *session.Session, id string, active bool) error {
	log.Debug().Str("superadmin_id", id).Bool("active", active).Msg("Super admin status change requested")
	return ErrNotImplemented
}
