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

// HospitalService runs the hospital forms against the backend.
type HospitalService struct {
	client *hms.Client
	bus    events.Publisher
	audit  AuditRecorder
}

// NewHospitalService constructs a new HospitalService.
func NewHospitalService(client *hms.Client, bus events.Publisher, rec AuditRecorder) *HospitalService {
	return &HospitalService{client: client, bus: bus, audit: rec}
}

// Add registers a hospital together with its default branch.
func (s *HospitalService) Add(ctx context.Context, sess *session.Session, form *validation.AddHospital) error {
	if errs := validation.Check(form); errs != nil {
		return &ValidationError{Errors: errs}
	}

	req := hms.AddHospitalRequest{
		Name:          form.Name,
		Email:         form.Email,
		BranchName:    form.BranchName,
		BranchEmail:   form.BranchEmail,
		BranchPhone:   form.BranchPhone,
		BranchAddress: form.BranchAddress,
	}
	if err := s.client.AddHospital(ctx, tokenOf(sess), req); err != nil {
		return asConflict(err, hospitalConflicts)
	}

	log.Info().Str("name", req.Name).Msg("Hospital created")
	audit(ctx, s.audit, sess, models.AuditCreate, string(events.KindHospital), "", req.Name)
	s.bus.Publish(events.ResourceChanged{Kind: events.KindHospital, Action: events.ActionCreated, Origin: originOf(sess)})
	return nil
}

// Get fetches a hospital for the edit form.
func (s *HospitalService) Get(ctx context.Context, sess *session.Session, id string) (*hms.Hospital, error) {
	return s.client.GetHospital(ctx, tokenOf(sess), id)
}

// Edit updates a hospital and returns the fields the backend accepted so the
// caller can patch its rows.
func (s *HospitalService) Edit(ctx context.Context, sess *session.Session, id string, form *validation.EditHospital) (hms.EditHospitalRequest, error) {
	if errs := validation.Check(form); errs != nil {
		return hms.EditHospitalRequest{}, &ValidationError{Errors: errs}
	}

	req := hms.EditHospitalRequest{Name: form.Name, Email: form.Email}
	if err := s.client.EditHospital(ctx, tokenOf(sess), id, req); err != nil {
		return hms.EditHospitalRequest{}, asConflict(err, hospitalConflicts)
	}

	log.Info().Str("hospital_id", id).Msg("Hospital updated")
	audit(ctx, s.audit, sess, models.AuditEdit, string(events.KindHospital), id, req.Name)
	s.bus.Publish(events.ResourceChanged{Kind: events.KindHospital, ID: id, Action: events.ActionUpdated, Origin: originOf(sess)})
	return req, nil
}

// SetActive enables or disables a hospital.
func (s *HospitalService) SetActive(ctx context.Context, sess *session.Session, id string, active bool) error {
	if err := s.client.SetHospitalActive(ctx, tokenOf(sess), id, active); err != nil {
		return err
	}

	action, auditAction := events.ActionDisabled, models.AuditDisable
	if active {
		action, auditAction = events.ActionEnabled, models.AuditEnable
	}
	log.Info().Str("hospital_id", id).Bool("active", active).Msg("Hospital status changed")
	audit(ctx, s.audit, sess, auditAction, string(events.KindHospital), id, "")
	s.bus.Publish(events.ResourceChanged{Kind: events.KindHospital, ID: id, Action: action, Origin: originOf(sess)})
	return nil
}
