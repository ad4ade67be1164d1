package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ppldoc/superadmin-console/internal/config"
	"github.com/ppldoc/superadmin-console/internal/events"
	"github.com/ppldoc/superadmin-console/internal/models"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/validation"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

type backend struct {
	mu       sync.Mutex
	status   int
	response string
	paths    []string
	bodies   []map[string]any
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paths = append(b.paths, r.Method+" "+r.URL.Path)
	var body map[string]any
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	b.bodies = append(b.bodies, body)
	w.WriteHeader(b.status)
	_, _ = io.WriteString(w, b.response)
}

func (b *backend) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.paths)
}

func newBackend(t *testing.T, status int, response string) (*hms.Client, *backend) {
	t.Helper()
	b := &backend{status: status, response: response}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return hms.NewClient(hms.Config{BaseURL: srv.URL}), b
}

type recorderMock struct {
	mock.Mock
}

func (m *recorderMock) Record(ctx context.Context, ev *models.AuditEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type capture struct {
	events []events.ResourceChanged
}

func (c *capture) Publish(ev events.ResourceChanged) { c.events = append(c.events, ev) }

var rootSession = &session.Session{ID: "sess_1", Token: "tok", Profile: &hms.Profile{Email: "root@ppldoc.com"}}

func TestEditHospital_EmptyNameSendsNothing(t *testing.T) {
	client, b := newBackend(t, http.StatusOK, `{"success":true}`)
	svc := NewHospitalService(client, events.NopPublisher{}, NopRecorder{})

	_, err := svc.Edit(context.Background(), rootSession, "h1", &validation.EditHospital{Name: ""})

	c := Classify(err, config.FailurePolicyLogout)
	assert.Equal(t, OutcomeValidation, c.Outcome)
	assert.Equal(t, "Name is required", c.Fields["name"])
	assert.Equal(t, 0, b.calls())
}

func TestEditHospital_SuccessPublishesAndAudits(t *testing.T) {
	client, b := newBackend(t, http.StatusOK, `{"success":true,"msg":"Hospital updated"}`)
	bus := &capture{}
	rec := &recorderMock{}
	rec.On("Record", mock.Anything, mock.MatchedBy(func(ev *models.AuditEvent) bool {
		return ev.Action == models.AuditEdit && ev.ResourceID == "h1" && ev.Actor == "root@ppldoc.com"
	})).Return(nil).Once()
	svc := NewHospitalService(client, bus, rec)

	got, err := svc.Edit(context.Background(), rootSession, "h1", &validation.EditHospital{Name: " City Care ", Email: "care@city.com"})

	require.NoError(t, err)
	assert.Equal(t, "City Care", got.Name)
	assert.Equal(t, []string{"PUT /api/v1/superadmin/edithospital/h1"}, b.paths)
	assert.Equal(t, "City Care", b.bodies[0]["name"])
	require.Len(t, bus.events, 1)
	assert.Equal(t, events.ResourceChanged{Kind: events.KindHospital, ID: "h1", Action: events.ActionUpdated, Origin: "sess_1"}, bus.events[0])
	rec.AssertExpectations(t)
}

func TestEditHospital_EmailInUseIsConflict(t *testing.T) {
	client, _ := newBackend(t, http.StatusConflict, `{"success":false,"msg":"Email is already in use by another hospital."}`)
	bus := &capture{}
	svc := NewHospitalService(client, bus, NopRecorder{})

	_, err := svc.Edit(context.Background(), rootSession, "h1", &validation.EditHospital{Name: "A"})

	c := Classify(err, config.FailurePolicyLogout)
	assert.Equal(t, OutcomeConflict, c.Outcome)
	assert.Equal(t, "Hospital with this email already exists.", c.Message)
	assert.Empty(t, bus.events)
}

func TestAddHospital_Conflicts(t *testing.T) {
	cases := map[string]string{
		"Hospital with this email already exists.":        "Hospital with this email already exists.",
		"Hospital branch with this email already exists.": "Branch with this email already exists.",
	}
	form := func() *validation.AddHospital {
		return &validation.AddHospital{Name: "General", BranchName: "Main", BranchPhone: "9876543210", BranchAddress: "Road 1"}
	}
	for msg, notice := range cases {
		client, _ := newBackend(t, http.StatusOK, `{"success":false,"msg":"`+msg+`"}`)
		svc := NewHospitalService(client, events.NopPublisher{}, NopRecorder{})

		err := svc.Add(context.Background(), rootSession, form())

		var cerr *ConflictError
		require.ErrorAs(t, err, &cerr, msg)
		assert.Equal(t, notice, cerr.Notice)
	}
}

func TestAddHospital_UnknownFailureFollowsPolicy(t *testing.T) {
	client, _ := newBackend(t, http.StatusOK, `{"success":false,"msg":"Database unavailable"}`)
	svc := NewHospitalService(client, events.NopPublisher{}, NopRecorder{})

	err := svc.Add(context.Background(), rootSession, &validation.AddHospital{
		Name: "General", BranchName: "Main", BranchPhone: "9876543210", BranchAddress: "Road 1",
	})

	assert.Equal(t, OutcomeUnauthenticated, Classify(err, config.FailurePolicyLogout).Outcome)
	c := Classify(err, config.FailurePolicyTransient)
	assert.Equal(t, OutcomeTransient, c.Outcome)
	assert.Equal(t, MsgRetry, c.Message)
}

func TestSetHospitalActive(t *testing.T) {
	client, b := newBackend(t, http.StatusOK, `{"success":true}`)
	bus := &capture{}
	svc := NewHospitalService(client, bus, NopRecorder{})

	require.NoError(t, svc.SetActive(context.Background(), rootSession, "h9", false))

	assert.Equal(t, []string{"PUT /api/v1/superadmin/disablehospital/h9"}, b.paths)
	assert.Equal(t, events.ActionDisabled, bus.events[0].Action)
}

func TestSuperAdmin_ConflictTextsDependOnForm(t *testing.T) {
	client, _ := newBackend(t, http.StatusOK, `{"success":false,"msg":"Super Admin with this email already exists."}`)
	svc := NewSuperAdminService(client, events.NopPublisher{}, NopRecorder{})

	err := svc.Add(context.Background(), rootSession, "h1", &validation.AddSuperAdmin{
		Name: "Asha", Phone: "9876543210", Password: "secret", ConfirmPassword: "secret",
	})
	assert.Equal(t, "Super Admin with this email already exists.", Classify(err, config.FailurePolicyLogout).Message)

	_, err = svc.Edit(context.Background(), rootSession, "h1", "sa1", &validation.EditSuperAdmin{Name: "Asha", Phone: "9876543210"})
	assert.Equal(t, "Hospital Super Admin with this email already exists.", Classify(err, config.FailurePolicyLogout).Message)
}

func TestSuperAdmin_PhoneConflictVariants(t *testing.T) {
	for _, msg := range []string{hms.MsgSuperAdminPhoneExists, hms.MsgSuperAdminPhoneNumberExists} {
		client, _ := newBackend(t, http.StatusOK, `{"success":false,"msg":"`+msg+`"}`)
		svc := NewSuperAdminService(client, events.NopPublisher{}, NopRecorder{})

		err := svc.Add(context.Background(), rootSession, "h1", &validation.AddSuperAdmin{
			Name: "Asha", Phone: "9876543210", Password: "secret", ConfirmPassword: "secret",
		})
		assert.Equal(t, "Super Admin with this phone number already exists.", Classify(err, config.FailurePolicyLogout).Message)
	}
}

func TestSuperAdmin_AddSendsAssociatedHospital(t *testing.T) {
	client, b := newBackend(t, http.StatusOK, `{"success":true}`)
	bus := &capture{}
	svc := NewSuperAdminService(client, bus, NopRecorder{})

	err := svc.Add(context.Background(), rootSession, "h7", &validation.AddSuperAdmin{
		Name: "Asha", Email: "asha@care.in", Phone: "9876543210", Password: "secret", ConfirmPassword: "secret",
	})

	require.NoError(t, err)
	assert.Equal(t, "h7", b.bodies[0]["associatedHospital"])
	assert.Equal(t, "secret", b.bodies[0]["confirmpassword"])
	assert.Equal(t, events.ResourceChanged{Kind: events.KindSuperAdmin, ParentID: "h7", Action: events.ActionCreated, Origin: "sess_1"}, bus.events[0])
}

func TestSuperAdmin_SetActiveNotImplemented(t *testing.T) {
	client, b := newBackend(t, http.StatusOK, `{"success":true}`)
	svc := NewSuperAdminService(client, events.NopPublisher{}, NopRecorder{})

	err := svc.SetActive(context.Background(), rootSession, "sa1", true)

	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, OutcomeNotImplemented, Classify(err, config.FailurePolicyLogout).Outcome)
	assert.Equal(t, 0, b.calls())
}

func TestSuperAdmin_ResetPassword(t *testing.T) {
	client, b := newBackend(t, http.StatusOK, `{"success":true}`)
	svc := NewSuperAdminService(client, events.NopPublisher{}, NopRecorder{})

	err := svc.ResetPassword(context.Background(), rootSession, "sa1", &validation.ResetPassword{Password: "abc", ConfirmPassword: "abc"})
	assert.Equal(t, OutcomeValidation, Classify(err, config.FailurePolicyLogout).Outcome)
	assert.Equal(t, 0, b.calls())

	err = svc.ResetPassword(context.Background(), rootSession, "sa1", &validation.ResetPassword{Password: "abcde", ConfirmPassword: "abcde"})
	require.NoError(t, err)
	assert.Equal(t, []string{"PUT /api/v1/superadmin/resethospitalsuperadminpassword/sa1"}, b.paths)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeOK, Classify(nil, config.FailurePolicyLogout).Outcome)
	assert.Equal(t, OutcomeUnauthenticated, Classify(hms.ErrMissingToken, config.FailurePolicyTransient).Outcome)
	assert.Equal(t, OutcomeUnauthenticated, Classify(session.ErrNotFound, config.FailurePolicyTransient).Outcome)

	wrapped := errors.Join(errors.New("list hospitals"), hms.ErrUnauthorized)
	assert.Equal(t, OutcomeUnauthenticated, Classify(wrapped, config.FailurePolicyTransient).Outcome)

	c := Classify(errors.New("dial tcp: connection refused"), config.FailurePolicyLogout)
	assert.Equal(t, OutcomeTransient, c.Outcome)
	assert.Equal(t, MsgUnreachable, c.Message)
}
