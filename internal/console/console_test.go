package console

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/ppldoc/superadmin-console/internal/config"
	"github.com/ppldoc/superadmin-console/internal/events"
	"github.com/ppldoc/superadmin-console/internal/session"
	"github.com/ppldoc/superadmin-console/internal/table"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

type fakeSource struct {
	mu          sync.Mutex
	hospitals   []hms.Hospital
	branches    []hms.Branch
	superAdmins []hms.SuperAdmin
	err         error
	calls       int
}

func (f *fakeSource) ListHospitals(_ context.Context, token string) ([]hms.Hospital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]hms.Hospital, len(f.hospitals))
	copy(out, f.hospitals)
	return out, nil
}

func (f *fakeSource) ListBranches(_ context.Context, _, _ string) ([]hms.Branch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.branches, f.err
}

func (f *fakeSource) ListSuperAdmins(_ context.Context, _, _ string) ([]hms.SuperAdmin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.superAdmins, f.err
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func hospitals(n int) []hms.Hospital {
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	out := make([]hms.Hospital, n)
	for i := range out {
		out[i] = hms.Hospital{
			ID:        fmt.Sprintf("h%02d", i),
			Name:      fmt.Sprintf("City Care %02d", i),
			Email:     fmt.Sprintf("care%02d@city.com", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
			IsActive:  true,
		}
	}
	return out
}

var authed = &session.Session{ID: "sess_a", Token: "tok"}

type AdapterSuite struct {
	suite.Suite
	src *fakeSource
	ctx context.Context
}

func (s *AdapterSuite) SetupTest() {
	s.src = &fakeSource{hospitals: hospitals(20)}
	s.ctx = context.Background()
}

func (s *AdapterSuite) newHospitals(policy string) *Adapter[hms.Hospital] {
	return NewAdapter(HospitalsDefinition(s.src), 8, policy)
}

func (s *AdapterSuite) TestLoad_NewestFirst() {
	a := s.newHospitals(config.FailurePolicyLogout)

	s.Require().NoError(a.Load(s.ctx, authed))

	state, err := a.State()
	s.Equal(Ready, state)
	s.NoError(err)
	v := a.table.View(a.def.ID)
	s.Equal("h19", v.Rows[0].Key)
	s.Equal(3, v.TotalPages)
}

func (s *AdapterSuite) TestLoad_NoTokenSkipsBackend() {
	a := s.newHospitals(config.FailurePolicyLogout)

	err := a.Load(s.ctx, &session.Session{ID: "x"})

	s.ErrorIs(err, ErrUnauthenticated)
	state, _ := a.State()
	s.Equal(Unauthenticated, state)
	s.Equal(0, s.src.callCount())

	s.ErrorIs(a.Load(s.ctx, authed), ErrUnauthenticated)
	s.Equal(0, s.src.callCount())
}

func (s *AdapterSuite) TestLoad_ServerFailureFollowsPolicy() {
	s.src.err = &hms.APIError{StatusCode: 500, Message: "boom"}

	logout := s.newHospitals(config.FailurePolicyLogout)
	s.ErrorIs(logout.Load(s.ctx, authed), ErrUnauthenticated)

	transient := s.newHospitals(config.FailurePolicyTransient)
	err := transient.Load(s.ctx, authed)
	s.Error(err)
	s.NotErrorIs(err, ErrUnauthenticated)
	state, lastErr := transient.State()
	s.Equal(Loading, state)
	s.Error(lastErr)

	s.src.err = nil
	s.NoError(transient.EnsureLoaded(s.ctx, authed))
	state, _ = transient.State()
	s.Equal(Ready, state)
}

func (s *AdapterSuite) TestReload_KeepsViewState() {
	a := s.newHospitals(config.FailurePolicyLogout)
	s.Require().NoError(a.Load(s.ctx, authed))
	a.View(table.State{Filter: "care", Sort: table.SortState{ColumnID: "name", Direction: table.Asc}, Page: 0})
	a.View(table.State{Filter: "care", Sort: table.SortState{ColumnID: "name", Direction: table.Asc}, Page: 2})

	s.src.hospitals = append(s.src.hospitals, hms.Hospital{ID: "h99", Name: "Zeta Care", CreatedAt: "2024-05-01T00:00:00Z"})
	a.MarkStale()
	s.Require().NoError(a.EnsureLoaded(s.ctx, authed))

	v := a.table.View(a.def.ID)
	s.Equal("care", v.Filter)
	s.Equal(table.SortState{ColumnID: "name", Direction: table.Asc}, v.Sort)
	s.Equal(2, v.Page)
	s.Equal(21, v.Total)
	s.Equal(2, s.src.callCount())
}

func (s *AdapterSuite) TestPatchActive_NoRefetch() {
	a := s.newHospitals(config.FailurePolicyLogout)
	s.Require().NoError(a.Load(s.ctx, authed))

	s.Require().NoError(a.PatchActive("h05", false))

	h, ok := a.Find("h05")
	s.True(ok)
	s.False(h.IsActive)
	other, _ := a.Find("h06")
	s.True(other.IsActive)
	s.Equal(1, s.src.callCount())
	s.ErrorIs(a.PatchActive("missing", false), ErrRowNotFound)
}

func (s *AdapterSuite) TestPatchFields_OnlyEditedFields() {
	a := s.newHospitals(config.FailurePolicyLogout)
	s.Require().NoError(a.Load(s.ctx, authed))

	s.Require().NoError(a.PatchFields("h02", func(h *hms.Hospital) {
		h.Name, h.Email = "Renamed", "new@city.com"
	}))

	h, _ := a.Find("h02")
	s.Equal("Renamed", h.Name)
	s.True(h.IsActive)
	s.Equal(hospitals(3)[2].CreatedAt, h.CreatedAt)
}

func (s *AdapterSuite) TestExportCSV() {
	a := s.newHospitals(config.FailurePolicyLogout)
	var buf bytes.Buffer
	_, err := a.ExportCSV(&buf)
	s.ErrorIs(err, ErrNotReady)

	s.Require().NoError(a.Load(s.ctx, authed))
	a.View(table.State{Filter: "h01"})
	n, err := a.ExportCSV(&buf)
	s.NoError(err)
	s.Equal(20, n)
	s.Contains(buf.String(), "HospitalId,Name,Email,Creation Date\n")
}

func (s *AdapterSuite) TestClose_DiscardsLateResult() {
	release := make(chan struct{})
	started := make(chan struct{})
	def := HospitalsDefinition(s.src)
	def.Fetch = func(ctx context.Context, token string) ([]hms.Hospital, error) {
		close(started)
		<-release
		return hospitals(3), nil
	}
	a := NewAdapter(def, 8, config.FailurePolicyLogout)

	done := make(chan error)
	go func() { done <- a.Load(s.ctx, authed) }()
	<-started
	a.Close()
	close(release)

	s.ErrorIs(<-done, ErrClosed)
	state, _ := a.State()
	s.Equal(Loading, state)
	s.Equal(0, a.table.View(a.def.ID).Total)
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterSuite))
}

func TestHospitals_GenFilterScenario(t *testing.T) {
	rows := hospitals(20)
	rows[4].Name = "General Medical"
	rows[9].Name = "Gentle Hands"
	rows[15].Email = "info@regency.in"
	a := NewAdapter(HospitalsDefinition(&fakeSource{hospitals: rows}), 8, config.FailurePolicyLogout)
	require.NoError(t, a.Load(context.Background(), authed))

	v := a.View(table.State{Filter: "gen", Sort: a.DefaultState().Sort, Page: 2})

	assert.Len(t, v.Rows, 3)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 0, v.Page)
}

func TestHospitals_TruncatedDisplay(t *testing.T) {
	rows := []hms.Hospital{{ID: "h1", Name: "Saint Bartholomew Hospital", Email: "short@x.com", CreatedAt: "not-a-date"}}
	a := NewAdapter(HospitalsDefinition(&fakeSource{hospitals: rows}), 8, config.FailurePolicyLogout)
	require.NoError(t, a.Load(context.Background(), authed))

	row := a.table.View(a.def.ID).Rows[0]
	assert.Equal(t, "Saint Bartholom...", row.Cell("name").Text)
	assert.Equal(t, "Saint Bartholomew Hospital", row.Cell("name").Title)
	assert.Equal(t, "short@x.com", row.Cell("email").Text)
	assert.Equal(t, "not-a-date", row.Cell("createdAt").Text)
	assert.True(t, row.Cell(ColEdit).Action)
}

func TestBranchCreator(t *testing.T) {
	assert.Equal(t, DefaultBranchCreator, BranchCreator(hms.Branch{IsDefault: true, CreatedBy: &hms.Creator{ID: "u1", Name: "Asha"}}))
	assert.Equal(t, "Asha , u1", BranchCreator(hms.Branch{CreatedBy: &hms.Creator{ID: "u1", Name: "Asha"}}))
	assert.Equal(t, "", BranchCreator(hms.Branch{}))
}

func TestWorkspace_EventsMarkMatchingTablesStale(t *testing.T) {
	src := &fakeSource{hospitals: hospitals(2), superAdmins: []hms.SuperAdmin{{ID: "sa1"}}}
	m := NewManager(src, 8, config.FailurePolicyLogout)
	bus := events.NewBus()
	defer m.Attach(bus)()

	mine := m.Workspace("sess_a")
	theirs := m.Workspace("sess_b")
	for _, w := range []*Workspace{mine, theirs} {
		require.NoError(t, w.SuperAdmins("h1").Load(context.Background(), authed))
		require.NoError(t, w.SuperAdmins("h2").Load(context.Background(), authed))
	}

	bus.Publish(events.ResourceChanged{Kind: events.KindSuperAdmin, ParentID: "h1", Action: events.ActionCreated, Origin: "sess_a"})

	assert.False(t, mine.SuperAdmins("h1").Stale())
	assert.True(t, theirs.SuperAdmins("h1").Stale())
	assert.False(t, theirs.SuperAdmins("h2").Stale())
}

func TestManager_CloseAndSweep(t *testing.T) {
	m := NewManager(&fakeSource{hospitals: hospitals(1)}, 8, config.FailurePolicyLogout)

	a := m.Workspace("s1").Hospitals()
	m.Workspace("s2")
	assert.Equal(t, 2, m.Count())

	m.Close("s1")
	assert.ErrorIs(t, a.Load(context.Background(), authed), ErrClosed)
	assert.Equal(t, 1, m.Count())

	assert.Equal(t, 0, m.Sweep(time.Hour))
	assert.Equal(t, 1, m.Sweep(-time.Second))
	assert.Equal(t, 0, m.Count())
}

func TestWorkspace_SameAdapterPerKey(t *testing.T) {
	m := NewManager(&fakeSource{}, 8, config.FailurePolicyLogout)
	w := m.Workspace("s1")

	assert.Same(t, w.Branches("h1"), w.Branches("h1"))
	assert.NotSame(t, w.Branches("h1"), w.Branches("h2"))
	assert.Len(t, w.adapters, 2)

	w.Close()
	assert.Empty(t, w.adapters)
	assert.ErrorIs(t, w.Hospitals().Load(context.Background(), authed), ErrClosed)
}

func TestModalState_OnePerKind(t *testing.T) {
	var m ModalState
	m.Open(ModalEdit, "h1")
	m.Open(ModalEdit, "h2")
	m.Open(ModalView, "h1")

	id, ok := m.Current(ModalEdit)
	assert.True(t, ok)
	assert.Equal(t, "h2", id)
	assert.True(t, m.IsOpen(ModalView, "h1"))

	m.Close(ModalEdit)
	_, ok = m.Current(ModalEdit)
	assert.False(t, ok)

	_, ok = ParseModalKind("delete")
	assert.False(t, ok)
}

func TestLoad_UnauthorizedIsTerminal(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("list: %w", hms.ErrUnauthorized)}
	a := NewAdapter(HospitalsDefinition(src), 8, config.FailurePolicyTransient)

	err := a.Load(context.Background(), authed)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}
