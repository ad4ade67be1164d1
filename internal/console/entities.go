package console

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/ppldoc/superadmin-console/internal/events"
	"github.com/ppldoc/superadmin-console/internal/table"
	"github.com/ppldoc/superadmin-console/pkg/hms"
)

// Source lists backend collections. *hms.Client implements it.
type Source interface {
	ListHospitals(ctx context.Context, token string) ([]hms.Hospital, error)
	ListBranches(ctx context.Context, token, hospitalID string) ([]hms.Branch, error)
	ListSuperAdmins(ctx context.Context, token, hospitalID string) ([]hms.SuperAdmin, error)
}

// Action column ids, rendered by templates.
const (
	ColBranches      = "branches"
	ColView          = "view"
	ColEdit          = "edit"
	ColResetPassword = "resetpassword"
	ColToggle        = "action"
)

// DefaultBranchCreator is shown as the creator of a hospital's default branch.
const DefaultBranchCreator = "Super Super Admin"

// createdAt parses backend timestamps so they sort chronologically. Values
// that are not RFC 3339 are kept as text.
func createdAt(raw string) any {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return raw
}

// HospitalsDefinition lists every hospital, newest first.
func HospitalsDefinition(src Source) Definition[hms.Hospital] {
	return Definition[hms.Hospital]{
		Kind: events.KindHospital,
		Columns: []table.Column[hms.Hospital]{
			{ID: "userid", Header: "Hospital Id", Accessor: func(h hms.Hospital) any { return h.ID }, Sortable: true},
			{ID: "name", Header: "Name", Accessor: func(h hms.Hospital) any { return h.Name }, Render: table.Truncate(15, 20), Sortable: true},
			{ID: "email", Header: "Email", Accessor: func(h hms.Hospital) any { return h.Email }, Render: table.Truncate(15, 20), Sortable: true},
			{ID: "createdAt", Header: "Created At", Accessor: func(h hms.Hospital) any { return createdAt(h.CreatedAt) }, Render: table.DateTime, Sortable: true},
			{ID: ColBranches, Header: "Branches"},
			{ID: ColEdit, Header: "Edit"},
			{ID: ColToggle, Header: "Action"},
		},
		CSVHeaders: []table.CSVHeader{
			{Label: "HospitalId", Key: "userid"},
			{Label: "Name", Key: "name"},
			{Label: "Email", Key: "email"},
			{Label: "Creation Date", Key: "createdAt"},
		},
		Filename:    "Hospitals.csv",
		InitialSort: table.SortState{ColumnID: "createdAt", Direction: table.Desc},
		ID:          func(h hms.Hospital) string { return h.ID },
		SetActive:   func(h *hms.Hospital, active bool) { h.IsActive = active },
		Fetch:       src.ListHospitals,
	}
}

// BranchesDefinition lists the branches of one hospital.
func BranchesDefinition(src Source, hospitalID string) Definition[hms.Branch] {
	return Definition[hms.Branch]{
		Kind:     events.KindBranch,
		ParentID: hospitalID,
		Columns: []table.Column[hms.Branch]{
			{ID: "userid", Header: "Branch Id", Accessor: func(b hms.Branch) any { return b.ID }, Sortable: true},
			{ID: "name", Header: "Name", Accessor: func(b hms.Branch) any { return b.Name }, Render: table.Truncate(25, 25), Sortable: true},
			{ID: "email", Header: "Email", Accessor: func(b hms.Branch) any { return b.Email }, Render: table.Truncate(25, 25), Sortable: true},
			{ID: "phone", Header: "Phone", Accessor: func(b hms.Branch) any { return b.Phone }, Sortable: true},
			{ID: "createdAt", Header: "Created At", Accessor: func(b hms.Branch) any { return createdAt(b.CreatedAt) }, Render: table.DateTime, Sortable: true},
			{ID: "isActive", Header: "Status", Accessor: func(b hms.Branch) any { return b.IsActive }, Render: table.ActiveLabel, Sortable: true},
			{ID: ColView, Header: "View"},
		},
		CSVHeaders: []table.CSVHeader{
			{Label: "Branch Id", Key: "userid"},
			{Label: "Name", Key: "name"},
			{Label: "Email", Key: "email"},
			{Label: "phone", Key: "phone"},
			{Label: "isActive", Key: "isActive"},
			{Label: "Creation Date", Key: "createdAt"},
		},
		Filename:  "Branches_" + hospitalID + ".csv",
		ID:        func(b hms.Branch) string { return b.ID },
		SetActive: func(b *hms.Branch, active bool) { b.IsActive = active },
		Fetch: func(ctx context.Context, token string) ([]hms.Branch, error) {
			return src.ListBranches(ctx, token, hospitalID)
		},
	}
}

// SuperAdminsDefinition lists the super-admins of one hospital.
func SuperAdminsDefinition(src Source, hospitalID string) Definition[hms.SuperAdmin] {
	return Definition[hms.SuperAdmin]{
		Kind:     events.KindSuperAdmin,
		ParentID: hospitalID,
		Columns: []table.Column[hms.SuperAdmin]{
			{ID: "userid", Header: "Superadmin Id", Accessor: func(s hms.SuperAdmin) any { return s.ID }, Sortable: true},
			{ID: "name", Header: "Name", Accessor: func(s hms.SuperAdmin) any { return s.Name }, Render: table.Truncate(25, 25), Sortable: true},
			{ID: "email", Header: "Email", Accessor: func(s hms.SuperAdmin) any { return s.Email }, Render: table.Truncate(25, 25), Sortable: true},
			{ID: "phone", Header: "Phone", Accessor: func(s hms.SuperAdmin) any { return s.Phone }, Sortable: true},
			{ID: "isActive", Header: "Status", Accessor: func(s hms.SuperAdmin) any { return s.IsActive }, Render: table.ActiveLabel, Sortable: true},
			{ID: "createdAt", Header: "Created At", Accessor: func(s hms.SuperAdmin) any { return createdAt(s.CreatedAt) }, Render: table.DateTime, Sortable: true},
			{ID: ColView, Header: "View"},
			{ID: ColResetPassword, Header: "Reset Password"},
			{ID: ColEdit, Header: "Edit"},
			{ID: ColToggle, Header: "Action"},
		},
		CSVHeaders: []table.CSVHeader{
			{Label: "Hospital Superadmin Id", Key: "userid"},
			{Label: "Name", Key: "name"},
			{Label: "Email", Key: "email"},
			{Label: "phone", Key: "phone"},
			{Label: "isActive", Key: "isActive"},
			{Label: "Creation Date", Key: "createdAt"},
		},
		Filename:  "SuperAdmins_" + hospitalID + ".csv",
		ID:        func(s hms.SuperAdmin) string { return s.ID },
		SetActive: func(s *hms.SuperAdmin, active bool) { s.IsActive = active },
		Fetch: func(ctx context.Context, token string) ([]hms.SuperAdmin, error) {
			return src.ListSuperAdmins(ctx, token, hospitalID)
		},
	}
}

// BranchCreator is the "created by" line of a branch detail dialog.
func BranchCreator(b hms.Branch) string {
	if b.IsDefault {
		return DefaultBranchCreator
	}
	if b.CreatedBy == nil {
		return ""
	}
	name := b.CreatedBy.Name
	if utf8.RuneCountInString(name) > 45 {
		name = string([]rune(name)[:45]) + "…"
	}
	return name + " , " + b.CreatedBy.ID
}
