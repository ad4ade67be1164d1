package hms

// Envelope is the uniform response shape of the hospital backend.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Msg     string `json:"msg,omitempty"`
	// Token is only set by the login endpoint.
	Token string `json:"token,omitempty"`
}

// Profile is the logged-in super-admin.
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Hospital is a tenant of the platform.
type Hospital struct {
	ID        string `json:"userid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	IsActive  bool   `json:"isActive"`
}

// Creator identifies who created a branch.
type Creator struct {
	ID   string `json:"userid"`
	Name string `json:"name"`
}

// Branch belongs to exactly one hospital. The console never edits branches.
type Branch struct {
	ID        string   `json:"userid"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	CreatedAt string   `json:"createdAt"`
	IsActive  bool     `json:"isActive"`
	IsDefault bool     `json:"isdefault"`
	CreatedBy *Creator `json:"createdBy,omitempty"`
}

// SuperAdmin is a per-hospital administrator account.
type SuperAdmin struct {
	ID        string `json:"userid"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`
	IsActive  bool   `json:"isActive"`
}

// LoginRequest is the body of the login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddHospitalRequest registers a hospital together with its default branch.
type AddHospitalRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	BranchName    string `json:"branchName"`
	BranchEmail   string `json:"branchEmail"`
	BranchPhone   string `json:"branchPhone"`
	BranchAddress string `json:"branchAddress"`
}

// EditHospitalRequest carries the fields owned by the edit-hospital form.
type EditHospitalRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AddSuperAdminRequest creates a super-admin for AssociatedHospital.
type AddSuperAdminRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Password           string `json:"password"`
	ConfirmPassword    string `json:"confirmpassword"`
	AssociatedHospital string `json:"associatedHospital"`
}

// EditSuperAdminRequest carries the fields owned by the edit-super-admin form.
type EditSuperAdminRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ResetPasswordRequest sets a new password for a super-admin.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmpassword"`
}
