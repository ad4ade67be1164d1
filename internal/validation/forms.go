package validation

// Login is the sign-in form.
type Login struct {
	Email    string `form:"email" json:"email" validate:"required,email_addr"`
	Password string `form:"password" json:"password" validate:"required,min=5"`
}

func (f *Login) Normalize() { trim(&f.Email, &f.Password) }

func (f *Login) messages() map[string]string {
	return map[string]string{
		"email.required":    "Email is required",
		"email.email_addr":  "Email should be valid",
		"password.required": "Password is required",
		"password.min":      "Password must be at least 5 characters",
	}
}

// AddHospital creates a hospital together with its default branch.
type AddHospital struct {
	Name          string `form:"name" json:"name" validate:"required,max=50"`
	Email         string `form:"email" json:"email" validate:"omitempty,email_addr"`
	BranchName    string `form:"branchName" json:"branchName" validate:"required,max=50"`
	BranchEmail   string `form:"branchEmail" json:"branchEmail" validate:"omitempty,email_addr"`
	BranchPhone   string `form:"branchPhone" json:"branchPhone" validate:"phone10"`
	BranchAddress string `form:"branchAddress" json:"branchAddress" validate:"required"`
}

func (f *AddHospital) Normalize() {
	trim(&f.Name, &f.Email, &f.BranchName, &f.BranchEmail, &f.BranchPhone, &f.BranchAddress)
}

func (f *AddHospital) messages() map[string]string {
	return map[string]string{
		"name.required":          "Name is required",
		"name.max":               "Name must be at most 50 characters",
		"email.email_addr":       "Email should be valid",
		"branchName.required":    "Branch name is required",
		"branchName.max":         "Branch name must be at most 50 characters",
		"branchEmail.email_addr": "Branch email should be valid",
		"branchPhone.phone10":    "Branch phone number should be 10 digits",
		"branchAddress.required": "Branch address is required",
	}
}

// EditHospital changes a hospital's name and email.
type EditHospital struct {
	Name  string `form:"name" json:"name" validate:"required,max=50"`
	Email string `form:"email" json:"email" validate:"omitempty,email_addr"`
}

func (f *EditHospital) Normalize() { trim(&f.Name, &f.Email) }

func (f *EditHospital) messages() map[string]string {
	return map[string]string{
		"name.required":    "Name is required",
		"name.max":         "Name must be at most 50 characters",
		"email.email_addr": "Email should be valid",
	}
}

// AddSuperAdmin creates a super-admin for a hospital.
type AddSuperAdmin struct {
	Name            string `form:"name" json:"name" validate:"required,max=50"`
	Email           string `form:"email" json:"email" validate:"omitempty,email_addr"`
	Phone           string `form:"phone" json:"phone" validate:"phone10"`
	Password        string `form:"password" json:"password" validate:"required,min=5"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (f *AddSuperAdmin) Normalize() {
	trim(&f.Name, &f.Email, &f.Phone, &f.Password, &f.ConfirmPassword)
}

func (f *AddSuperAdmin) messages() map[string]string {
	return withPasswordMessages(map[string]string{
		"name.required":    "Superadmin name is required",
		"name.max":         "Superadmin name must be at most 50 characters",
		"email.email_addr": "Email should be valid",
		"phone.phone10":    "Phone number should be 10 digits",
	})
}

// EditSuperAdmin changes a super-admin's contact details.
type EditSuperAdmin struct {
	Name  string `form:"name" json:"name" validate:"required,max=50"`
	Email string `form:"email" json:"email" validate:"omitempty,email_addr"`
	Phone string `form:"phone" json:"phone" validate:"phone10"`
}

func (f *EditSuperAdmin) Normalize() { trim(&f.Name, &f.Email, &f.Phone) }

func (f *EditSuperAdmin) messages() map[string]string {
	return map[string]string{
		"name.required":    "Superadmin name is required",
		"name.max":         "Superadmin name must be at most 50 characters",
		"email.email_addr": "Email should be valid",
		"phone.phone10":    "Phone number should be 10 digits",
	}
}

// ResetPassword sets a new password for a super-admin.
type ResetPassword struct {
	Password        string `form:"password" json:"password" validate:"required,min=5"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (f *ResetPassword) Normalize() { trim(&f.Password, &f.ConfirmPassword) }

func (f *ResetPassword) messages() map[string]string {
	return withPasswordMessages(map[string]string{})
}

func withPasswordMessages(m map[string]string) map[string]string {
	m["password.required"] = "Password is required"
	m["password.min"] = "Password must be atleast 5 characters"
	m["confirmPassword.required"] = "Confirm password is required"
	m["confirmPassword.eqfield"] = "Confirm password should match with password"
	return m
}
