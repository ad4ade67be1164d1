package hms

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches every response where the backend rejected the token
// (HTTP 401 or 403).
var ErrUnauthorized = errors.New("hms: unauthorized")

// ErrMissingToken is returned before any network call when an authenticated
// operation is attempted without a token.
var ErrMissingToken = errors.New("hms: missing bearer token")

// APIError is a response the backend marked unsuccessful.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("hms: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("hms: %s (status %d)", e.Message, e.StatusCode)
}

// Is makes 401 and 403 responses match ErrUnauthorized.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// Messages the backend returns for known business conflicts.
const (
	MsgHospitalEmailExists         = "Hospital with this email already exists."
	MsgBranchEmailExists           = "Hospital branch with this email already exists."
	MsgHospitalEmailInUse          = "Email is already in use by another hospital."
	MsgSuperAdminEmailPhoneExists  = "Super Admin with this email and phone number already exists."
	MsgSuperAdminEmailExists       = "Super Admin with this email already exists."
	MsgSuperAdminPhoneExists       = "Super Admin with this phone already exists."
	MsgSuperAdminPhoneNumberExists = "Super Admin with this phone number already exists."
)
