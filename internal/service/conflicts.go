package service

import (
	"errors"

	"github.com/ppldoc/superadmin-console/pkg/hms"
)

var hospitalConflicts = map[string]string{
	hms.MsgHospitalEmailExists: "Hospital with this email already exists.",
	hms.MsgBranchEmailExists:   "Branch with this email already exists.",
	hms.MsgHospitalEmailInUse:  "Hospital with this email already exists.",
}

var superAdminAddConflicts = map[string]string{
	hms.MsgSuperAdminEmailPhoneExists:  "Super Admin with this email and phone number already exists.",
	hms.MsgSuperAdminEmailExists:       "Super Admin with this email already exists.",
	hms.MsgSuperAdminPhoneExists:       "Super Admin with this phone number already exists.",
	hms.MsgSuperAdminPhoneNumberExists: "Super Admin with this phone number already exists.",
}

var superAdminEditConflicts = map[string]string{
	hms.MsgSuperAdminEmailPhoneExists:  "Hospital Super Admin with this email and phone number already exists.",
	hms.MsgSuperAdminEmailExists:       "Hospital Super Admin with this email already exists.",
	hms.MsgSuperAdminPhoneExists:       "Hospital Super Admin with this phone number already exists.",
	hms.MsgSuperAdminPhoneNumberExists: "Hospital Super Admin with this phone number already exists.",
}

// asConflict turns a backend rejection with a known message into a
// ConflictError. Any other error is returned unchanged.
func asConflict(err error, known map[string]string) error {
	var apiErr *hms.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if notice, ok := known[apiErr.Message]; ok {
		return &ConflictError{Notice: notice}
	}
	return err
}
