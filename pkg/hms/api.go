package hms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

const apiPrefix = "/api/v1/superadmin"

func endpoint(name string, ids ...string) string {
	p := apiPrefix + "/" + name
	for _, id := range ids {
		p += "/" + url.PathEscape(id)
	}
	return p
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	env, err := call[json.RawMessage](ctx, c, http.MethodPost, endpoint("login"), "", LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	if env.Token == "" {
		return "", &APIError{StatusCode: http.StatusOK, Message: "login response carried no token"}
	}
	return env.Token, nil
}

// GetMyProfile returns the profile of the token's owner.
func (c *Client) GetMyProfile(ctx context.Context, token string) (*Profile, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	env, err := call[Profile](ctx, c, http.MethodGet, endpoint("getmyprofile"), token, nil)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// ListHospitals returns every hospital.
func (c *Client) ListHospitals(ctx context.Context, token string) ([]Hospital, error) {
	return list[Hospital](ctx, c, endpoint("getallhospitals"), token)
}

// GetHospital returns one hospital.
func (c *Client) GetHospital(ctx context.Context, token, id string) (*Hospital, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	env, err := call[Hospital](ctx, c, http.MethodGet, endpoint("gethospitalbyid", id), token, nil)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// EditHospital updates a hospital's name and email.
func (c *Client) EditHospital(ctx context.Context, token, id string, req EditHospitalRequest) error {
	return mutate(ctx, c, http.MethodPut, endpoint("edithospital", id), token, req)
}

// SetHospitalActive enables or disables a hospital.
func (c *Client) SetHospitalActive(ctx context.Context, token, id string, active bool) error {
	name := "disablehospital"
	if active {
		name = "enablehospital"
	}
	return mutate(ctx, c, http.MethodPut, endpoint(name, id), token, nil)
}

// AddHospital registers a hospital with its default branch.
func (c *Client) AddHospital(ctx context.Context, token string, req AddHospitalRequest) error {
	return mutate(ctx, c, http.MethodPost, endpoint("addhospitalbranch"), token, req)
}

// ListBranches returns the branches of a hospital.
func (c *Client) ListBranches(ctx context.Context, token, hospitalID string) ([]Branch, error) {
	return list[Branch](ctx, c, endpoint("getallbranchbyhospital", hospitalID), token)
}

// ListSuperAdmins returns the super-admins of a hospital.
func (c *Client) ListSuperAdmins(ctx context.Context, token, hospitalID string) ([]SuperAdmin, error) {
	return list[SuperAdmin](ctx, c, endpoint("getallsuperadminbyhospital", hospitalID), token)
}

// AddSuperAdmin creates a super-admin.
func (c *Client) AddSuperAdmin(ctx context.Context, token string, req AddSuperAdminRequest) error {
	return mutate(ctx, c, http.MethodPost, endpoint("addhospitalsuperadmin"), token, req)
}

// GetSuperAdmin returns one super-admin.
func (c *Client) GetSuperAdmin(ctx context.Context, token, id string) (*SuperAdmin, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	env, err := call[SuperAdmin](ctx, c, http.MethodGet, endpoint("gethospitalsuperadminbyid", id), token, nil)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// EditSuperAdmin updates a super-admin's name, email and phone.
func (c *Client) EditSuperAdmin(ctx context.Context, token, id string, req EditSuperAdminRequest) error {
	return mutate(ctx, c, http.MethodPut, endpoint("edithospitalsuperadmin", id), token, req)
}

// ResetSuperAdminPassword sets a new password for a super-admin.
func (c *Client) ResetSuperAdminPassword(ctx context.Context, token, id string, req ResetPasswordRequest) error {
	return mutate(ctx, c, http.MethodPut, endpoint("resethospitalsuperadminpassword", id), token, req)
}

func list[T any](ctx context.Context, c *Client, path, token string) ([]T, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	env, err := call[[]T](ctx, c, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}

func mutate(ctx context.Context, c *Client, method, path, token string, body any) error {
	if token == "" {
		return ErrMissingToken
	}
	_, err := call[json.RawMessage](ctx, c, method, path, token, body)
	return err
}
