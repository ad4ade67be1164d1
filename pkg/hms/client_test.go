package hms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newTestServer(t *testing.T, status int, response string) (*Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/"}), &calls
}

func TestLogin_ReturnsToken(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `{"success":true,"token":"tok-1"}`)

	token, err := c.Login(context.Background(), "root@ppldoc.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.Len(t, *calls, 1)
	got := (*calls)[0]
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/v1/superadmin/login", got.path)
	assert.Empty(t, got.auth)
	assert.Equal(t, "root@ppldoc.com", got.body["email"])
}

func TestLogin_Rejected(t *testing.T) {
	c, _ := newTestServer(t, http.StatusBadRequest, `{"success":false,"msg":"Invalid credentials"}`)

	_, err := c.Login(context.Background(), "root@ppldoc.com", "wrong")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestListHospitals_SendsBearerAndDecodes(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `{"success":true,"data":[
		{"userid":"h1","name":"General Hospital A","email":"a@gen.com","createdAt":"2024-01-02T10:00:00Z","isActive":true},
		{"userid":"h2","name":"City Care","email":"c@care.in","createdAt":"2024-02-02T10:00:00Z","isActive":false}]}`)

	hospitals, err := c.ListHospitals(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, hospitals, 2)
	assert.Equal(t, "h1", hospitals[0].ID)
	assert.True(t, hospitals[0].IsActive)
	assert.False(t, hospitals[1].IsActive)

	assert.Equal(t, "Bearer tok", (*calls)[0].auth)
	assert.Equal(t, "/api/v1/superadmin/getallhospitals", (*calls)[0].path)
}

func TestListBranches_NullDataIsEmpty(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `{"success":true,"data":null}`)

	branches, err := c.ListBranches(context.Background(), "tok", "h 1")
	require.NoError(t, err)
	assert.NotNil(t, branches)
	assert.Empty(t, branches)
	assert.Equal(t, "/api/v1/superadmin/getallbranchbyhospital/h 1", (*calls)[0].path)
}

func TestMissingToken_NoNetworkCall(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `{"success":true}`)

	_, err := c.ListSuperAdmins(context.Background(), "", "h1")
	assert.ErrorIs(t, err, ErrMissingToken)
	err = c.EditHospital(context.Background(), "", "h1", EditHospitalRequest{Name: "x"})
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.Empty(t, *calls)
}

func TestUnauthorizedStatus(t *testing.T) {
	c, _ := newTestServer(t, http.StatusUnauthorized, `{"success":false,"msg":"jwt expired"}`)

	_, err := c.GetMyProfile(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "jwt expired")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestSetHospitalActive_Paths(t *testing.T) {
	c, calls := newTestServer(t, http.StatusOK, `{"success":true,"msg":"ok","data":"done"}`)

	require.NoError(t, c.SetHospitalActive(context.Background(), "tok", "h1", true))
	require.NoError(t, c.SetHospitalActive(context.Background(), "tok", "h1", false))

	assert.Equal(t, "/api/v1/superadmin/enablehospital/h1", (*calls)[0].path)
	assert.Equal(t, "/api/v1/superadmin/disablehospital/h1", (*calls)[1].path)
	assert.Equal(t, http.MethodPut, (*calls)[1].method)
}

func TestAddSuperAdmin_Conflict(t *testing.T) {
	c, calls := newTestServer(t, http.StatusConflict, `{"success":false,"msg":"Super Admin with this email already exists."}`)

	err := c.AddSuperAdmin(context.Background(), "tok", AddSuperAdminRequest{Name: "A", AssociatedHospital: "h1"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, MsgSuperAdminEmailExists, apiErr.Message)
	assert.Equal(t, "h1", (*calls)[0].body["associatedHospital"])
}

func TestNonJSONErrorBody(t *testing.T) {
	c, _ := newTestServer(t, http.StatusBadGateway, `upstream down`)

	_, err := c.GetHospital(context.Background(), "tok", "h1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestTransportError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := c.ListHospitals(context.Background(), "tok")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestSanitizeForLog(t *testing.T) {
	out := sanitizeForLog([]byte(`{"email":"a@b.com","password":"p","nested":{"token":"t"}}`))
	assert.JSONEq(t, `{"email":"a@b.com","password":"***MASKED***","nested":{"token":"***MASKED***"}}`, string(out))
}

func TestBaseURL_TrimsTrailingSlash(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://hms.local:8080/"})
	assert.Equal(t, "http://hms.local:8080", c.BaseURL())
}
