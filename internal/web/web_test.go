package web

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppldoc/superadmin-console/internal/table"
)

func model(query string) TableModel {
	q, _ := url.ParseQuery(query)
	return TableModel{
		Name:       "superadmins",
		Prefix:     "s_",
		Path:       "/superadmin/hospitalbranch/h1",
		Query:      q,
		ActionBase: "/superadmin/hospitalbranch/h1/superadmins",
		View: table.View{
			Filter:     "ann",
			Sort:       table.SortState{ColumnID: "name", Direction: table.Asc},
			Page:       1,
			TotalPages: 3,
		},
	}
}

func TestSortURLCycles(t *testing.T) {
	m := model("b_q=main&s_q=ann")

	asc := m.SortURL(table.HeaderView{ID: "name", Direction: table.Asc})
	u, err := url.Parse(asc)
	require.NoError(t, err)
	assert.Equal(t, "desc", u.Query().Get("s_dir"))
	assert.Equal(t, "main", u.Query().Get("b_q"), "other table state kept")

	u, _ = url.Parse(m.SortURL(table.HeaderView{ID: "name", Direction: table.Desc}))
	assert.Equal(t, "none", u.Query().Get("s_dir"))
	assert.Empty(t, u.Query().Get("s_sort"))

	u, _ = url.Parse(m.SortURL(table.HeaderView{ID: "email"}))
	assert.Equal(t, "email", u.Query().Get("s_sort"))
	assert.Equal(t, "asc", u.Query().Get("s_dir"))
}

func TestPageAndModalURLs(t *testing.T) {
	m := model("modal=edit&table=superadmins&id=x")

	u, _ := url.Parse(m.NextURL())
	assert.Equal(t, "2", u.Query().Get("s_page"))
	assert.Empty(t, u.Query().Get(ParamModal))

	u, _ = url.Parse(m.ModalURL("resetpassword", "sa1"))
	assert.Equal(t, "resetpassword", u.Query().Get(ParamModal))
	assert.Equal(t, "superadmins", u.Query().Get(ParamTable))
	assert.Equal(t, "sa1", u.Query().Get(ParamTarget))

	assert.Equal(t, "/superadmin/hospitalbranch/h1/superadmins/sa1/edit", m.ActionURL("sa1", "edit"))
	assert.Equal(t, "Page 2 of 3", m.PageLabel())
}

func TestHiddenSkipsOwnFilterAndPage(t *testing.T) {
	m := model("s_q=ann&s_page=2&b_q=main&modal=view")
	hidden := m.Hidden()
	require.Len(t, hidden, 1)
	assert.Equal(t, Field{Name: "b_q", Value: "main"}, hidden[0])
}

func TestSafeReturn(t *testing.T) {
	assert.Equal(t, "/superadmin?q=a", SafeReturn("/superadmin?q=a", "/"))
	assert.Equal(t, "/", SafeReturn("//evil.example.com", "/"))
	assert.Equal(t, "/", SafeReturn("https://evil.example.com", "/"))
	assert.Equal(t, "/", SafeReturn("", "/"))
}

func TestNilModalHelpers(t *testing.T) {
	var m *Modal
	assert.Empty(t, m.Value("name"))
	assert.Empty(t, m.Error("name"))
	assert.False(t, m.Is("hospitals", "edit"))
}

func TestTemplatesRenderLogin(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, PageLogin, map[string]any{
		"Title":  "Login",
		"Form":   &Modal{Values: map[string]string{"email": "a@b.com"}, Errors: map[string]string{"password": "Password is required"}},
		"Notice": "Invalid credentials",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `value="a@b.com"`)
	assert.Contains(t, buf.String(), "Password is required")
	assert.Contains(t, buf.String(), "Invalid credentials")
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "not a date", formatDate("not a date"))
	assert.NotEqual(t, "2024-01-02T10:00:00Z", formatDate("2024-01-02T10:00:00Z"))
}
