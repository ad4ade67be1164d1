package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/ppldoc/superadmin-console/internal/table"
	"github.com/ppldoc/superadmin-console/internal/validation"
)

// Query parameters that open a dialog on a page.
const (
	ParamModal  = "modal"
	ParamTarget = "id"
	ParamTable  = "table"
)

// TableModel is a rendered table plus the links that change its view state.
// Query is the page's full query so links keep the state of other tables.
type TableModel struct {
	Name       string
	Title      string
	Prefix     string
	Path       string
	Query      url.Values
	View       table.View
	ExportURL  string
	ActionBase string
	AddLabel   string
	Error      string
}

func (m TableModel) link(set url.Values, drop ...string) string {
	q := url.Values{}
	for k, v := range m.Query {
		q[k] = append([]string(nil), v...)
	}
	for _, k := range drop {
		q.Del(k)
	}
	for k, v := range set {
		q[k] = v
	}
	if len(q) == 0 {
		return m.Path
	}
	return m.Path + "?" + q.Encode()
}

func (m TableModel) state() table.State {
	return table.State{Filter: m.View.Filter, Sort: m.View.Sort, Page: m.View.Page}
}

// SortURL cycles a column through ascending, descending and unsorted.
func (m TableModel) SortURL(h table.HeaderView) string {
	st := m.state()
	switch h.Direction {
	case table.Asc:
		st.Sort = table.SortState{ColumnID: h.ID, Direction: table.Desc}
	case table.Desc:
		st.Sort = table.SortState{}
	default:
		st.Sort = table.SortState{ColumnID: h.ID, Direction: table.Asc}
	}
	return m.link(st.Values(m.Prefix), ParamModal, ParamTarget, ParamTable)
}

// PageURL links to page n.
func (m TableModel) PageURL(n int) string {
	st := m.state()
	st.Page = n
	return m.link(st.Values(m.Prefix), ParamModal, ParamTarget, ParamTable)
}

// PrevURL links to the previous page.
func (m TableModel) PrevURL() string { return m.PageURL(m.View.Page - 1) }

// NextURL links to the next page.
func (m TableModel) NextURL() string { return m.PageURL(m.View.Page + 1) }

// ModalURL opens dialog kind for record id.
func (m TableModel) ModalURL(kind, id string) string {
	set := m.state().Values(m.Prefix)
	set.Set(ParamModal, kind)
	set.Set(ParamTable, m.Name)
	if id != "" {
		set.Set(ParamTarget, id)
	}
	return m.link(set, ParamTarget)
}

// CloseURL is the page without any dialog.
func (m TableModel) CloseURL() string {
	return m.link(nil, ParamModal, ParamTarget, ParamTable)
}

// ActionURL is a POST target for record id, e.g. ActionURL(id, "edit").
func (m TableModel) ActionURL(id, action string) string {
	return m.ActionBase + "/" + url.PathEscape(id) + "/" + action
}

// FilterParam is the input name of the search box.
func (m TableModel) FilterParam() string { return m.Prefix + "q" }

// Hidden lists the query values a search form must carry along. The
// table's own filter and page are left out so a new search starts at page 1.
func (m TableModel) Hidden() []Field {
	var out []Field
	for k, vs := range m.Query {
		if k == m.Prefix+"q" || k == m.Prefix+"page" || k == ParamModal || k == ParamTarget || k == ParamTable {
			continue
		}
		for _, v := range vs {
			out = append(out, Field{Name: k, Value: v})
		}
	}
	return out
}

// PageLabel is the "Page x of y" caption.
func (m TableModel) PageLabel() string {
	return "Page " + strconv.Itoa(m.View.Page+1) + " of " + strconv.Itoa(m.View.TotalPages)
}

// Field is a name/value pair for hidden inputs.
type Field struct {
	Name  string
	Value string
}

// Modal is an open dialog.
type Modal struct {
	Kind   string
	Table  string
	Title  string
	Action string
	// Values holds the submitted or prefilled form values by field name.
	Values map[string]string
	Errors validation.Errors
	Notice string
	Record any
	Return string
	Close  string
}

// Value returns a form value.
func (m *Modal) Value(name string) string {
	if m == nil {
		return ""
	}
	return m.Values[name]
}

// Error returns the message for a field.
func (m *Modal) Error(name string) string {
	if m == nil {
		return ""
	}
	return m.Errors[name]
}

// Is reports whether the dialog is kind on table.
func (m *Modal) Is(tbl, kind string) bool {
	return m != nil && m.Table == tbl && m.Kind == kind
}

// SafeReturn accepts only local paths as a post-submit redirect target.
func SafeReturn(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}
	return raw
}
