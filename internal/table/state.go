package table

import (
	"net/url"
	"strconv"
	"strings"
)

// State is the serialisable view state of a table.
type State struct {
	Filter string
	Sort   SortState
	Page   int
}

// State returns the current view state.
func (t *Table[T]) State() State {
	return State{Filter: t.filter, Sort: t.sort, Page: t.page}
}

// Apply restores a view state. A filter different from the current one
// wins over the requested page, which then starts at 0. A sort on a column
// that cannot be sorted clears the sort.
func (t *Table[T]) Apply(s State) {
	filterChanged := s.Filter != t.filter
	if filterChanged {
		t.SetGlobalFilter(s.Filter)
	}
	dir := s.Sort.Direction
	if _, ok := t.sortable(s.Sort.ColumnID); !ok || (dir != Asc && dir != Desc) {
		dir = None
	}
	t.SetSort(s.Sort.ColumnID, dir)
	if !filterChanged {
		t.SetPage(s.Page)
	}
}

// Query parameter names; a prefix separates several tables on one page.
const (
	paramFilter = "q"
	paramSort   = "sort"
	paramDir    = "dir"
	paramPage   = "page"
)

// ParseState reads a view state from query values. Parameters that are
// absent keep the value from def; dir=none clears the sort.
func ParseState(values url.Values, prefix string, def State) State {
	s := def
	if _, ok := values[prefix+paramFilter]; ok {
		s.Filter = values.Get(prefix + paramFilter)
	}
	if v, ok := values[prefix+paramSort]; ok {
		s.Sort.ColumnID = strings.TrimSpace(v[0])
		s.Sort.Direction = Asc
	}
	if _, ok := values[prefix+paramDir]; ok {
		switch Direction(strings.ToLower(values.Get(prefix + paramDir))) {
		case Asc:
			s.Sort.Direction = Asc
		case Desc:
			s.Sort.Direction = Desc
		default:
			s.Sort = SortState{}
		}
	}
	if s.Sort.ColumnID == "" {
		s.Sort = SortState{}
	}
	if raw := values.Get(prefix + paramPage); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			s.Page = p
		}
	}
	return s
}

// Values encodes the state as query values under prefix.
func (s State) Values(prefix string) url.Values {
	v := url.Values{}
	v.Set(prefix+paramFilter, s.Filter)
	if s.Sort.ColumnID != "" && s.Sort.Direction != None {
		v.Set(prefix+paramSort, s.Sort.ColumnID)
		v.Set(prefix+paramDir, string(s.Sort.Direction))
	} else {
		v.Set(prefix+paramDir, "none")
	}
	v.Set(prefix+paramPage, strconv.Itoa(s.Page))
	return v
}
