// Package table implements an in-memory data grid over already fetched
// records: global search, column sort, fixed-size pagination and CSV export.
// It never talks to the network.
package table

import (
	"sort"
	"strings"
)

// DefaultPageSize is used when a table is created with a non-positive size.
const DefaultPageSize = 8

// Direction of a column sort.
type Direction string

const (
	None Direction = ""
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Column describes one column of a Table. A column without an Accessor is an
// action column: it renders per-row controls and takes no part in filtering,
// sorting or export.
type Column[T any] struct {
	ID       string
	Header   string
	Accessor func(T) any
	// Render formats the accessor value for display only.
	Render   func(any) string
	Sortable bool
}

func (c Column[T]) isAction() bool {
	return c.Accessor == nil
}

// SortState is the active sort, if any.
type SortState struct {
	ColumnID  string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Table is the view state of one rendered grid. It is not safe for
// concurrent use; owners serialize access.
type Table[T any] struct {
	columns  []Column[T]
	rows     []T
	pageSize int

	filter string
	sort   SortState
	page   int

	// view holds indexes into rows after filtering and sorting.
	view []int
}

// New creates a table over rows. The rows slice is owned by the table from
// then on.
func New[T any](columns []Column[T], rows []T, pageSize int) *Table[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	t := &Table[T]{
		columns:  columns,
		rows:     rows,
		pageSize: pageSize,
	}
	t.recompute()
	return t
}

// Columns returns the column definitions.
func (t *Table[T]) Columns() []Column[T] {
	return t.columns
}

// PageSize returns the fixed page size.
func (t *Table[T]) PageSize() int {
	return t.pageSize
}

// Len returns the number of rows regardless of filter.
func (t *Table[T]) Len() int {
	return len(t.rows)
}

// Empty reports whether the table has no rows at all.
func (t *Table[T]) Empty() bool {
	return len(t.rows) == 0
}

// Rows returns a copy of the full, unfiltered row set in load order.
func (t *Table[T]) Rows() []T {
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

// SetRows replaces the data, keeping filter, sort and page (clamped).
func (t *Table[T]) SetRows(rows []T) {
	t.rows = rows
	t.recompute()
	t.clampPage()
}

// Patch applies fn to every row matched by match, in place, and returns the
// number of rows changed.
func (t *Table[T]) Patch(match func(T) bool, fn func(*T)) int {
	n := 0
	for i := range t.rows {
		if match(t.rows[i]) {
			fn(&t.rows[i])
			n++
		}
	}
	if n > 0 {
		t.recompute()
		t.clampPage()
	}
	return n
}

// Find returns the first row matched by match.
func (t *Table[T]) Find(match func(T) bool) (T, bool) {
	for _, r := range t.rows {
		if match(r) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// GlobalFilter returns the current search text.
func (t *Table[T]) GlobalFilter() string {
	return t.filter
}

// SetGlobalFilter filters rows to those where any data column contains text,
// case-insensitively, and moves back to the first page.
func (t *Table[T]) SetGlobalFilter(text string) {
	t.filter = text
	t.page = 0
	t.recompute()
}

// Sort returns the active sort.
func (t *Table[T]) Sort() SortState {
	return t.sort
}

// SetSort sets the sort explicitly. Unknown or non-sortable columns are
// ignored; None clears the sort.
func (t *Table[T]) SetSort(columnID string, dir Direction) {
	if dir == None {
		t.sort = SortState{}
		t.recompute()
		return
	}
	if _, ok := t.sortable(columnID); !ok {
		return
	}
	if dir != Asc && dir != Desc {
		return
	}
	t.sort = SortState{ColumnID: columnID, Direction: dir}
	t.recompute()
}

// ToggleSort cycles asc, desc, none for the same column. Activating a
// different column starts at asc.
func (t *Table[T]) ToggleSort(columnID string) {
	if _, ok := t.sortable(columnID); !ok {
		return
	}
	next := Asc
	if t.sort.ColumnID == columnID {
		switch t.sort.Direction {
		case Asc:
			next = Desc
		case Desc:
			next = None
		}
	}
	t.SetSort(columnID, next)
}

// CurrentPage returns the zero-based page index.
func (t *Table[T]) CurrentPage() int {
	return t.page
}

// TotalPages is at least 1, even with no matching rows.
func (t *Table[T]) TotalPages() int {
	n := (len(t.view) + t.pageSize - 1) / t.pageSize
	if n < 1 {
		return 1
	}
	return n
}

// SetPage moves to index, clamped to the valid range.
func (t *Table[T]) SetPage(index int) {
	t.page = index
	t.clampPage()
}

// FilteredCount is the number of rows matching the filter.
func (t *Table[T]) FilteredCount() int {
	return len(t.view)
}

// VisibleRows returns the filtered, sorted rows of the current page.
func (t *Table[T]) VisibleRows() []T {
	start := t.page * t.pageSize
	if start >= len(t.view) {
		return []T{}
	}
	end := start + t.pageSize
	if end > len(t.view) {
		end = len(t.view)
	}
	out := make([]T, 0, end-start)
	for _, idx := range t.view[start:end] {
		out = append(out, t.rows[idx])
	}
	return out
}

func (t *Table[T]) clampPage() {
	if last := t.TotalPages() - 1; t.page > last {
		t.page = last
	}
	if t.page < 0 {
		t.page = 0
	}
}

func (t *Table[T]) sortable(columnID string) (Column[T], bool) {
	for _, c := range t.columns {
		if c.ID == columnID {
			return c, c.Sortable && !c.isAction()
		}
	}
	return Column[T]{}, false
}

// recompute filters and sorts in a single pass over the full row set.
func (t *Table[T]) recompute() {
	needle := strings.ToLower(t.filter)
	view := make([]int, 0, len(t.rows))
	for i, r := range t.rows {
		if needle == "" || t.matches(r, needle) {
			view = append(view, i)
		}
	}

	if col, ok := t.sortable(t.sort.ColumnID); ok && t.sort.Direction != None {
		keys := make([]any, len(t.rows))
		for _, idx := range view {
			keys[idx] = access(col, t.rows[idx])
		}
		desc := t.sort.Direction == Desc
		sort.SliceStable(view, func(i, j int) bool {
			c := compare(keys[view[i]], keys[view[j]])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	t.view = view
}

func (t *Table[T]) matches(row T, needle string) bool {
	for _, c := range t.columns {
		if c.isAction() {
			continue
		}
		if strings.Contains(strings.ToLower(Text(access(c, row))), needle) {
			return true
		}
	}
	return false
}

// access calls the accessor, treating a panic as an empty value.
func access[T any](c Column[T], row T) (v any) {
	if c.Accessor == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()
	return c.Accessor(row)
}

// display renders a value, falling back to the raw text when the renderer
// panics.
func display[T any](c Column[T], v any) (s string) {
	if c.Render == nil {
		return Text(v)
	}
	defer func() {
		if recover() != nil {
			s = Text(v)
		}
	}()
	return c.Render(v)
}
