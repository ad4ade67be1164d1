package table

// HeaderView is one column header of a rendered table.
type HeaderView struct {
	ID        string
	Label     string
	Sortable  bool
	Direction Direction
	Action    bool
}

// CellView is one rendered cell. Title carries the full raw text so a
// truncated display can still show it on hover.
type CellView struct {
	ColumnID string
	Text     string
	Title    string
	Action   bool
}

// RowView is one rendered row. Record is the underlying value, used by
// templates to draw action cells.
type RowView struct {
	Key    string
	Cells  []CellView
	Record any
}

// Cell returns the cell for a column id.
func (r RowView) Cell(id string) CellView {
	for _, c := range r.Cells {
		if c.ColumnID == id {
			return c
		}
	}
	return CellView{ColumnID: id}
}

// View is a type-erased snapshot of a table page, ready for a template or
// JSON encoding.
type View struct {
	Headers    []HeaderView `json:"headers"`
	Rows       []RowView    `json:"rows"`
	Filter     string       `json:"filter"`
	Sort       SortState    `json:"sort"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	PageSize   int          `json:"pageSize"`
	Total      int          `json:"total"`
	Filtered   int          `json:"filtered"`
	Empty      bool         `json:"empty"`
	HasPrev    bool         `json:"hasPrev"`
	HasNext    bool         `json:"hasNext"`
}

// View renders the current page. key returns the identity of a record.
func (t *Table[T]) View(key func(T) string) View {
	v := View{
		Filter:     t.filter,
		Sort:       t.sort,
		Page:       t.page,
		TotalPages: t.TotalPages(),
		PageSize:   t.pageSize,
		Total:      len(t.rows),
		Filtered:   len(t.view),
		Empty:      len(t.rows) == 0,
	}
	v.HasPrev = v.Page > 0
	v.HasNext = v.Page < v.TotalPages-1

	v.Headers = make([]HeaderView, len(t.columns))
	for i, c := range t.columns {
		h := HeaderView{ID: c.ID, Label: c.Header, Action: c.isAction()}
		h.Sortable = c.Sortable && !h.Action
		if t.sort.ColumnID == c.ID {
			h.Direction = t.sort.Direction
		}
		v.Headers[i] = h
	}

	rows := t.VisibleRows()
	v.Rows = make([]RowView, len(rows))
	for i, r := range rows {
		rv := RowView{Record: r, Cells: make([]CellView, len(t.columns))}
		if key != nil {
			rv.Key = key(r)
		}
		for j, c := range t.columns {
			if c.isAction() {
				rv.Cells[j] = CellView{ColumnID: c.ID, Action: true}
				continue
			}
			raw := access(c, r)
			rv.Cells[j] = CellView{ColumnID: c.ID, Text: display(c, raw), Title: Text(raw)}
		}
		v.Rows[i] = rv
	}
	return v
}
