package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVHeader maps a column id to its label in the exported file.
type CSVHeader struct {
	Label string
	Key   string
}

// ExportCSV writes every row, ignoring the current filter and page, and
// returns the number of data rows written. Keys that name no data column
// produce empty cells.
func (t *Table[T]) ExportCSV(w io.Writer, headers []CSVHeader) (int, error) {
	cw := csv.NewWriter(w)

	labels := make([]string, len(headers))
	cols := make([]*Column[T], len(headers))
	for i, h := range headers {
		labels[i] = h.Label
		for j := range t.columns {
			if t.columns[j].ID == h.Key && !t.columns[j].isAction() {
				cols[i] = &t.columns[j]
				break
			}
		}
	}
	if err := cw.Write(labels); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	record := make([]string, len(headers))
	for n, row := range t.rows {
		for i, c := range cols {
			if c == nil {
				record[i] = ""
				continue
			}
			record[i] = Text(access(*c, row))
		}
		if err := cw.Write(record); err != nil {
			return n, fmt.Errorf("write csv row %d: %w", n, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(t.rows), fmt.Errorf("flush csv: %w", err)
	}
	return len(t.rows), nil
}
