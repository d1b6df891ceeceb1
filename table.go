package linkbot

import "io"

// ProfileColumns is the column order used for tabular exports of records.
var ProfileColumns = []string{"name", "title", "current_company", "location", "profile_url"}

// Table is a rectangular view over exported records.
type Table struct {
	Columns []string
	Rows    [][]string
}

// TableWriter encodes a table into a file format.
type TableWriter interface {
	WriteTable(w io.Writer, t *Table) error

	// Ext returns the file extension including the dot.
	Ext() string
}

// Project returns a table with the given columns. Columns absent from t are
// empty in every row.
func (t *Table) Project(columns []string) *Table {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}
	out := &Table{Columns: columns, Rows: make([][]string, len(t.Rows))}
	for r, row := range t.Rows {
		projected := make([]string, len(columns))
		for i, c := range columns {
			if j, ok := idx[c]; ok && j < len(row) {
				projected[i] = row[j]
			}
		}
		out.Rows[r] = projected
	}
	return out
}
