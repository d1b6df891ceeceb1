// Package excelize exports tables as XLSX workbooks.
package excelize

import (
	"io"

	"github.com/fwojciec/linkbot"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet written.
const SheetName = "Data"

// Ensure Writer implements linkbot.TableWriter at compile time.
var _ linkbot.TableWriter = (*Writer)(nil)

// Writer encodes a table as a one-sheet workbook. When Columns is set the
// table is projected onto them first.
type Writer struct {
	Columns []string
}

// NewWriter returns a Writer using the profile export columns.
func NewWriter() *Writer {
	return &Writer{Columns: linkbot.ProfileColumns}
}

func (w *Writer) Ext() string {
	return ".xlsx"
}

func (w *Writer) WriteTable(out io.Writer, t *linkbot.Table) error {
	if len(w.Columns) > 0 {
		t = t.Project(w.Columns)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	if err := setRow(f, 1, t.Columns); err != nil {
		return err
	}
	for i, row := range t.Rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}
	return f.Write(out)
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return f.SetSheetRow(SheetName, cell, &values)
}
