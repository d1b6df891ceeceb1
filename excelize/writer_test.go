package excelize_test

import (
	"bytes"
	"testing"

	"github.com/fwojciec/linkbot"
	"github.com/fwojciec/linkbot/excelize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xlsx "github.com/xuri/excelize/v2"
)

func TestWriter_WriteTable(t *testing.T) {
	t.Parallel()

	// Given records whose keys are out of order and incomplete
	tbl := &linkbot.Table{
		Columns: []string{"profile_url", "name", "title"},
		Rows: [][]string{
			{"https://www.linkedin.com/in/jan", "Jan Kowalski", "Engineer"},
			{"", "Anna Nowak", ""},
		},
	}

	// When writing a workbook
	var buf bytes.Buffer
	require.NoError(t, excelize.NewWriter().WriteTable(&buf, tbl))

	// Then the Data sheet uses the fixed export columns
	f, err := xlsx.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{excelize.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(excelize.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, linkbot.ProfileColumns, rows[0])
	assert.Equal(t, []string{"Jan Kowalski", "Engineer", "", "", "https://www.linkedin.com/in/jan"}, rows[1])
	assert.Equal(t, "Anna Nowak", rows[2][0])
}

func TestWriter_Ext(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ".xlsx", excelize.NewWriter().Ext())
}
