package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookWritesSheetsInOrder(t *testing.T) {
	data, err := Workbook([]SheetSpec{
		{Title: "Scorecard", Header: []string{"#", "Topic"}, Rows: [][]string{{"1", "Lesson 1"}, {"2", "Lesson 2"}}},
		{Title: "Awards", Header: []string{"Year", "Month", "Award"}, Rows: [][]string{{"2024", "1", "3"}}},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Scorecard", "Awards"}, f.GetSheetList())

	rows, err := f.GetRows("Scorecard")
	require.NoError(t, err)
	require.Equal(t, [][]string{{"#", "Topic"}, {"1", "Lesson 1"}, {"2", "Lesson 2"}}, rows)

	value, err := f.GetCellValue("Awards", "C2")
	require.NoError(t, err)
	require.Equal(t, "3", value)
}

func TestWorkbookRequiresSheets(t *testing.T) {
	_, err := Workbook(nil)
	require.Error(t, err)
}
