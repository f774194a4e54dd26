// Package export renders tabular reports as xlsx workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	minColumnWidth = 10.0
	maxColumnWidth = 48.0
)

// SheetSpec describes one worksheet: a bold header row followed by data rows.
type SheetSpec struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Workbook renders the sheets in order and returns the encoded xlsx file.
func Workbook(sheets []SheetSpec) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook needs at least one sheet")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Title); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Title); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", sheet.Title, err)
		}

		if err := writeSheet(f, sheet, bold); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet SheetSpec, headerStyle int) error {
	for col, title := range sheet.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheet.Title, cell, title); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	for r, row := range sheet.Rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(sheet.Title, cell, value); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if len(sheet.Header) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(sheet.Header), 1)
	if err != nil {
		return err
	}
	_ = f.SetCellStyle(sheet.Title, "A1", last, headerStyle)
	_ = f.AutoFilter(sheet.Title, "A1:"+last, nil)

	for c := range sheet.Header {
		width := float64(len(sheet.Header[c]))
		for _, row := range sheet.Rows {
			if c < len(row) && float64(len(row[c])) > width {
				width = float64(len(row[c]))
			}
		}
		width = width*1.1 + 2
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		_ = f.SetColWidth(sheet.Title, name, name, width)
	}

	return nil
}
