package xlsxio

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/scvtools/scvcheck/internal/scv"
)

// resultSheet is the single sheet of the annotated output workbook.
const resultSheet = "Sheet1"

// WriteAnnotated writes the annotated table as an xlsx workbook: a bold
// header row, then the interleaved data and verdict rows exactly as
// assembled.
func WriteAnnotated(w io.Writer, table *scv.AnnotatedTable) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell %d: %w", i, err)
		}
		if err := f.SetCellValue(resultSheet, cell, col); err != nil {
			return fmt.Errorf("write header %q: %w", col, err)
		}
	}

	if len(table.Columns) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
		})
		if err == nil {
			first, _ := excelize.CoordinatesToCellName(1, 1)
			last, _ := excelize.CoordinatesToCellName(len(table.Columns), 1)
			f.SetCellStyle(resultSheet, first, last, style)
		}
	}

	for r, row := range table.Rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			if err := f.SetCellValue(resultSheet, name, cell); err != nil {
				return fmt.Errorf("write cell (%d,%d): %w", r, c, err)
			}
		}
	}

	for i, col := range table.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		width := float64(len(col) + 4)
		if width < 12 {
			width = 12
		}
		f.SetColWidth(resultSheet, name, name, width)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write result workbook: %w", err)
	}
	return nil
}
