package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook renders tables as one XLSX workbook with a sheet per table
func WriteWorkbook(out io.Writer, tables []Table) error {
	f, err := buildWorkbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook to path
func SaveWorkbook(path string, tables []Table) error {
	f, err := buildWorkbook(tables)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func buildWorkbook(tables []Table) (*excelize.File, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("workbook needs at least one table")
	}

	f := excelize.NewFile()
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	for i, t := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), t.Name); err != nil {
				f.Close()
				return nil, err
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			f.Close()
			return nil, err
		}

		if err := writeSheet(f, t, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", t.Name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, t Table, headerStyle int) error {
	for col, name := range t.Headers() {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(t.Name, cell, name); err != nil {
			return err
		}
	}

	if len(t.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(t.Columns))
		if err := f.SetCellStyle(t.Name, "A1", last+"1", headerStyle); err != nil {
			return err
		}
		if err := f.SetColWidth(t.Name, "A", last, 18); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(t.Name, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
