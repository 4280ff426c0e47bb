package outwriter

import (
	"fmt"
	"io"
	"strings"

	"github.com/blowline/shiftlog/schema"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is the longest worksheet title Excel accepts.
const maxSheetNameLength = 31

var sheetNameReplacer = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "(", "]", ")",
)

// WriteReportXLSX writes the report as a single-sheet workbook with a bold header row.
func WriteReportXLSX(w io.Writer, report *schema.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sanitizeSheetName(report.SheetName)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	for i, col := range schema.ReportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", col.Header, err)
		}
	}

	header := make([]any, len(schema.ReportColumns))
	for i, h := range schema.ReportHeaders() {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	for i := range report.Rows {
		values := report.Rows[i].Values()
		row := make([]any, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sanitizeSheetName maps a section label onto a valid worksheet title.
func sanitizeSheetName(name string) string {
	name = strings.Trim(sheetNameReplacer.Replace(name), "'")
	if name == "" {
		return schema.AllProductionSheet
	}
	if r := []rune(name); len(r) > maxSheetNameLength {
		name = string(r[:maxSheetNameLength])
	}
	return name
}
