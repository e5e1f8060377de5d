package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"caselog/internal/models"
)

const sheetTitle = "Case Log"

// WriteXLSX writes the records as a single worksheet. The header row is the
// import column set, so an exported workbook round-trips through ParseImport
// unchanged.
func WriteXLSX(w io.Writer, records []models.CaseRecord) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if err := file.SetSheetName(sheet, sheetTitle); err == nil {
		sheet = sheetTitle
	}

	columns := models.ImportColumns()
	for i, column := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := file.SetCellValue(sheet, cell, column); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	if styleID, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		if last, err := excelize.CoordinatesToCellName(len(columns), 1); err == nil {
			_ = file.SetCellStyle(sheet, "A1", last, styleID)
		}
	}

	for rowIdx, rec := range records {
		for colIdx, column := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}

			// Volume stays numeric so spreadsheet formulas keep
			// working on exported data.
			var value interface{}
			if column == "volume_size_gb" {
				value = rec.VolumeSizeGB
			} else {
				value, _ = rec.FieldByColumn(column)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if endCol, err := excelize.ColumnNumberToName(len(columns)); err == nil {
		_ = file.SetColWidth(sheet, "A", endCol, 16)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
