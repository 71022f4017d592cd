// Package report writes the human-facing artifacts of a run: the
// statistics spreadsheet and the YAML run summary.
package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/nrminor/alpine-explorer/models"
)

const sheetName = "Run Statistics"

// maxColWidth caps auto-fit so one long geography name cannot blow up the
// whole sheet.
const maxColWidth = 60.0

// WriteSpreadsheet writes the stats table as a single-sheet xlsx file with
// auto-fit columns. Nil fields become empty cells.
func WriteSpreadsheet(path string, rows []models.StatsRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	widths := make([]int, len(models.StatsColumns))
	for i, name := range models.StatsColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build header cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		widths[i] = utf8.RuneCountInString(name)
	}

	for r, row := range rows {
		for c, val := range row.Values() {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("failed to write row for %s: %w", row.Geography, err)
			}
			if n := utf8.RuneCountInString(fmt.Sprint(val)); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to build column name: %w", err)
		}
		width := float64(w) + 2
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}
