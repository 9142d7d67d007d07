// Package sheet writes rate tables to formatted xlsx workbooks.
package sheet

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"scrapekit/internal/xrates"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Exchange Rates"
	IndexLabel  = "Month"
	HeaderColor = "366092"
	MaxColWidth = 15

	// blank cells count as four characters when sizing columns
	blankCellWidth = 4
)

// DefaultFilename embeds the pair and a second-resolution timestamp.
func DefaultFilename(pair xrates.Pair, now time.Time) string {
	return fmt.Sprintf("exchange_rates_%s_to_%s_%s.xlsx", pair.From, pair.To, now.Format("20060102_150405"))
}

// Export writes table to filename, or to DefaultFilename when filename is
// empty, and returns the name written. On failure it returns "" and the
// cause.
func Export(table *xrates.RateTable, filename string, pair xrates.Pair, now time.Time) (string, error) {
	if filename == "" {
		filename = DefaultFilename(pair, now)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := write(f, table); err != nil {
		return "", err
	}
	if err := f.SaveAs(filename); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return filename, nil
}

// grid lays the table out as rows of cells: a header row, then one row per
// month. Missing rates are nil.
func grid(table *xrates.RateTable) [][]any {
	years := table.Years()
	months := table.Months()

	header := make([]any, 0, len(years)+1)
	header = append(header, IndexLabel)
	for _, y := range years {
		header = append(header, y)
	}

	rows := [][]any{header}
	for _, m := range months {
		row := make([]any, 0, len(years)+1)
		row = append(row, xrates.MonthLabel(m))
		for _, y := range years {
			if rate, ok := table.Get(m, y); ok {
				row = append(row, rate)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func write(f *excelize.File, table *xrates.RateTable) error {
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := grid(table)
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
	}

	if err := applyStyles(f, len(rows[0]), len(rows)-1); err != nil {
		return err
	}
	return applyWidths(f, rows)
}

func applyStyles(f *excelize.File, cols, months int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{HeaderColor}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(cols, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if months == 0 {
		return nil
	}

	monthStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create month style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A2", fmt.Sprintf("A%d", months+1), monthStyle); err != nil {
		return fmt.Errorf("failed to style month column: %w", err)
	}
	return nil
}

// applyWidths sizes each column to its longest cell plus padding, capped at
// MaxColWidth.
func applyWidths(f *excelize.File, rows [][]any) error {
	for c := range rows[0] {
		longest := 0
		for _, row := range rows {
			if n := cellWidth(row[c]); n > longest {
				longest = n
			}
		}

		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, ColumnWidth(longest)); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return nil
}

// ColumnWidth is min(longest+2, MaxColWidth).
func ColumnWidth(longest int) float64 {
	return float64(min(longest+2, MaxColWidth))
}

func cellWidth(v any) int {
	if v == nil {
		return blankCellWidth
	}
	return utf8.RuneCountInString(cellString(v))
}

func cellString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
