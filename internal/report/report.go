package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"scrapekit/internal/xrates"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Summary prints the table's shape, years and months.
func Summary(w io.Writer, t *xrates.RateTable) {
	rows, cols := t.Shape()

	years := make([]string, 0, cols)
	for _, y := range t.Years() {
		years = append(years, strconv.Itoa(y))
	}
	months := make([]string, 0, rows)
	for _, m := range t.Months() {
		months = append(months, xrates.MonthLabel(m))
	}

	fmt.Fprintln(w, "Data Summary:")
	fmt.Fprintf(w, "Shape: (%d, %d)\n", rows, cols)
	fmt.Fprintf(w, "Years: [%s]\n", strings.Join(years, ", "))
	fmt.Fprintf(w, "Months: [%s]\n", strings.Join(months, ", "))
}

// Preview renders the first n months of the table; n <= 0 renders all.
func Preview(w io.Writer, t *xrates.RateTable, n int) {
	years := t.Years()
	months := t.Months()
	if n > 0 && n < len(months) {
		months = months[:n]
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := table.Row{"Month"}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignCenter}}
	for i, y := range years {
		header = append(header, y)
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, m := range months {
		row := table.Row{xrates.MonthLabel(m)}
		for _, y := range years {
			if rate, ok := t.Get(m, y); ok {
				row = append(row, strconv.FormatFloat(rate, 'f', 4, 64))
			} else {
				row = append(row, "")
			}
		}
		tw.AppendRow(row)
	}

	tw.Render()
}
