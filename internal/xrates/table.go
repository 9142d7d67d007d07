package xrates

import (
	"slices"
	"strings"
	"time"
)

// MonthLabel is the three-letter label used for table rows, e.g. "Jan".
func MonthLabel(m time.Month) string {
	return m.String()[:3]
}

// ParseMonth accepts a three-letter label or a full English month name,
// ignoring case and surrounding whitespace.
func ParseMonth(s string) (time.Month, bool) {
	s = strings.TrimSpace(s)
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(s, MonthLabel(m)) || strings.EqualFold(s, m.String()) {
			return m, true
		}
	}
	return 0, false
}

// YearlyRates maps a month to its average rate for one year.
type YearlyRates map[time.Month]float64

// RateTable holds monthly rates, rows by month and columns by year.
// The zero value is not usable, use NewRateTable.
type RateTable struct {
	cells map[time.Month]map[int]float64
	years map[int]struct{}
}

func NewRateTable() *RateTable {
	return &RateTable{
		cells: map[time.Month]map[int]float64{},
		years: map[int]struct{}{},
	}
}

// Merge adds one year's rates. A year with no rates adds no column.
func (t *RateTable) Merge(year int, rates YearlyRates) {
	for m, rate := range rates {
		row, ok := t.cells[m]
		if !ok {
			row = map[int]float64{}
			t.cells[m] = row
		}
		row[year] = rate
		t.years[year] = struct{}{}
	}
}

// Months returns the observed months in calendar order.
func (t *RateTable) Months() []time.Month {
	months := make([]time.Month, 0, len(t.cells))
	for m := time.January; m <= time.December; m++ {
		if _, ok := t.cells[m]; ok {
			months = append(months, m)
		}
	}
	return months
}

// Years returns the observed years in ascending order.
func (t *RateTable) Years() []int {
	years := make([]int, 0, len(t.years))
	for y := range t.years {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// Get returns the cell for month m and year, if present.
func (t *RateTable) Get(m time.Month, year int) (float64, bool) {
	rate, ok := t.cells[m][year]
	return rate, ok
}

// Year returns the column for one year.
func (t *RateTable) Year(year int) YearlyRates {
	out := YearlyRates{}
	for m, row := range t.cells {
		if rate, ok := row[year]; ok {
			out[m] = rate
		}
	}
	return out
}

// Empty reports whether the table has no cells.
func (t *RateTable) Empty() bool {
	return len(t.years) == 0
}

// Shape returns rows × columns.
func (t *RateTable) Shape() (int, int) {
	return len(t.cells), len(t.years)
}
