package xrates

import (
	"context"
	"log/slog"
	"time"
)

// YearFetcher fetches one year of rates. *Client implements it.
type YearFetcher interface {
	FetchYear(ctx context.Context, year int, pair Pair) YearResult
}

// Collector walks a year range sequentially and builds a RateTable.
type Collector struct {
	fetcher YearFetcher
	delay   time.Duration
	now     func() time.Time
	sleep   func(context.Context, time.Duration) error
}

// NewCollector pauses delays.BetweenYears between consecutive years.
func NewCollector(f YearFetcher, delays DelayPolicy) *Collector {
	return &Collector{
		fetcher: f,
		delay:   delays.BetweenYears,
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// CurrentYear is the calendar year used when no end year is given.
func (c *Collector) CurrentYear() int {
	return c.now().Year()
}

// Collect fetches every year in [start, end]; end <= 0 means the current
// year. Unavailable years are left out of the table but kept in the returned
// results. The error is non-nil only when ctx is done, and the table then
// holds whatever was collected so far.
func (c *Collector) Collect(ctx context.Context, start, end int, pair Pair) (*RateTable, []YearResult, error) {
	if end <= 0 {
		end = c.CurrentYear()
	}

	table := NewRateTable()
	var results []YearResult

	for year := start; year <= end; year++ {
		if year > start {
			if err := c.sleep(ctx, c.delay); err != nil {
				return table, results, err
			}
		}

		result := c.fetcher.FetchYear(ctx, year, pair)
		results = append(results, result)

		if !result.Available() {
			if err := ctx.Err(); err != nil {
				return table, results, err
			}
			slog.DebugContext(ctx, "skipping unavailable year", "year", year, "err", result.Err)
			continue
		}
		table.Merge(year, result.Rates)
	}

	return table, results, nil
}
