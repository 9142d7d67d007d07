package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"scrapekit/internal/report"
	"scrapekit/internal/sheet"
	"scrapekit/internal/xrates"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	startYear       int
	endYear         int
	fromCurrency    string
	toCurrency      string
	amount          float64
	outputFile      string
	currentYearOnly bool
	configFile      string
	verbose         bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "xrates",
		Short:   "Collect monthly average exchange rates from x-rates.com into a spreadsheet",
		Version: version,
		Example: `  # USD to INR from 2015 up to this year
  xrates

  # EUR to USD for a fixed range, explicit output file
  xrates --start-year 2019 --end-year 2021 --from-currency EUR --to-currency USD --output eur_usd.xlsx

  # Only the current year
  xrates --current-year-only`,
		Args:         cobra.NoArgs,
		RunE:         run,
		SilenceUsage: true,
	}

	rootCmd.Flags().IntVar(&startYear, "start-year", 2015, "Start year for data collection")
	rootCmd.Flags().IntVar(&endYear, "end-year", 0, "End year for data collection (default: current year)")
	rootCmd.Flags().StringVar(&fromCurrency, "from-currency", "USD", "Source currency")
	rootCmd.Flags().StringVar(&toCurrency, "to-currency", "INR", "Target currency")
	rootCmd.Flags().Float64Var(&amount, "amount", 1, "Amount of source currency to convert")
	rootCmd.Flags().StringVar(&outputFile, "output", "", "Output filename (default: auto-generated)")
	rootCmd.Flags().BoolVar(&currentYearOnly, "current-year-only", false, "Fetch only current year data")
	rootCmd.Flags().StringVar(&configFile, "config", "xrates.json5", "Optional config file (base URL, headers, timeout, delays)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	setupLogging()

	if amount <= 0 {
		return fmt.Errorf("--amount must be positive")
	}

	settings, err := xrates.LoadSettings(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	clientCfg, err := settings.ClientConfig()
	if err != nil {
		return err
	}
	delays, err := settings.DelayPolicy()
	if err != nil {
		return err
	}

	pair := xrates.NewPair(fromCurrency, toCurrency)
	pair.Amount = amount

	collector := xrates.NewCollector(xrates.NewClient(clientCfg, delays), delays)

	start, end := startYear, endYear
	if currentYearOnly {
		start = collector.CurrentYear()
		end = start
		fmt.Fprintf(os.Stderr, "Fetching data for current year only: %d\n", start)
	} else {
		if end <= 0 {
			end = collector.CurrentYear()
		}
		if start > end {
			slog.Warn("start year is after end year, nothing to fetch", "start", start, "end", end)
		}
		fmt.Fprintf(os.Stderr, "Fetching data from %d to %d\n", start, end)
	}

	ctx := cmd.Context()
	table, results, err := collector.Collect(ctx, start, end, pair)
	if err != nil {
		return fmt.Errorf("collection interrupted: %w", err)
	}

	for _, r := range results {
		if r.Available() {
			fmt.Fprintf(os.Stderr, "%d: %d months\n", r.Year, len(r.Rates))
		} else {
			fmt.Fprintf(os.Stderr, "%d: no data (%v)\n", r.Year, r.Err)
		}
	}

	out := cmd.OutOrStdout()
	if table.Empty() {
		fmt.Fprintln(out, "\n✗ No data was collected. Please check the website and try again.")
		return nil
	}

	fmt.Fprintln(out)
	report.Summary(out, table)
	fmt.Fprintln(out, "\nPreview of data:")
	report.Preview(out, table, 5)

	filename, err := sheet.Export(table, outputFile, pair, time.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save spreadsheet", "err", err)
		fmt.Fprintln(out, "\n✗ Failed to save data to Excel")
		return nil
	}

	fmt.Fprintf(out, "\n✓ Successfully saved exchange rate data to: %s\n", filename)
	return nil
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
