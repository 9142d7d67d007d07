package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"scrapekit/internal/browser"
	"scrapekit/internal/fetcher"
	"scrapekit/internal/formatter"
	"scrapekit/internal/snapshot"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	targetURL    string
	outputFile   string
	outputFormat string
	waitFor      string
	waitTarget   string
	settle       time.Duration
	timeout      time.Duration
	proxyURL     string
	showUI       bool
	noSandbox    bool
	verbose      bool
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "snapshot",
		Short:   "Render a page in a headless browser and save its HTML",
		Version: version,
		Long: `snapshot launches a headless browser with GPU acceleration disabled,
opens a page, waits for client-side rendering to settle and writes the
rendered document to a file. With no flags it captures the built-in page
to scraper.html after a 5 second wait.`,
		Example: `  # Capture the default page
  snapshot

  # Capture another page, wait for an element instead of a fixed delay
  snapshot -u https://example.com -o example.html --wait-for element -T "#content"

  # Save as markdown
  snapshot -u https://example.com -o example.md`,
		Args:         cobra.NoArgs,
		RunE:         run,
		SilenceUsage: true,
	}

	defaults := snapshot.DefaultOptions()
	rootCmd.Flags().StringVarP(&targetURL, "url", "u", defaults.URL, "Page to capture")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", defaults.Output, "Output file path (format inferred from extension if -f not specified)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Output format (html, markdown, text)")
	rootCmd.Flags().StringVar(&waitFor, "wait-for", string(defaults.WaitFor), "Wait strategy after load (load, element, time)")
	rootCmd.Flags().StringVarP(&waitTarget, "wait-target", "T", "", "Selector for the 'element' wait strategy")
	rootCmd.Flags().DurationVarP(&settle, "wait", "w", defaults.Settle, "Settle delay for the 'time' wait strategy")
	rootCmd.Flags().DurationVarP(&timeout, "timeout", "t", defaults.Timeout, "Navigation timeout")
	rootCmd.Flags().StringVarP(&proxyURL, "proxy", "p", os.Getenv("SNAPSHOT_PROXY"), "Proxy URL (e.g. http://127.0.0.1:7890), defaults to SNAPSHOT_PROXY env var")
	rootCmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	rootCmd.Flags().BoolVar(&noSandbox, "no-sandbox", false, "Disable the browser sandbox (needed when running as root in containers)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// If format is not specified, infer it from the output file extension
	if outputFormat == "" {
		outputFormat = formatter.InferFromExtension(outputFile)
		if outputFormat == "" {
			outputFormat = formatter.FormatHTML
		}
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	cfg := browser.DefaultConfig()
	cfg.Headless = !showUI
	cfg.NoSandbox = noSandbox
	cfg.ProxyURL = proxyURL

	fmt.Fprintf(os.Stderr, "Capturing %s\n", opts.URL)
	if err := snapshot.Capture(cmd.Context(), snapshot.NewBrowserRenderer(cfg), opts); err != nil {
		return fmt.Errorf("failed to capture page: %w", err)
	}

	fmt.Fprintf(os.Stderr, "HTML content saved to '%s'\n", opts.Output)
	return nil
}

func buildOptions() (snapshot.Options, error) {
	if err := formatter.Validate(outputFormat); err != nil {
		return snapshot.Options{}, err
	}

	strategy, err := fetcher.ParseWaitStrategy(waitFor)
	if err != nil {
		return snapshot.Options{}, err
	}
	if strategy == fetcher.WaitStrategyElement && waitTarget == "" {
		return snapshot.Options{}, fmt.Errorf("--wait-target is required when using 'element' wait strategy")
	}
	if strategy != fetcher.WaitStrategyElement && waitTarget != "" {
		return snapshot.Options{}, fmt.Errorf("--wait-target is only valid with 'element' wait strategy")
	}
	if targetURL == "" {
		return snapshot.Options{}, fmt.Errorf("--url must not be empty")
	}

	return snapshot.Options{
		URL:        targetURL,
		Output:     outputFile,
		Format:     outputFormat,
		WaitFor:    strategy,
		WaitTarget: waitTarget,
		Settle:     settle,
		Timeout:    timeout,
	}, nil
}
