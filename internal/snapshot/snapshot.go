// Package snapshot renders a single page in a headless browser and dumps its
// markup to a file.
package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"scrapekit/internal/browser"
	"scrapekit/internal/fetcher"
	"scrapekit/internal/formatter"
)

const (
	DefaultURL     = "https://visualping.io/diff/827381793?disableId=e809c41fc04b4a6&mode=visual"
	DefaultSettle  = 5 * time.Second
	DefaultOutput  = "scraper.html"
	DefaultTimeout = 30 * time.Second
)

// Options describes one capture.
type Options struct {
	URL        string
	Output     string
	Format     string
	WaitFor    fetcher.WaitStrategy
	WaitTarget string
	Settle     time.Duration
	Timeout    time.Duration
}

// DefaultOptions returns the fixed capture used when no flags are given.
func DefaultOptions() Options {
	return Options{
		URL:     DefaultURL,
		Output:  DefaultOutput,
		Format:  formatter.FormatHTML,
		WaitFor: fetcher.WaitStrategyTime,
		Settle:  DefaultSettle,
		Timeout: DefaultTimeout,
	}
}

// Renderer produces the rendered markup of a page.
type Renderer interface {
	Render(ctx context.Context, opts Options) (string, error)
}

// BrowserRenderer renders pages with a freshly launched browser per call.
type BrowserRenderer struct {
	cfg browser.Config
}

func NewBrowserRenderer(cfg browser.Config) *BrowserRenderer {
	return &BrowserRenderer{cfg: cfg}
}

// Render launches the browser, waits according to opts and returns the
// document's outer HTML. The browser is closed before returning.
func (r *BrowserRenderer) Render(ctx context.Context, opts Options) (string, error) {
	b, err := browser.NewContext(ctx, r.cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	result, err := fetcher.NewFetcher(b).Fetch(ctx, opts.URL, fetcher.Options{
		WaitFor:    opts.WaitFor,
		WaitTarget: opts.WaitTarget,
		Settle:     opts.Settle,
		Timeout:    opts.Timeout,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch: %w", err)
	}
	defer result.Page.Close()

	slog.DebugContext(ctx, "page loaded", "url", result.URL, "load_time", result.LoadTime)

	res, err := result.Page.Timeout(10 * time.Second).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("failed to get full HTML: %w", err)
	}

	return res.Value.Str(), nil
}

// Capture renders the page and writes it to opts.Output, replacing any
// existing file. Nothing is written when rendering fails.
func Capture(ctx context.Context, r Renderer, opts Options) error {
	if err := formatter.Validate(opts.Format); err != nil {
		return err
	}

	html, err := r.Render(ctx, opts)
	if err != nil {
		return err
	}

	content, err := formatter.Format(html, opts.Format)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if err := os.WriteFile(opts.Output, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}
