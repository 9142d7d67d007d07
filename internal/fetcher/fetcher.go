package fetcher

import (
	"context"
	"fmt"
	"time"

	"scrapekit/internal/browser"

	"github.com/go-rod/rod"
)

// WaitStrategy decides what "rendered" means before the markup is read.
type WaitStrategy string

const (
	WaitStrategyLoad    WaitStrategy = "load"    // load event only
	WaitStrategyElement WaitStrategy = "element" // load event, then a selector must appear
	WaitStrategyTime    WaitStrategy = "time"    // load event, then a fixed settle delay
)

// ParseWaitStrategy validates a strategy name coming from a flag.
func ParseWaitStrategy(s string) (WaitStrategy, error) {
	switch WaitStrategy(s) {
	case WaitStrategyLoad, WaitStrategyElement, WaitStrategyTime:
		return WaitStrategy(s), nil
	default:
		return "", fmt.Errorf("invalid wait strategy: %s", s)
	}
}

// Options for a single navigation.
type Options struct {
	Headers    map[string]string
	WaitFor    WaitStrategy
	WaitTarget string        // selector for the element strategy
	Settle     time.Duration // delay for the time strategy
	Timeout    time.Duration // navigation and element wait timeout
}

// FetchResult is a navigated page. The caller owns Page and must close it.
type FetchResult struct {
	Page     *rod.Page
	URL      string
	LoadTime time.Duration
}

// Fetcher navigates pages of a single browser.
type Fetcher struct {
	browser *browser.Browser
}

// NewFetcher creates a new Fetcher instance
func NewFetcher(b *browser.Browser) *Fetcher {
	return &Fetcher{browser: b}
}

// Fetch opens a new page, navigates to url and applies the wait strategy.
func (f *Fetcher) Fetch(ctx context.Context, url string, opts Options) (*FetchResult, error) {
	startTime := time.Now()

	page, err := f.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page = page.Context(ctx)

	if len(opts.Headers) > 0 {
		headerList := make([]string, 0, len(opts.Headers)*2)
		for k, v := range opts.Headers {
			headerList = append(headerList, k, v)
		}
		cleanup, err := page.SetExtraHeaders(headerList)
		if err != nil {
			page.Close()
			return nil, fmt.Errorf("failed to set headers: %w", err)
		}
		defer cleanup()
	}

	if err := withTimeout(page, opts.Timeout).Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	if err := withTimeout(page, opts.Timeout).WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to wait for page load: %w", err)
	}

	if err := applyWaitStrategy(ctx, page, opts); err != nil {
		page.Close()
		return nil, fmt.Errorf("wait strategy failed: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to get page info: %w", err)
	}

	return &FetchResult{
		Page:     page,
		URL:      info.URL,
		LoadTime: time.Since(startTime),
	}, nil
}

func applyWaitStrategy(ctx context.Context, page *rod.Page, opts Options) error {
	switch opts.WaitFor {
	case WaitStrategyLoad, "":
		return nil

	case WaitStrategyElement:
		if opts.WaitTarget == "" {
			return fmt.Errorf("wait target is required for element strategy")
		}
		if _, err := withTimeout(page, opts.Timeout).Element(opts.WaitTarget); err != nil {
			return fmt.Errorf("failed to wait for element '%s': %w", opts.WaitTarget, err)
		}
		return nil

	case WaitStrategyTime:
		return sleep(ctx, opts.Settle)

	default:
		return fmt.Errorf("invalid wait strategy: %s", opts.WaitFor)
	}
}

func withTimeout(page *rod.Page, d time.Duration) *rod.Page {
	if d <= 0 {
		return page
	}
	return page.Timeout(d)
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
