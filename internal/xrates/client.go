package xrates

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultBaseURL = "https://www.x-rates.com/average/"

// ErrUnavailable marks a year for which no rates could be obtained.
var ErrUnavailable = errors.New("rates unavailable")

// DefaultHeaders mimic a desktop browser. Accept-Encoding is left to the
// transport so compressed bodies are decoded transparently.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"User-Agent":                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
}

// ClientConfig is fixed for the lifetime of a Client.
type ClientConfig struct {
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL: DefaultBaseURL,
		Headers: DefaultHeaders(),
		Timeout: 10 * time.Second,
	}
}

// DelayPolicy holds the courtesy pauses between network operations.
type DelayPolicy struct {
	AfterResponse time.Duration
	BeforeParse   time.Duration
	BetweenYears  time.Duration
}

func DefaultDelayPolicy() DelayPolicy {
	return DelayPolicy{
		AfterResponse: time.Second,
		BeforeParse:   500 * time.Millisecond,
		BetweenYears:  2 * time.Second,
	}
}

// Pair is a currency conversion query.
type Pair struct {
	From   string
	To     string
	Amount float64
}

// NewPair returns a pair for an amount of 1.
func NewPair(from, to string) Pair {
	return Pair{From: from, To: to, Amount: 1}
}

func (p Pair) String() string {
	return p.From + "/" + p.To
}

func (p Pair) query(year int) map[string]string {
	amount := p.Amount
	if amount == 0 {
		amount = 1
	}
	return map[string]string{
		"from":   p.From,
		"to":     p.To,
		"amount": strconv.FormatFloat(amount, 'f', -1, 64),
		"year":   strconv.Itoa(year),
	}
}

// YearResult is the outcome of fetching one year. Err is non-nil when the
// year is unavailable; Rates is then nil.
type YearResult struct {
	Year  int
	Rates YearlyRates
	Err   error
}

func (r YearResult) Available() bool {
	return r.Err == nil
}

func unavailable(year int, err error) YearResult {
	return YearResult{Year: year, Err: err}
}

// Client fetches monthly average rates from x-rates.
type Client struct {
	cfg    ClientConfig
	delays DelayPolicy
	http   *resty.Client
	sleep  func(context.Context, time.Duration) error
}

func NewClient(cfg ClientConfig, delays DelayPolicy) *Client {
	rc := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeaders(cfg.Headers)

	return &Client{
		cfg:    ClientConfig{BaseURL: cfg.BaseURL, Headers: maps.Clone(cfg.Headers), Timeout: cfg.Timeout},
		delays: delays,
		http:   rc,
		sleep:  sleepContext,
	}
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() ClientConfig {
	cfg := c.cfg
	cfg.Headers = maps.Clone(c.cfg.Headers)
	return cfg
}

// FetchYear fetches and parses one year of monthly averages. Network and
// parse failures are logged and reported as an unavailable result.
func (c *Client) FetchYear(ctx context.Context, year int, pair Pair) YearResult {
	log := slog.With("year", year, "pair", pair.String())
	log.InfoContext(ctx, "fetching year")

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(pair.query(year)).
		Get(c.cfg.BaseURL)
	if err != nil {
		log.WarnContext(ctx, "failed to fetch year", "err", err)
		return unavailable(year, fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	if !res.IsSuccess() {
		err := fmt.Errorf("%w: unexpected status %s", ErrUnavailable, res.Status())
		log.WarnContext(ctx, "failed to fetch year", "status", res.StatusCode(), "err", err)
		return unavailable(year, err)
	}

	if err := c.sleep(ctx, c.delays.AfterResponse); err != nil {
		return unavailable(year, err)
	}

	doc, err := ParseDocument(bytes.NewReader(res.Body()))
	if err != nil {
		log.WarnContext(ctx, "failed to parse year", "err", err)
		return unavailable(year, fmt.Errorf("%w: %w", ErrUnavailable, err))
	}
	if err := doc.FindRateList(); err != nil {
		log.WarnContext(ctx, "could not find rate list", "err", err)
		return unavailable(year, fmt.Errorf("%w: %w", ErrUnavailable, err))
	}

	if err := c.sleep(ctx, c.delays.BeforeParse); err != nil {
		return unavailable(year, err)
	}

	rates := doc.Rates()
	log.InfoContext(ctx, "fetched year", "months", len(rates))
	return YearResult{Year: year, Rates: rates}
}

func sleepContext(ctx context.Context, d time.Duration) error {
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
