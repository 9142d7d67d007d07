package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Config controls how the browser process is launched.
type Config struct {
	Headless   bool
	DisableGPU bool
	NoSandbox  bool
	ProxyURL   string // empty for a direct connection
	Bin        string // browser binary, empty to let the launcher resolve one
}

// DefaultConfig is a headless browser with GPU acceleration disabled.
func DefaultConfig() Config {
	return Config{
		Headless:   true,
		DisableGPU: true,
	}
}

// Browser wraps a rod.Browser together with the launcher that owns its process.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      Config
}

// New launches a browser process and connects to it.
func New(cfg Config) (*Browser, error) {
	return NewContext(context.Background(), cfg)
}

// NewContext is New bound to ctx; cancelling ctx aborts pending CDP calls.
func NewContext(ctx context.Context, cfg Config) (*Browser, error) {
	l := launcher.New().Context(ctx).Headless(cfg.Headless)

	if cfg.DisableGPU {
		l = l.Set("disable-gpu")
	}
	if cfg.NoSandbox {
		l = l.NoSandbox(true)
	}
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	rb := rod.New().Context(ctx).ControlURL(controlURL)
	if err := rb.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{
		browser:  rb,
		launcher: l,
		cfg:      cfg,
	}, nil
}

// Config returns the configuration the browser was launched with.
func (b *Browser) Config() Config {
	return b.cfg
}

// NewPage opens a blank tab.
func (b *Browser) NewPage() (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Close shuts the browser down and kills the launched process.
func (b *Browser) Close() error {
	var closeErr error
	if b.browser != nil {
		closeErr = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return closeErr
}

// Available reports whether a local browser binary can be found without
// downloading one.
func Available() bool {
	_, ok := launcher.LookPath()
	return ok
}
