package snapshot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scrapekit/internal/browser"
	"scrapekit/internal/fetcher"
	"scrapekit/internal/formatter"

	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	html string
	err  error
	got  Options
}

func (f *fakeRenderer) Render(_ context.Context, opts Options) (string, error) {
	f.got = opts
	return f.html, f.err
}

func TestCaptureWritesMarkup(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scraper.html")
	require.NoError(t, os.WriteFile(out, []byte("stale"), 0644))

	opts := DefaultOptions()
	opts.Output = out
	r := &fakeRenderer{html: "<!DOCTYPE html>\n<html><body>héllo</body></html>"}

	require.NoError(t, Capture(context.Background(), r, opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, r.html, string(data))
	require.Equal(t, DefaultURL, r.got.URL)
	require.Equal(t, DefaultSettle, r.got.Settle)
}

func TestCaptureMarkdown(t *testing.T) {
	out := filepath.Join(t.TempDir(), "page.md")
	opts := DefaultOptions()
	opts.Output = out
	opts.Format = formatter.FormatMarkdown

	r := &fakeRenderer{html: "<html><body><h2>Title</h2></body></html>"}
	require.NoError(t, Capture(context.Background(), r, opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "## Title")
}

func TestCaptureRenderFailureWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "scraper.html")
	opts := DefaultOptions()
	opts.Output = out

	renderErr := errors.New("net::ERR_NAME_NOT_RESOLVED")
	err := Capture(context.Background(), &fakeRenderer{err: renderErr}, opts)
	require.ErrorIs(t, err, renderErr)

	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestCaptureRejectsUnknownFormat(t *testing.T) {
	opts := DefaultOptions()
	opts.Output = filepath.Join(t.TempDir(), "x")
	opts.Format = "pdf"

	r := &fakeRenderer{html: "<html></html>"}
	require.Error(t, Capture(context.Background(), r, opts))
	require.Empty(t, r.got.URL)
}

func TestBrowserCaptureUnreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if !browser.Available() {
		t.Skip("no local browser found")
	}

	cfg := browser.DefaultConfig()
	cfg.NoSandbox = true

	out := filepath.Join(t.TempDir(), "scraper.html")
	opts := DefaultOptions()
	opts.URL = "http://unreachable.invalid/"
	opts.Output = out
	opts.WaitFor = fetcher.WaitStrategyLoad
	opts.Timeout = 20 * time.Second

	err := Capture(context.Background(), NewBrowserRenderer(cfg), opts)
	require.Error(t, err)

	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestBrowserCaptureKeepsMarkup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if !browser.Available() {
		t.Skip("no local browser found")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><p id="x">rendered</p><script>var s = "<!DOCTYPE html>";</script></body></html>`))
	}))
	defer server.Close()

	cfg := browser.DefaultConfig()
	cfg.NoSandbox = true

	out := filepath.Join(t.TempDir(), "scraper.html")
	opts := DefaultOptions()
	opts.URL = server.URL
	opts.Output = out
	opts.WaitFor = fetcher.WaitStrategyElement
	opts.WaitTarget = "#x"
	opts.Timeout = 20 * time.Second

	require.NoError(t, Capture(context.Background(), NewBrowserRenderer(cfg), opts))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "<html"), "unexpected prefix: %.40q", data)
	require.Contains(t, string(data), "rendered")
}
