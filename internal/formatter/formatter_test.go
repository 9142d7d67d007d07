package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html><head><title>t</title><script>var x = 1;</script></head>
<body>
  <h1>Rates</h1>
  <p>Monthly   average</p>
  <table>
    <tr><th>Month</th><th>Rate</th></tr>
    <tr><td>Jan</td><td>83.12</td></tr>
  </table>
</body></html>`

func TestFormatHTMLIsVerbatim(t *testing.T) {
	out, err := Format(page, FormatHTML)
	require.NoError(t, err)
	require.Equal(t, page, out)
}

func TestFormatMarkdown(t *testing.T) {
	out, err := Format(page, FormatMarkdown)
	require.NoError(t, err)
	require.Contains(t, out, "# Rates")
	require.Contains(t, out, "| Month | Rate |")
	require.Contains(t, out, "| --- | --- |")
	require.Contains(t, out, "| Jan | 83.12 |")
	require.NotContains(t, out, `\|`)
	require.NotContains(t, out, "var x")
	require.False(t, strings.HasPrefix(out, "t\n"), "title leaked into body: %q", out)
}

func TestFormatMarkdownHeaderRowOnce(t *testing.T) {
	testCases := []struct {
		name  string
		table string
	}{
		{"implicit body", `<table><tr><th>Month</th><th>Rate</th></tr><tr><td>Feb</td><td>83.5</td></tr></table>`},
		{"explicit head", `<table><thead><tr><th>Month</th><th>Rate</th></tr></thead><tbody><tr><td>Feb</td><td>83.5</td></tr></tbody></table>`},
	}

	for _, test := range testCases {
		out, err := Format("<html><body>"+test.table+"</body></html>", FormatMarkdown)
		require.NoError(t, err, test.name)
		require.Equal(t, 1, strings.Count(out, "| Month | Rate |"), "%s: %q", test.name, out)
		require.Equal(t, 1, strings.Count(out, "| Feb | 83.5 |"), "%s: %q", test.name, out)
	}
}

func TestFormatText(t *testing.T) {
	out, err := Format(page, FormatText)
	require.NoError(t, err)
	require.Contains(t, out, "Rates")
	require.Contains(t, out, "Monthly   average")
	require.NotContains(t, out, "var x")
	require.NotContains(t, out, "<h1>")
}

func TestFormatUnsupported(t *testing.T) {
	_, err := Format(page, "pdf")
	require.Error(t, err)
	require.Error(t, Validate("pdf"))
	require.NoError(t, Validate(FormatMarkdown))
}

func TestInferFromExtension(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"scraper.html", FormatHTML},
		{"page.HTM", FormatHTML},
		{"notes.md", FormatMarkdown},
		{"dump.txt", FormatText},
		{"data.bin", ""},
		{"noext", ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, InferFromExtension(test.name), test.name)
	}
}
