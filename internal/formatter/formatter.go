package formatter

import (
	"fmt"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Validate reports whether format is supported.
func Validate(format string) error {
	switch format {
	case FormatHTML, FormatMarkdown, FormatText:
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// Format converts rendered page markup to the requested format.
// html is returned verbatim.
func Format(html, format string) (string, error) {
	switch format {
	case FormatHTML:
		return html, nil
	case FormatMarkdown:
		return toMarkdown(html)
	case FormatText:
		return toText(html)
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// InferFromExtension maps an output filename to a format, or "" if unknown.
func InferFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm":
		return FormatHTML
	case ".txt":
		return FormatText
	default:
		return ""
	}
}

func toMarkdown(html string) (string, error) {
	body, err := parseBody(html)
	if err != nil {
		return "", err
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return converter.Convert(body), nil
}

func toText(html string) (string, error) {
	body, err := parseBody(html)
	if err != nil {
		return "", err
	}

	lines := strings.Split(body.Text(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

// parseBody returns the document body with scripts and styles removed, or
// the whole document when there is no body element.
func parseBody(html string) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	return body, nil
}
