package xrates

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoRateList is returned when the page has no monthly average list.
var ErrNoRateList = errors.New("monthly average list not found")

var numberRe = regexp.MustCompile(`[\d.]+`)

// ExtractRate returns the first number-looking token of s. The token is not
// checked for being a plausible rate. A token that does not parse as a float
// (".", "1.2.3") reports false, which drops that month only; the rest of the
// year is kept.
func ExtractRate(s string) (float64, bool) {
	token := numberRe.FindString(s)
	if token == "" {
		return 0, false
	}
	rate, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return rate, true
}

// Document is a parsed rates page. FindRateList must succeed before Rates is
// meaningful.
type Document struct {
	doc  *goquery.Document
	list *goquery.Selection
}

// ParseDocument parses an x-rates monthly average page.
func ParseDocument(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// FindRateList locates the ul.OutputLinksAvg container.
func (d *Document) FindRateList() error {
	list := d.doc.Find("ul.OutputLinksAvg").First()
	if list.Length() == 0 {
		return ErrNoRateList
	}
	d.list = list
	return nil
}

// Rates reads month/rate pairs from the list. Entries without both spans, with
// an unknown month or without a number are skipped.
func (d *Document) Rates() YearlyRates {
	rates := YearlyRates{}
	if d.list == nil {
		return rates
	}

	d.list.Find("li").Each(func(_ int, li *goquery.Selection) {
		monthSpan := li.Find("span.avgMonth").First()
		rateSpan := li.Find("span.avgRate").First()
		if monthSpan.Length() == 0 || rateSpan.Length() == 0 {
			return
		}

		month, ok := ParseMonth(monthSpan.Text())
		if !ok {
			return
		}

		rate, ok := ExtractRate(strings.TrimSpace(rateSpan.Text()))
		if !ok {
			return
		}
		rates[month] = rate
	})

	return rates
}

// ParseRates is FindRateList followed by Rates.
func ParseRates(r io.Reader) (YearlyRates, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return nil, err
	}
	if err := doc.FindRateList(); err != nil {
		return nil, err
	}
	return doc.Rates(), nil
}
