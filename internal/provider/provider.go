// Package provider turns upstream listing and detail pages into catalog items
// and episodes.
//
// The upstream markup is not under our control and has changed shape many
// times, so each page type is read through an ordered list of strategies.
// Strategies are tried in priority order and the first one that yields at
// least one result wins; results are never merged across strategies, which
// keeps overlapping selectors from producing duplicates.
package provider

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseDocument parses raw markup with goquery.
// Uses DOM parsing instead of regexes on raw HTML so malformed markup degrades to fewer matches.
func parseDocument(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// cleanText collapses runs of whitespace in an element's text.
func cleanText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// firstAttr returns the first non-blank attribute among names.
func firstAttr(s *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(s.AttrOr(name, "")); v != "" {
			return v
		}
	}
	return ""
}
