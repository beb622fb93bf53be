package provider

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
)

// CatalogStrategy reads listing items out of one known markup shape.
type CatalogStrategy struct {
	Name      string
	Container string // one element per listed item
	Title     string // title element inside the container
	Link      string // element carrying href; empty when the title element does
}

// DefaultCatalogStrategies is the priority order used by ParseCatalog.
var DefaultCatalogStrategies = []CatalogStrategy{
	{Name: "serials-list", Container: ".pgs-serials-list .short", Title: ".title a, .short-title a"},
	{Name: "short-story", Container: ".short-story", Title: ".title a, .short-title a"},
	{Name: "film-list", Container: ".pgs-serials-list .film-list-item", Title: ".film-title", Link: "a"},
}

// Extract returns the items this strategy finds, in document order.
// An item without a title or a resolvable link is skipped on its own.
func (cs CatalogStrategy) Extract(doc *goquery.Document, base *url.URL) []media.ContentItem {
	var items []media.ContentItem

	doc.Find(cs.Container).Each(func(_ int, s *goquery.Selection) {
		titleEl := s.Find(cs.Title).First()
		title := cleanText(titleEl)
		if title == "" {
			return
		}

		linkEl := titleEl
		if cs.Link != "" {
			linkEl = s.Find(cs.Link).First()
		}
		link, err := httputil.Resolve(base, linkEl.AttrOr("href", ""))
		if err != nil {
			return
		}

		item := media.ContentItem{
			Name: title,
			Link: link,
			Kind: media.KindMovie,
		}
		if src := firstAttr(s.Find("img").First(), "src", "data-src"); src != "" {
			if poster, err := httputil.Resolve(base, src); err == nil {
				item.Poster = poster
			}
		}
		items = append(items, item)
	})

	return items
}

// ExtractCatalog runs strategies in order and returns the first non-empty result.
func ExtractCatalog(doc *goquery.Document, base *url.URL, strategies []CatalogStrategy) []media.ContentItem {
	for _, cs := range strategies {
		if items := cs.Extract(doc, base); len(items) > 0 {
			return items
		}
	}
	return nil
}

// ParseCatalog extracts the content items of a listing page. Relative links
// and posters are resolved against base. No match is not an error: the result
// is simply empty.
func ParseCatalog(markup string, base *url.URL) ([]media.ContentItem, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	return ExtractCatalog(doc, base, DefaultCatalogStrategies), nil
}
