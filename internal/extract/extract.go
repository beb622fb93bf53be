// Package extract resolves episode pages into candidate stream URLs.
//
// A page either carries direct <video><source> descriptors, or embeds a
// player frame whose markup mentions the stream in a script. The frame is
// unstructured text, so it is scanned with patterns instead of parsed.
package extract

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
)

// Extractor finds stream candidates on an episode page. An empty result with
// a nil error means the page was read but exposes no stream.
type Extractor interface {
	Extract(ctx context.Context, pageURL string) ([]media.VideoLink, error)
}

// PageExtractor reads direct sources and follows at most one player frame.
type PageExtractor struct {
	fetcher httputil.Fetcher
}

// NewPageExtractor creates a PageExtractor fetching through f.
func NewPageExtractor(f httputil.Fetcher) *PageExtractor {
	return &PageExtractor{fetcher: f}
}

// Extract returns the page's direct sources when it has any; otherwise it
// fetches the first embedded frame and scans that.
func (p *PageExtractor) Extract(ctx context.Context, pageURL string) ([]media.VideoLink, error) {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing episode URL: %w", err)
	}

	markup, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching episode page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing episode page: %w", err)
	}

	if links := DirectSources(doc, page); len(links) > 0 {
		return links, nil
	}

	frameURL := FrameURL(doc, page)
	if frameURL == "" {
		return nil, nil
	}
	frame, err := url.Parse(frameURL)
	if err != nil {
		return nil, fmt.Errorf("parsing frame URL: %w", err)
	}

	frameMarkup, err := p.fetcher.Fetch(ctx, frameURL)
	if err != nil {
		return nil, fmt.Errorf("fetching player frame: %w", err)
	}
	return slices.Collect(FrameLinks(frameMarkup, frame)), nil
}

// DirectSources classifies every <video><source src> on the page.
func DirectSources(doc *goquery.Document, page *url.URL) []media.VideoLink {
	var links []media.VideoLink
	doc.Find("video source").Each(func(_ int, s *goquery.Selection) {
		file, err := httputil.Resolve(page, s.AttrOr("src", ""))
		if err != nil {
			return
		}
		links = append(links, media.VideoLink{File: file, Format: Classify(file)})
	})
	return links
}

// FrameURL returns the absolute URL of the first embedded frame, or "".
func FrameURL(doc *goquery.Document, page *url.URL) string {
	var frame string
	doc.Find("iframe").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		ref := strings.TrimSpace(s.AttrOr("src", ""))
		if ref == "" {
			ref = strings.TrimSpace(s.AttrOr("data-src", ""))
		}
		if abs, err := httputil.Resolve(page, ref); err == nil {
			frame = abs
			return false
		}
		return true
	})
	return frame
}

// Classify tags a stream URL by its path suffix: .m3u8 is HLS, anything else MP4.
func Classify(file string) media.Format {
	path := file
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if strings.HasSuffix(strings.ToLower(path), ".m3u8") {
		return media.FormatHLS
	}
	return media.FormatMP4
}
