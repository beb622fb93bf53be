package provider

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
)

const (
	defaultSeasonLabel  = "Season"
	defaultEpisodeLabel = "Episode"
)

// EpisodeStrategy reads episodes out of a detail page.
type EpisodeStrategy interface {
	Extract(doc *goquery.Document, source *url.URL) []media.Episode
}

// SeasonStrategy reads episodes grouped under season containers.
type SeasonStrategy struct {
	Name         string
	Container    string // one element per season
	Label        string // season heading inside the container
	Episode      string // episode elements inside the container
	EpisodeLabel string // optional label element inside an episode; its own text otherwise
}

// Extract names each episode "<season label> - <episode label>" and numbers
// seasons by their 1-based position in the document.
func (ss SeasonStrategy) Extract(doc *goquery.Document, source *url.URL) []media.Episode {
	var episodes []media.Episode

	doc.Find(ss.Container).Each(func(i int, season *goquery.Selection) {
		label := cleanText(season.Find(ss.Label).First())
		if label == "" {
			label = defaultSeasonLabel
		}
		number := i + 1

		season.Find(ss.Episode).Each(func(_ int, ep *goquery.Selection) {
			link, err := httputil.Resolve(source, episodeRef(ep))
			if err != nil {
				return
			}

			epLabel := ""
			if ss.EpisodeLabel != "" {
				epLabel = cleanText(ep.Find(ss.EpisodeLabel).First())
			}
			if epLabel == "" {
				epLabel = cleanText(ep)
			}
			if epLabel == "" {
				epLabel = defaultEpisodeLabel
			}

			episodes = append(episodes, media.Episode{
				Name:   fmt.Sprintf("%s - %s", label, epLabel),
				Link:   link,
				Season: &number,
				Kind:   media.KindEpisode,
			})
		})
	})

	return episodes
}

// FlatStrategy reads episode-like elements and source descriptors with no season grouping.
type FlatStrategy struct {
	Name    string
	Element string
}

func (fs FlatStrategy) Extract(doc *goquery.Document, source *url.URL) []media.Episode {
	var episodes []media.Episode

	doc.Find(fs.Element).Each(func(_ int, ep *goquery.Selection) {
		link, err := httputil.Resolve(source, firstAttr(ep, "data-url", "src", "href"))
		if err != nil {
			return
		}

		name := firstAttr(ep, "data-title")
		if name == "" {
			name = cleanText(ep)
		}
		if name == "" {
			name = defaultEpisodeLabel
		}

		episodes = append(episodes, media.Episode{
			Name: name,
			Link: link,
			Kind: media.KindEpisode,
		})
	})

	return episodes
}

// episodeRef finds the link of an episode element: its own data-url or href,
// or the href of its first anchor.
func episodeRef(ep *goquery.Selection) string {
	if ref := firstAttr(ep, "data-url", "href"); ref != "" {
		return ref
	}
	return firstAttr(ep.Find("a").First(), "href")
}

// DefaultEpisodeStrategies is the priority order used by ParseEpisodes:
// season-grouped shapes first, then flat discovery.
var DefaultEpisodeStrategies = []EpisodeStrategy{
	SeasonStrategy{
		Name:         "translation-block",
		Container:    ".film-translation-block",
		Label:        ".season-title, h3",
		Episode:      ".episode, .episode-item",
		EpisodeLabel: ".episode-title",
	},
	SeasonStrategy{
		Name:         "seasons-list",
		Container:    ".seasons-list .season",
		Label:        ".season-title, h3",
		Episode:      ".episode, .episode-item",
		EpisodeLabel: ".episode-title",
	},
	SeasonStrategy{
		Name:         "season-block",
		Container:    ".season-block",
		Label:        ".season-title, h3",
		Episode:      ".episode-item",
		EpisodeLabel: ".episode-title",
	},
	FlatStrategy{
		Name:    "flat",
		Element: ".pgs-player source, .episode-item",
	},
}

// ExtractEpisodes runs strategies in order and returns the first non-empty result.
func ExtractEpisodes(doc *goquery.Document, source *url.URL, strategies []EpisodeStrategy) []media.Episode {
	for _, es := range strategies {
		if episodes := es.Extract(doc, source); len(episodes) > 0 {
			return episodes
		}
	}
	return nil
}

// ParseEpisodes extracts the episodes of a detail page. When nothing is found
// it returns the single media.NoEpisodes sentinel, which callers must not cache.
func ParseEpisodes(markup string, source *url.URL) ([]media.Episode, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	if episodes := ExtractEpisodes(doc, source, DefaultEpisodeStrategies); len(episodes) > 0 {
		return episodes, nil
	}
	return media.NoEpisodes(), nil
}

// ParseSeriesTitle returns the heading of a detail page, or "" when absent.
func ParseSeriesTitle(markup string) string {
	doc, err := parseDocument(markup)
	if err != nil {
		return ""
	}
	return cleanText(doc.Find(".pgs-seria-head h1, h1").First())
}
