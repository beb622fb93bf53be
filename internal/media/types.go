// Package media defines shared types for the seasonvar application.
package media

// Kind tags what a catalog entry or episode represents.
type Kind string

const (
	KindMovie    Kind = "movie"
	KindCategory Kind = "category"
	KindEpisode  Kind = "episode"
	KindInfo     Kind = "info" // placeholder, never a real result
)

// Format is the stream type of a resolved video link.
type Format string

const (
	FormatMP4   Format = "mp4"
	FormatHLS   Format = "hls"
	FormatError Format = "error"
)

// PlaceholderLink is the link carried by sentinel results.
const PlaceholderLink = "#"

// ContentItem is a single entry of a listing page (search results, category pages).
type ContentItem struct {
	Name   string `json:"name"`
	Link   string `json:"link"`             // Absolute URL to the detail page
	Poster string `json:"poster,omitempty"` // Absolute poster URL, empty when the listing has none
	Kind   Kind   `json:"type"`
}

// Episode is a playable entry discovered on a detail page.
type Episode struct {
	Name   string `json:"name"`
	Link   string `json:"link"`
	Season *int   `json:"season,omitempty"` // 1-based season position, nil for flat episode lists
	Kind   Kind   `json:"type"`
}

// IsSentinel reports whether the episode is the "nothing found" placeholder.
func (e Episode) IsSentinel() bool {
	return e.Kind == KindInfo
}

// VideoLink is a candidate stream URL for an episode.
type VideoLink struct {
	File   string `json:"file"`
	Format Format `json:"type"`
	Note   string `json:"error,omitempty"`
}

// IsSentinel reports whether the link signals a failed resolution.
func (v VideoLink) IsSentinel() bool {
	return v.Format == FormatError
}

// NoEpisodes returns the sentinel produced when a detail page yields nothing.
func NoEpisodes() []Episode {
	return []Episode{{Name: "No episodes found", Link: PlaceholderLink, Kind: KindInfo}}
}

// NoVideo returns the sentinel produced when no stream could be located.
func NoVideo() []VideoLink {
	return []VideoLink{{File: PlaceholderLink, Format: FormatError, Note: "video not found"}}
}
