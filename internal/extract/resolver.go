package extract

import (
	"context"
	"log/slog"

	"seasonvar/internal/cache"
	"seasonvar/internal/media"
)

// Observer receives resolution outcomes. metrics.Metrics implements it.
type Observer interface {
	ObserveResolution(outcome string)
}

// Resolver caches Extractor results per episode URL.
//
// Cached links carry no TTL: a resolved stream URL is treated as stable for
// its episode until Forget is called. Only non-empty, non-sentinel results
// are stored.
type Resolver struct {
	extractor Extractor
	cache     *cache.Store
	observer  Observer
	log       *slog.Logger
}

// NewResolver wires an extractor to a cache. observer and logger may be nil.
func NewResolver(e Extractor, c *cache.Store, observer Observer, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{extractor: e, cache: c, observer: observer, log: logger}
}

// CacheName is the logical cache name of an episode's links.
func CacheName(episodeURL string) string {
	return "video_" + episodeURL
}

// Resolve returns the stream candidates of an episode. When the page and its
// frame expose nothing it returns the media.NoVideo sentinel. Fetch failures
// are returned as errors and nothing is cached.
func (r *Resolver) Resolve(ctx context.Context, episodeURL string) ([]media.VideoLink, error) {
	name := CacheName(episodeURL)
	if links, _, ok := cache.Load[media.VideoLink](r.cache, name); ok {
		r.observe("cached")
		return links, nil
	}

	links, err := r.extractor.Extract(ctx, episodeURL)
	if err != nil {
		r.observe("error")
		return nil, err
	}
	if len(links) == 0 {
		r.observe("not_found")
		r.log.Info("no video found", "episode", episodeURL)
		return media.NoVideo(), nil
	}

	if _, err := cache.Save(r.cache, name, links); err != nil {
		r.log.Warn("caching video links failed", "episode", episodeURL, "error", err)
	}
	r.observe("resolved")
	return links, nil
}

// Forget drops the cached links of an episode.
func (r *Resolver) Forget(episodeURL string) error {
	return r.cache.Invalidate(CacheName(episodeURL))
}

func (r *Resolver) observe(outcome string) {
	if r.observer != nil {
		r.observer.ObserveResolution(outcome)
	}
}
