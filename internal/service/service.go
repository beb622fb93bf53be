// Package service orchestrates fetching, parsing and caching of upstream
// content and is the boundary where pipeline errors are downgraded: every
// method returns a displayable (possibly empty or sentinel) list, never an
// error.
package service

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"seasonvar/internal/cache"
	"seasonvar/internal/extract"
	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
	"seasonvar/internal/metrics"
	"seasonvar/internal/provider"
)

// DefaultTTL is how long a listing stays fresh.
const DefaultTTL = 6 * time.Hour

// Options tunes a Service.
type Options struct {
	// TTL is the freshness window of cached listings. Zero makes every
	// listing stale, so it is refetched on each call and the cache only
	// serves as a fallback. Callers wanting the usual window pass DefaultTTL.
	TTL     time.Duration
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Service is the content pipeline.
//
// Concurrent calls for the same cache name or episode URL share one
// in-flight request: late callers wait for the first caller's result instead
// of fetching again. The shared request is detached from every caller's
// cancellation and bounded by the fetcher's timeout; a caller whose context
// ends stops waiting and gets its own fallback while the others keep waiting.
type Service struct {
	base     *url.URL
	fetcher  httputil.Fetcher
	cache    *cache.Store
	resolver *extract.Resolver
	ttl      time.Duration
	metrics  *metrics.Metrics
	log      *slog.Logger

	flights singleflight.Group
}

// New creates a Service. Relative catalog links are resolved against base.
func New(base *url.URL, f httputil.Fetcher, c *cache.Store, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		base:     base,
		fetcher:  f,
		cache:    c,
		resolver: extract.NewResolver(extract.NewPageExtractor(f), c, opts.Metrics, opts.Logger),
		ttl:      opts.TTL,
		metrics:  opts.Metrics,
		log:      opts.Logger,
	}
}

// Base returns the upstream base URL.
func (s *Service) Base() *url.URL {
	return s.base
}

// Categories returns the fixed top-level categories. It never touches the network.
func (s *Service) Categories() []media.ContentItem {
	base := s.base.String()
	return []media.ContentItem{
		{Name: "New", Link: httputil.BuildURL(base, "new"), Kind: media.KindCategory},
		{Name: "Popular", Link: httputil.BuildURL(base, "top"), Kind: media.KindCategory},
		{Name: "Genres", Link: httputil.BuildURL(base, "genres"), Kind: media.KindCategory},
	}
}

// Search lists the upstream search results for query. Surrounding
// whitespace is not significant.
func (s *Service) Search(ctx context.Context, query string) []media.ContentItem {
	query = strings.TrimSpace(query)
	return s.ListCatalog(ctx, httputil.SearchURL(s.base, query), "search_"+query)
}

// Category lists the items of a category returned by Categories.
func (s *Service) Category(ctx context.Context, category media.ContentItem) []media.ContentItem {
	return s.ListCatalog(ctx, category.Link, "category_"+category.Name)
}

// ListCatalog returns the items of the listing at pageURL, cached under cacheName.
//
// A fresh cache entry is returned without network access. Otherwise the page
// is fetched and parsed; a non-empty parse replaces the cache entry. When the
// fetch fails or the parse is empty the last cached items are returned even
// if stale, or an empty list when there are none. When ctx ends before the
// result arrives the same fallback is returned at once.
func (s *Service) ListCatalog(ctx context.Context, pageURL, cacheName string) []media.ContentItem {
	shared := context.WithoutCancel(ctx)
	results := s.flights.DoChan("catalog:"+cacheName, func() (any, error) {
		return s.loadCatalog(shared, pageURL, cacheName), nil
	})

	select {
	case res := <-results:
		if res.Shared {
			s.log.Debug("joined in-flight catalog request", "cache", cacheName)
		}
		return slices.Clone(res.Val.([]media.ContentItem))
	case <-ctx.Done():
		s.log.Debug("stopped waiting for catalog", "cache", cacheName, "error", ctx.Err())
		cached, _, _ := cache.Load[media.ContentItem](s.cache, cacheName)
		return s.fallback(cacheName, cached)
	}
}

func (s *Service) loadCatalog(ctx context.Context, pageURL, cacheName string) []media.ContentItem {
	cached, age, hit := cache.Load[media.ContentItem](s.cache, cacheName)
	switch {
	case hit && age < s.ttl:
		s.metrics.ObserveCacheLookup("fresh")
		return cached
	case hit:
		s.metrics.ObserveCacheLookup("stale")
	default:
		s.metrics.ObserveCacheLookup("miss")
	}

	markup, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.log.Warn("catalog fetch failed", "url", pageURL, "outcome", httputil.Outcome(err), "error", err)
		return s.fallback(cacheName, cached)
	}

	items, err := provider.ParseCatalog(markup, s.base)
	if err != nil {
		s.log.Warn("catalog parse failed", "url", pageURL, "error", err)
		return s.fallback(cacheName, cached)
	}
	if len(items) == 0 {
		s.log.Info("catalog page yielded no items", "url", pageURL)
		return s.fallback(cacheName, cached)
	}

	if _, err := cache.Save(s.cache, cacheName, items); err != nil {
		s.log.Warn("caching catalog failed", "cache", cacheName, "error", err)
	}
	return items
}

func (s *Service) fallback(cacheName string, cached []media.ContentItem) []media.ContentItem {
	if len(cached) > 0 {
		s.metrics.ObserveFallback("stale")
		s.log.Info("serving stale catalog", "cache", cacheName, "items", len(cached))
		return cached
	}
	s.metrics.ObserveFallback("empty")
	return []media.ContentItem{}
}

// ListEpisodes returns the episodes of a series page. Episodes are always
// fetched live. A page without episodes yields the media.NoEpisodes sentinel;
// a failed fetch yields an empty list.
func (s *Service) ListEpisodes(ctx context.Context, seriesURL string) []media.Episode {
	source, err := url.Parse(seriesURL)
	if err != nil {
		s.log.Warn("invalid series URL", "url", seriesURL, "error", err)
		return []media.Episode{}
	}

	markup, err := s.fetcher.Fetch(ctx, seriesURL)
	if err != nil {
		s.log.Warn("episode fetch failed", "url", seriesURL, "outcome", httputil.Outcome(err), "error", err)
		return []media.Episode{}
	}

	episodes, err := provider.ParseEpisodes(markup, source)
	if err != nil {
		s.log.Warn("episode parse failed", "url", seriesURL, "error", err)
		return []media.Episode{}
	}
	return episodes
}

// ResolveVideo returns the stream candidates of an episode. Failed
// resolutions yield an empty list; pages without a stream yield the
// media.NoVideo sentinel.
func (s *Service) ResolveVideo(ctx context.Context, episodeURL string) []media.VideoLink {
	shared := context.WithoutCancel(ctx)
	results := s.flights.DoChan("video:"+episodeURL, func() (any, error) {
		links, err := s.resolver.Resolve(shared, episodeURL)
		if err != nil {
			s.log.Warn("video resolution failed", "episode", episodeURL, "error", err)
			return []media.VideoLink{}, nil
		}
		return links, nil
	})

	select {
	case res := <-results:
		return slices.Clone(res.Val.([]media.VideoLink))
	case <-ctx.Done():
		s.log.Debug("stopped waiting for video", "episode", episodeURL, "error", ctx.Err())
		return []media.VideoLink{}
	}
}

// ForgetVideo drops the cached links of an episode.
func (s *Service) ForgetVideo(episodeURL string) error {
	return s.resolver.Forget(episodeURL)
}
