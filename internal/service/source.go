package service

import (
	"context"
	"sync"

	"seasonvar/internal/media"
)

// Source exposes the Service through the host callback contract: every
// method returns immediately and later invokes its callback exactly once,
// from another goroutine, with a list that is never nil.
type Source struct {
	svc *Service
	wg  sync.WaitGroup
}

// NewSource wraps svc.
func NewSource(svc *Service) *Source {
	return &Source{svc: svc}
}

func (s *Source) dispatch(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Wait blocks until every dispatched callback has returned.
func (s *Source) Wait() {
	s.wg.Wait()
}

// OnStart yields the top-level categories.
func (s *Source) OnStart(_ context.Context, callback func([]media.ContentItem)) {
	s.dispatch(func() { callback(s.svc.Categories()) })
}

func (s *Source) OnSearch(ctx context.Context, query string, callback func([]media.ContentItem)) {
	s.dispatch(func() { callback(s.svc.Search(ctx, query)) })
}

func (s *Source) OnCategory(ctx context.Context, category media.ContentItem, callback func([]media.ContentItem)) {
	s.dispatch(func() { callback(s.svc.Category(ctx, category)) })
}

// OnMovie lists the episodes of a catalog item.
func (s *Source) OnMovie(ctx context.Context, movie media.ContentItem, callback func([]media.Episode)) {
	s.dispatch(func() { callback(s.svc.ListEpisodes(ctx, movie.Link)) })
}

// OnEpisode resolves the stream candidates of an episode.
func (s *Source) OnEpisode(ctx context.Context, episode media.Episode, callback func([]media.VideoLink)) {
	s.dispatch(func() { callback(s.svc.ResolveVideo(ctx, episode.Link)) })
}
