package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"seasonvar/internal/media"
)

func TestSourceCallbacksAreAsynchronous(t *testing.T) {
	fx := newFixture(t, time.Hour)
	fx.fetcher.set(searchURL, catalogPage)
	gate := make(chan struct{})
	fx.fetcher.gate[searchURL] = gate
	src := NewSource(fx.svc)

	got := make(chan []media.ContentItem, 2)
	src.OnSearch(context.Background(), "house", func(items []media.ContentItem) { got <- items })

	// OnSearch returned while the fetch is still blocked
	select {
	case <-got:
		t.Fatal("callback ran before the fetch completed")
	default:
	}

	close(gate)
	src.Wait()

	if len(got) != 1 {
		t.Fatalf("callback invoked %d times, want 1", len(got))
	}
	if diff := cmp.Diff(catalogItems, <-got); diff != "" {
		t.Errorf("OnSearch() mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceCallbacksRunOnce(t *testing.T) {
	fx := newFixture(t, time.Hour)
	fx.fetcher.set(baseURL+"/new", catalogPage)
	fx.fetcher.set(seriesURL, `<p>nothing yet</p>`)
	fx.fetcher.set(episode, `<p>removed</p>`)
	src := NewSource(fx.svc)
	ctx := context.Background()

	var calls [5]int
	var (
		start    []media.ContentItem
		category []media.ContentItem
		episodes []media.Episode
		links    []media.VideoLink
	)
	src.OnStart(ctx, func(items []media.ContentItem) { calls[0]++; start = items })
	src.Wait()
	src.OnCategory(ctx, start[0], func(items []media.ContentItem) { calls[1]++; category = items })
	src.OnMovie(ctx, catalogItems[0], func(eps []media.Episode) { calls[2]++; episodes = eps })
	src.OnEpisode(ctx, media.Episode{Name: "Серия 1", Link: episode, Kind: media.KindEpisode},
		func(l []media.VideoLink) { calls[3]++; links = l })
	src.OnSearch(ctx, "missing", func(items []media.ContentItem) {
		calls[4]++
		if items == nil || len(items) != 0 {
			t.Errorf("OnSearch(missing) = %#v, want empty non-nil list", items)
		}
	})
	src.Wait()

	if calls != [5]int{1, 1, 1, 1, 1} {
		t.Errorf("callback counts = %v", calls)
	}
	if len(start) != 3 || start[0].Kind != media.KindCategory {
		t.Errorf("OnStart() = %+v", start)
	}
	if diff := cmp.Diff(catalogItems, category); diff != "" {
		t.Errorf("OnCategory() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(media.NoEpisodes(), episodes); diff != "" {
		t.Errorf("OnMovie() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(media.NoVideo(), links); diff != "" {
		t.Errorf("OnEpisode() mismatch (-want +got):\n%s", diff)
	}
}
