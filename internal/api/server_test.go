package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"seasonvar/internal/cache"
	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
	"seasonvar/internal/metrics"
	"seasonvar/internal/service"
	"seasonvar/internal/store"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "house" {
			w.Write([]byte(`<html><body>nothing</body></html>`))
			return
		}
		w.Write([]byte(`<div class="pgs-serials-list"><div class="short">
<div class="title"><a href="/serial-1.html">Доктор Хаус</a></div></div></div>`))
	})
	mux.HandleFunc("/serial-1.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="pgs-player"><video><source src="/s1e1.mp4" data-title="Серия 1"></video></div>`))
	})
	mux.HandleFunc("/s1e1.html", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<iframe src="/player/1"></iframe>`))
	})
	mux.HandleFunc("/player/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<script>new Playerjs({file: "/hls/s1e1.m3u8"})</script>`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestAPI(t *testing.T, upstream *httptest.Server) *httptest.Server {
	t.Helper()
	base, err := url.Parse(upstream.URL)
	if err != nil {
		t.Fatal(err)
	}
	m := metrics.New()
	fetcher := httputil.NewFetcher(2*time.Second, httputil.WithObserver(m))
	svc := service.New(base, fetcher, cache.New(store.NewMemory()), service.Options{TTL: service.DefaultTTL, Metrics: m})
	src := service.NewSource(svc)

	srv := httptest.NewServer(NewHandler(src, m.Handler(), nil))
	t.Cleanup(func() {
		srv.Close()
		src.Wait()
	})
	return srv
}

func getJSON(t *testing.T, rawURL string, out any) int {
	t.Helper()
	resp, err := http.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s: %v", rawURL, err)
		}
	}
	return resp.StatusCode
}

func TestStart(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestAPI(t, upstream)

	var got []media.ContentItem
	if status := getJSON(t, srv.URL+"/api/start", &got); status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(got) != 3 || got[1].Name != "Popular" || got[1].Link != upstream.URL+"/top" {
		t.Errorf("start = %+v", got)
	}
}

func TestBrowseToVideo(t *testing.T) {
	upstream := newUpstream(t)
	srv := newTestAPI(t, upstream)

	var results []media.ContentItem
	getJSON(t, srv.URL+"/api/search?q=house", &results)
	wantResults := []media.ContentItem{{Name: "Доктор Хаус", Link: upstream.URL + "/serial-1.html", Kind: media.KindMovie}}
	if diff := cmp.Diff(wantResults, results); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}

	var episodes []media.Episode
	getJSON(t, srv.URL+"/api/episodes?url="+url.QueryEscape(results[0].Link), &episodes)
	wantEpisodes := []media.Episode{{Name: "Серия 1", Link: upstream.URL + "/s1e1.mp4", Kind: media.KindEpisode}}
	if diff := cmp.Diff(wantEpisodes, episodes); diff != "" {
		t.Fatalf("episodes mismatch (-want +got):\n%s", diff)
	}

	var links []media.VideoLink
	getJSON(t, srv.URL+"/api/video?url="+url.QueryEscape(upstream.URL+"/s1e1.html"), &links)
	wantLinks := []media.VideoLink{{File: upstream.URL + "/hls/s1e1.m3u8", Format: media.FormatHLS}}
	if diff := cmp.Diff(wantLinks, links); diff != "" {
		t.Errorf("video mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyResultsAreArrays(t *testing.T) {
	srv := newTestAPI(t, newUpstream(t))

	resp, err := http.Get(srv.URL + "/api/search?q=nothing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(body)); got != "[]" {
		t.Errorf("body = %q, want []", got)
	}
}

func TestBadRequests(t *testing.T) {
	srv := newTestAPI(t, newUpstream(t))

	tests := []string{
		"/api/search",
		"/api/search?q=%20",
		"/api/episodes",
		"/api/episodes?url=javascript:alert(1)",
		"/api/video?url=/relative",
		"/api/category?name=New",
	}
	for _, path := range tests {
		var body map[string]string
		if status := getJSON(t, srv.URL+path, &body); status != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", path, status)
		}
		if body["error"] == "" {
			t.Errorf("GET %s: missing error message", path)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestAPI(t, newUpstream(t))
	getJSON(t, srv.URL+"/api/search?q=house", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `seasonvar_fetches_total{outcome="ok"} 1`) {
		t.Errorf("metrics output missing fetch counter:\n%s", body)
	}
}
