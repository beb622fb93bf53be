// Package api serves the content pipeline over HTTP. Every endpoint is
// answered through the service.Source callback contract.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
	"seasonvar/internal/service"
)

// NewHandler routes the JSON API and, when metrics is non-nil, /metrics.
func NewHandler(src *service.Source, metrics http.Handler, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/start", func(w http.ResponseWriter, r *http.Request) {
		await(w, r, func(cb func([]media.ContentItem)) { src.OnStart(r.Context(), cb) })
	})
	mux.HandleFunc("GET /api/search", func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter q")
			return
		}
		await(w, r, func(cb func([]media.ContentItem)) { src.OnSearch(r.Context(), q, cb) })
	})
	mux.HandleFunc("GET /api/category", func(w http.ResponseWriter, r *http.Request) {
		link, ok := requireURL(w, r)
		if !ok {
			return
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = link
		}
		category := media.ContentItem{Name: name, Link: link, Kind: media.KindCategory}
		await(w, r, func(cb func([]media.ContentItem)) { src.OnCategory(r.Context(), category, cb) })
	})
	mux.HandleFunc("GET /api/episodes", func(w http.ResponseWriter, r *http.Request) {
		link, ok := requireURL(w, r)
		if !ok {
			return
		}
		movie := media.ContentItem{Link: link, Kind: media.KindMovie}
		await(w, r, func(cb func([]media.Episode)) { src.OnMovie(r.Context(), movie, cb) })
	})
	mux.HandleFunc("GET /api/video", func(w http.ResponseWriter, r *http.Request) {
		link, ok := requireURL(w, r)
		if !ok {
			return
		}
		episode := media.Episode{Link: link, Kind: media.KindEpisode}
		await(w, r, func(cb func([]media.VideoLink)) { src.OnEpisode(r.Context(), episode, cb) })
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	return logRequests(mux, log)
}

// await dispatches a callback-style call and writes its single result.
// A client that disconnects first gets nothing; the callback still runs
// and its result is dropped.
func await[T any](w http.ResponseWriter, r *http.Request, dispatch func(func(T))) {
	results := make(chan T, 1)
	dispatch(func(v T) { results <- v })

	select {
	case v := <-results:
		writeJSON(w, http.StatusOK, v)
	case <-r.Context().Done():
	}
}

func requireURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	link := r.URL.Query().Get("url")
	if err := httputil.ValidateURL(link); err != nil {
		writeError(w, http.StatusBadRequest, "invalid url parameter: "+err.Error())
		return "", false
	}
	return link, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *loggingResponseWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func logRequests(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &loggingResponseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)
		status := lw.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", lw.bytes,
			"dur", time.Since(start).Round(time.Millisecond),
			"remote", r.RemoteAddr,
		)
	})
}

// Run serves h on addr until ctx is cancelled, then shuts down gracefully
// and waits for in-flight callbacks of src.
func Run(ctx context.Context, addr string, h http.Handler, src *service.Source, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", "error", err)
		}
		<-serverErr
		src.Wait()
		return nil
	}
}
