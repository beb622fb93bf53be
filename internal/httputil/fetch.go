package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single fetch when none is configured.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 5 * 1024 * 1024
)

// Fetcher retrieves the text of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Observer receives the outcome of every fetch. metrics.Metrics implements it.
type Observer interface {
	ObserveFetch(outcome string, elapsed time.Duration)
}

// TimeoutFetcher issues GET requests bounded by a fixed timeout.
// It never retries; retry policy belongs to callers.
type TimeoutFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   *rate.Limiter
	observer  Observer
	log       *slog.Logger
}

// FetcherOption configures a TimeoutFetcher.
type FetcherOption func(*TimeoutFetcher)

// WithClient replaces the default hardened client.
func WithClient(c *http.Client) FetcherOption {
	return func(f *TimeoutFetcher) { f.client = c }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *TimeoutFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limiter.
func WithRateLimit(perSecond float64) FetcherOption {
	return func(f *TimeoutFetcher) {
		if perSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			f.limiter = nil
		}
	}
}

// WithObserver reports fetch outcomes.
func WithObserver(o Observer) FetcherOption {
	return func(f *TimeoutFetcher) { f.observer = o }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *TimeoutFetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFetcher creates a TimeoutFetcher. A non-positive timeout selects DefaultTimeout.
func NewFetcher(timeout time.Duration, opts ...FetcherOption) *TimeoutFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	f := &TimeoutFetcher{
		client:    NewClient(),
		timeout:   timeout,
		userAgent: DefaultUserAgent,
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the body of url as text.
//
// It fails with ErrTimeout when the bound elapses, *HTTPError for a non-2xx
// status and *NetworkError for transport failures. Cancelling ctx aborts the
// request and returns the context's error.
func (f *TimeoutFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ValidateURL(url); err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	start := time.Now()
	body, err := f.fetch(ctx, url)
	if f.observer != nil {
		f.observer.ObserveFetch(Outcome(err), time.Since(start))
	}
	if err != nil {
		f.log.Debug("fetch failed", "url", url, "outcome", Outcome(err), "error", err)
		return "", err
	}
	f.log.Debug("fetched", "url", url, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}

func (f *TimeoutFetcher) fetch(parent context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(parent, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ru,uk;q=0.8,en-US;q=0.5,en;q=0.3")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", f.classify(parent, ctx, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &HTTPError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", f.classify(parent, ctx, url, err)
	}
	return string(body), nil
}

// classify maps a request error onto the fetch error taxonomy.
func (f *TimeoutFetcher) classify(parent, ctx context.Context, url string, err error) error {
	if perr := parent.Err(); perr != nil {
		return perr
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("fetching %s after %s: %w", url, f.timeout, ErrTimeout)
	}
	return &NetworkError{URL: url, Err: err}
}
