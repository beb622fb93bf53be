package httputil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL checks that a URL is well-formed, absolute and uses HTTP(S).
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("only HTTP(S) URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// ParseBase parses and validates a base URL that relative links are resolved against.
func ParseBase(rawURL string) (*url.URL, error) {
	if err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	return url.Parse(rawURL)
}

// Resolve joins ref to base. Absolute references pass through unchanged,
// root-relative and protocol-relative ones take the base's scheme and host.
// The result must be an HTTP(S) URL.
func Resolve(base *url.URL, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty reference")
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("malformed reference %q: %w", ref, err)
	}
	abs := base.ResolveReference(r).String()
	if err := ValidateURL(abs); err != nil {
		return "", fmt.Errorf("resolving %q: %w", ref, err)
	}
	return abs, nil
}

// SearchURL builds the upstream search URL for a free-text query.
func SearchURL(base *url.URL, query string) string {
	u := *base
	u.Path = strings.TrimRight(u.Path, "/") + "/search"
	u.RawQuery = url.Values{"query": {strings.TrimSpace(query)}}.Encode()
	return u.String()
}

// BuildURL constructs a URL from base and path components, encoding each path segment.
func BuildURL(base string, pathSegments ...string) string {
	u := strings.TrimRight(base, "/")
	for _, seg := range pathSegments {
		u += "/" + url.PathEscape(seg)
	}
	return u
}
