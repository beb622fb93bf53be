// Package cache layers age tracking over a store.Store.
//
// Each logical name owns exactly two physical keys: <prefix><name> holds the
// JSON payload and <prefix><name>_time the write time in Unix milliseconds.
// The cache reports ages; deciding whether an age is fresh is left to callers
// so that stale entries stay usable as a fallback.
package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"seasonvar/internal/store"
)

// DefaultPrefix namespaces every key this package writes.
const DefaultPrefix = "seasonvar_"

const timeSuffix = "_time"

// ErrEmptyPayload is returned by Write for payloads carrying no items.
var ErrEmptyPayload = errors.New("refusing to cache an empty payload")

// Entry is a payload read back from the store.
type Entry struct {
	Payload  []byte
	StoredAt time.Time // zero when the timestamp key is missing or corrupt
	Age      time.Duration
}

// Fresh reports whether the entry is younger than ttl.
func (e Entry) Fresh(ttl time.Duration) bool {
	return e.Age < ttl
}

// Store is the dual-key cache.
type Store struct {
	backend store.Store
	prefix  string
	now     func() time.Time
	log     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New wraps backend.
func New(backend store.Store, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		prefix:  DefaultPrefix,
		now:     time.Now,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the payload key for name.
func (s *Store) Key(name string) string {
	return s.prefix + name
}

func (s *Store) timeKey(name string) string {
	return s.prefix + name + timeSuffix
}

// Read returns the entry for name. A missing payload is a miss regardless of
// the timestamp key. A payload without a usable timestamp is reported with the
// maximum age, so it is never fresh but can still serve as a fallback.
func (s *Store) Read(name string) (Entry, bool, error) {
	payload, ok, err := s.backend.Get(s.Key(name))
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading %q: %w", name, err)
	}
	if !ok || payload == "" {
		return Entry{}, false, nil
	}

	entry := Entry{Payload: []byte(payload), Age: time.Duration(math.MaxInt64)}

	stamp, ok, err := s.backend.Get(s.timeKey(name))
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading timestamp of %q: %w", name, err)
	}
	if !ok {
		return entry, true, nil
	}
	ms, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		s.log.Warn("corrupt cache timestamp", "key", s.timeKey(name), "value", stamp)
		return entry, true, nil
	}

	entry.StoredAt = time.UnixMilli(ms)
	entry.Age = s.now().Sub(entry.StoredAt)
	return entry, true, nil
}

// Write stores payload under name, stamped with the current time.
// The payload key is written before the timestamp key. Empty payloads
// (including an empty JSON list or null) are rejected with ErrEmptyPayload
// and leave any existing entry untouched.
func (s *Store) Write(name string, payload []byte) error {
	if isEmptyPayload(payload) {
		return ErrEmptyPayload
	}
	if err := s.backend.Set(s.Key(name), string(payload)); err != nil {
		return fmt.Errorf("writing %q: %w", name, err)
	}
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.backend.Set(s.timeKey(name), stamp); err != nil {
		return fmt.Errorf("writing timestamp of %q: %w", name, err)
	}
	return nil
}

func isEmptyPayload(payload []byte) bool {
	switch string(bytes.TrimSpace(payload)) {
	case "", "[]", "null":
		return true
	}
	return false
}

// Invalidate removes both keys of name.
func (s *Store) Invalidate(name string) error {
	if err := s.backend.Delete(s.Key(name)); err != nil {
		return fmt.Errorf("invalidating %q: %w", name, err)
	}
	if err := s.backend.Delete(s.timeKey(name)); err != nil {
		return fmt.Errorf("invalidating timestamp of %q: %w", name, err)
	}
	return nil
}

// Load decodes the list stored under name. ok is false on a miss or when the
// payload cannot be decoded as a non-empty []T.
func Load[T any](s *Store, name string) (items []T, age time.Duration, ok bool) {
	entry, found, err := s.Read(name)
	if err != nil {
		s.log.Warn("cache read failed", "name", name, "error", err)
		return nil, 0, false
	}
	if !found {
		return nil, 0, false
	}
	if err := json.Unmarshal(entry.Payload, &items); err != nil {
		s.log.Warn("discarding undecodable cache entry", "name", name, "error", err)
		return nil, 0, false
	}
	if len(items) == 0 {
		return nil, 0, false
	}
	return items, entry.Age, true
}

// Save encodes items under name. Empty lists are never written, so a
// transient empty parse cannot replace a good entry. It reports whether a
// write happened.
func Save[T any](s *Store, name string, items []T) (bool, error) {
	if len(items) == 0 {
		return false, nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return false, fmt.Errorf("encoding %q: %w", name, err)
	}
	if err := s.Write(name, payload); err != nil {
		return false, err
	}
	return true, nil
}
