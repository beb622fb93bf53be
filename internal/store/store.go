// Package store provides the string-keyed persistence primitive the cache is
// layered over. Backends make no transactional promises across keys:
// concurrent writers to the same key simply overwrite each other.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is a flat string key/value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendSQLite, BackendBolt, BackendMemory}
}

// Open creates the named backend. path is ignored for the memory backend.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(backend) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendSQLite, BackendBolt:
	default:
		return nil, fmt.Errorf("unknown store backend %q (valid: %s)", backend, strings.Join(Backends(), ", "))
	}

	if path == "" {
		return nil, fmt.Errorf("%s backend requires a path", backend)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	if strings.EqualFold(backend, BackendBolt) {
		return OpenBolt(path)
	}
	return OpenSQLite(path)
}
