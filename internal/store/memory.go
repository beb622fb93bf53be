package store

import (
	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps keys in process memory. Entries never expire on their own:
// freshness is the cache layer's decision, not the backend's.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.c.Set(key, value, gocache.NoExpiration)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.c.Delete(key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	return m.c.ItemCount()
}

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
