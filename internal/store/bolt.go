package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketCache = []byte("cache")

// Bolt stores keys in one bucket of a BoltDB file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) the BoltDB file at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCache)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCache).Get([]byte(key)); v != nil {
			// v is only valid inside the transaction.
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, found, nil
}

func (b *Bolt) Set(key, value string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCache).Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Delete(key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCache).Delete([]byte(key))
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
