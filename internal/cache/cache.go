// Package cache provides the response cache backing post listings.
//
// Cached list responses are stored in an embedded BadgerDB keyed by the
// query engine's cache keys. Every entry carries a fixed TTL, so
// invalidation is purely time based.
package cache

import (
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultTTL is how long a cached list response stays valid.
const DefaultTTL = 300 * time.Second

// Config holds configuration for a ResponseCache.
type Config struct {
	// Path is the directory for the cache files. Ignored when InMemory is
	// true.
	Path string

	// InMemory disables disk persistence. Useful for testing.
	InMemory bool

	// TTL overrides DefaultTTL when positive.
	TTL time.Duration
}

// ResponseCache is a TTL-bounded byte cache. Safe for concurrent use.
type ResponseCache struct {
	db  *badger.DB
	ttl time.Duration
}

// Open creates or opens the cache at cfg.Path.
func Open(cfg Config) (*ResponseCache, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache{db: db, ttl: ttl}, nil
}

// Get returns the cached value for key, or false on a miss or expired entry.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return out, true
}

// Set stores value under key with the configured TTL.
func (c *ResponseCache) Set(key string, value []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), value).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
}

// Close flushes and closes the underlying database.
func (c *ResponseCache) Close() error {
	return c.db.Close()
}
