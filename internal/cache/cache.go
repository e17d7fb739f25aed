// Package cache keeps short-lived JSON results on disk, keyed by string.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bplaunch/bplaunch/internal/log"
)

// DefaultTTL is how long entries are considered valid.
const DefaultTTL = 24 * time.Hour

// Entry is the structure stored in a cache file.
type Entry struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Cache stores one file per key under Dir.
type Cache struct {
	Dir string
	TTL time.Duration

	now func() time.Time
}

// New returns a cache rooted at dir, creating it if needed.
func New(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory '%s': %w", dir, err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{Dir: dir, TTL: ttl, now: time.Now}, nil
}

// path hashes key into a safe file name.
func (c *Cache) path(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty cache key")
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.Dir, hex.EncodeToString(sum[:])+".json"), nil
}

// Read decodes the entry for key into v. miss is true when there is no
// valid entry; a corrupt entry counts as a miss.
func (c *Cache) Read(key string, v any) (miss bool, err error) {
	p, err := c.path(key)
	if err != nil {
		return true, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read cache file '%s': %w", p, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		log.Warn("Failed to parse cache file '%s', ignoring: %v", p, err)
		return true, nil
	}
	if c.now().Sub(entry.Timestamp) > c.TTL {
		return true, nil
	}
	if err := json.Unmarshal(entry.Data, v); err != nil {
		log.Warn("Cache entry '%s' has unexpected shape, ignoring: %v", p, err)
		return true, nil
	}
	return false, nil
}

// Write stores v under key.
func (c *Cache) Write(key string, v any) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}
	data, err := json.MarshalIndent(Entry{Timestamp: c.now(), Data: raw}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry to JSON: %w", err)
	}
	if err := os.WriteFile(p, data, 0600); err != nil {
		return fmt.Errorf("failed to write cache file '%s': %w", p, err)
	}
	return nil
}

// Clear removes the entry for key. A missing entry is not an error.
func (c *Cache) Clear(key string) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache file '%s': %w", p, err)
	}
	return nil
}
