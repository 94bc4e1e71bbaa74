package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type entry struct {
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"createdAt"`
}

// Cache is a file-per-entry cache keyed by a hash of the review inputs.
// The zero value (and a nil *Cache) is a disabled cache.
type Cache struct {
	dir string
	ttl time.Duration
}

// Open prepares a cache rooted at dir. An empty dir selects the platform
// cache directory.
func Open(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" || dir == "default" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolving cache directory: %w", err)
		}
		dir = filepath.Join(base, "vetgate")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Key derives the cache key for one review call.
func Key(provider, model, diff string) string {
	h := sha256.Sum256([]byte(provider + "\x00" + model + "\x00" + diff))
	return fmt.Sprintf("%x", h)
}

// Get returns the cached reply for key, or ("", false) on a miss or
// expired entry.
func (c *Cache) Get(key string) (string, bool) {
	if c == nil || c.dir == "" {
		return "", false
	}
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		return "", false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", false
	}
	if c.ttl > 0 && time.Since(e.CreatedAt) > c.ttl {
		os.Remove(c.path(key))
		return "", false
	}
	return e.Reply, true
}

// Put stores a reply under key.
func (c *Cache) Put(key, reply string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	data, err := json.Marshal(entry{Reply: reply, CreatedAt: time.Now()})
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	return os.WriteFile(c.path(key), data, 0o644)
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil || c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
	return nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}
