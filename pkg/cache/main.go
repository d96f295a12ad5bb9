// Package cache keeps the outcome of previous link checks so repeated runs
// don't hammer remote servers. Entries expire after the configured
// cache-timeout and are persisted between runs as YAML.
package cache

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Entry struct {
	Link      string    `yaml:"link"`
	Valid     bool      `yaml:"valid"`
	Reason    string    `yaml:"reason,omitempty"`
	CheckedAt time.Time `yaml:"checkedAt"`
}

type Cache struct {
	mu      sync.RWMutex
	timeout time.Duration
	entries map[string]Entry
	now     func() time.Time
}

// New creates an empty cache. timeout is the validity window in seconds, the
// config's cache-timeout value.
func New(timeout uint64) *Cache {
	return &Cache{
		timeout: time.Duration(timeout) * time.Second,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Get returns the cached entry for the link. Entries older than the validity
// window are reported as missing and dropped on the next Save.
func (c *Cache) Get(link string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[link]
	if !ok {
		return Entry{}, false
	}
	if c.now().Sub(e.CheckedAt) > c.timeout {
		return Entry{}, false
	}
	return e, true
}

// Put records the outcome of a fresh check.
func (c *Cache) Put(link string, valid bool, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[link] = Entry{
		Link:      link,
		Valid:     valid,
		Reason:    reason,
		CheckedAt: c.now(),
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Load merges previously saved entries into the cache. An empty reader is
// fine, an existing run may never have checked a web link.
func (c *Cache) Load(r io.Reader) error {
	var stored []Entry
	decoder := yaml.NewDecoder(r)
	err := decoder.Decode(&stored)
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("can't decode cache: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range stored {
		c.entries[e.Link] = e
	}
	return nil
}

// Save writes all still-valid entries. Expired entries are not carried over.
func (c *Cache) Save(w io.Writer) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fresh := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if c.now().Sub(e.CheckedAt) > c.timeout {
			continue
		}
		fresh = append(fresh, e)
	}
	return yaml.NewEncoder(w).Encode(fresh)
}
