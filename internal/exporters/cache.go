package exporters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/notioncal/internal/models"
)

// CacheCorruptError indicates the persisted cache file exists but could not
// be parsed. Callers may treat it as "start empty" at the cost of
// reclassifying every task as CREATE on the next run.
type CacheCorruptError struct {
	Path string
	Err  error
}

func (e *CacheCorruptError) Error() string {
	return fmt.Sprintf("corrupt sync cache at %s: %v", e.Path, e.Err)
}

func (e *CacheCorruptError) Unwrap() error {
	return e.Err
}

// SyncCache maps source task IDs to the fingerprint and target object ID
// recorded at last successful sync.
//
// The persisted file is keyed by exporter name so each exporter maintains an
// independent mapping. All mutations are in-memory until Save; the cache
// assumes a single writer per file (concurrent runs against the same cache
// path are a precondition violation, not a detected case).
type SyncCache struct {
	path     string
	exporter string
	entries  map[string]models.CacheEntry
	now      func() time.Time
}

// NewSyncCache creates a cache handle for the given exporter, stored at
// <dir>/<exporter>_cache.json. Call Load before use.
func NewSyncCache(dir, exporter string) *SyncCache {
	return &SyncCache{
		path:     filepath.Join(dir, exporter+"_cache.json"),
		exporter: exporter,
		entries:  make(map[string]models.CacheEntry),
		now:      time.Now,
	}
}

// Path returns the cache file location.
func (c *SyncCache) Path() string {
	return c.path
}

// Load reads the persisted cache. A missing file yields an empty cache;
// malformed content yields a [*CacheCorruptError].
func (c *SyncCache) Load() error {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		c.entries = make(map[string]models.CacheEntry)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	var byExporter map[string]map[string]models.CacheEntry
	if err := json.Unmarshal(data, &byExporter); err != nil {
		return &CacheCorruptError{Path: c.path, Err: err}
	}

	entries := byExporter[c.exporter]
	if entries == nil {
		entries = make(map[string]models.CacheEntry)
	}
	c.entries = entries
	return nil
}

// Reset drops all in-memory entries. The file is untouched until Save.
func (c *SyncCache) Reset() {
	c.entries = make(map[string]models.CacheEntry)
}

// Get returns the entry for a task ID.
func (c *SyncCache) Get(taskID string) (models.CacheEntry, bool) {
	entry, ok := c.entries[taskID]
	return entry, ok
}

// Put upserts the entry for a task ID, stamping LastSyncedAt.
func (c *SyncCache) Put(taskID, fingerprint, targetObjectID string) {
	c.entries[taskID] = models.CacheEntry{
		Fingerprint:    fingerprint,
		TargetObjectID: targetObjectID,
		LastSyncedAt:   c.now(),
	}
}

// Len returns the number of cached entries.
func (c *SyncCache) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the full mapping.
func (c *SyncCache) Entries() map[string]models.CacheEntry {
	out := make(map[string]models.CacheEntry, len(c.entries))
	for id, entry := range c.entries {
		out[id] = entry
	}
	return out
}

// Save atomically persists the full mapping. The file is written to a
// temporary sibling and renamed into place so a concurrent reader never sees
// a partial write.
func (c *SyncCache) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(map[string]map[string]models.CacheEntry{c.exporter: c.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}
