package exporters

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSyncCache(t *testing.T) {
	t.Run("Load missing file yields empty cache", func(t *testing.T) {
		cache := NewSyncCache(t.TempDir(), "apple_calendar")
		if err := cache.Load(); err != nil {
			t.Fatalf("expected no error for missing file, got %v", err)
		}
		if cache.Len() != 0 {
			t.Errorf("expected empty cache, got %d entries", cache.Len())
		}
	})

	t.Run("Put and Get", func(t *testing.T) {
		cache := NewSyncCache(t.TempDir(), "apple_calendar")
		cache.Put("t1", "fp1", "ev1")

		entry, ok := cache.Get("t1")
		if !ok {
			t.Fatal("expected entry for t1")
		}
		if entry.Fingerprint != "fp1" || entry.TargetObjectID != "ev1" {
			t.Errorf("unexpected entry: %+v", entry)
		}
		if entry.LastSyncedAt.IsZero() {
			t.Error("expected LastSyncedAt to be stamped")
		}

		if _, ok := cache.Get("missing"); ok {
			t.Error("expected no entry for unknown task")
		}
	})

	t.Run("Put overwrites prior entry", func(t *testing.T) {
		cache := NewSyncCache(t.TempDir(), "apple_calendar")
		cache.Put("t1", "fp1", "ev1")
		cache.Put("t1", "fp2", "ev1")

		entry, _ := cache.Get("t1")
		if entry.Fingerprint != "fp2" {
			t.Errorf("expected upsert to overwrite, got %s", entry.Fingerprint)
		}
		if cache.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", cache.Len())
		}
	})

	t.Run("Round-trip", func(t *testing.T) {
		dir := t.TempDir()

		cache := NewSyncCache(dir, "apple_calendar")
		cache.now = func() time.Time { return time.Date(2025, 12, 15, 9, 0, 0, 0, time.UTC) }
		cache.Put("t1", "fp1", "ev1")
		cache.Put("t2", "fp2", "ev2")

		if err := cache.Save(); err != nil {
			t.Fatalf("failed to save cache: %v", err)
		}

		reloaded := NewSyncCache(dir, "apple_calendar")
		if err := reloaded.Load(); err != nil {
			t.Fatalf("failed to load cache: %v", err)
		}

		if reloaded.Len() != 2 {
			t.Fatalf("expected 2 entries after reload, got %d", reloaded.Len())
		}
		for id, want := range cache.Entries() {
			got, ok := reloaded.Get(id)
			if !ok {
				t.Fatalf("missing entry %s after reload", id)
			}
			if got.Fingerprint != want.Fingerprint || got.TargetObjectID != want.TargetObjectID {
				t.Errorf("entry %s mismatch: got %+v, want %+v", id, got, want)
			}
			if !got.LastSyncedAt.Equal(want.LastSyncedAt) {
				t.Errorf("entry %s timestamp mismatch: got %v, want %v", id, got.LastSyncedAt, want.LastSyncedAt)
			}
		}
	})

	t.Run("Caches are independent per exporter", func(t *testing.T) {
		dir := t.TempDir()

		apple := NewSyncCache(dir, "apple_calendar")
		apple.Put("t1", "fp1", "ev1")
		if err := apple.Save(); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		things := NewSyncCache(dir, "things")
		if err := things.Load(); err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if things.Len() != 0 {
			t.Errorf("expected empty cache for other exporter, got %d entries", things.Len())
		}
	})

	t.Run("Load corrupt file", func(t *testing.T) {
		dir := t.TempDir()
		cache := NewSyncCache(dir, "apple_calendar")
		if err := os.WriteFile(cache.Path(), []byte("{not json"), 0644); err != nil {
			t.Fatalf("failed to write corrupt file: %v", err)
		}

		err := cache.Load()
		var corrupt *CacheCorruptError
		if !errors.As(err, &corrupt) {
			t.Fatalf("expected CacheCorruptError, got %v", err)
		}
		if corrupt.Path != cache.Path() {
			t.Errorf("expected error to carry path %s, got %s", cache.Path(), corrupt.Path)
		}

		// recoverable: reset and continue empty
		cache.Reset()
		if cache.Len() != 0 {
			t.Errorf("expected empty cache after reset, got %d", cache.Len())
		}
	})

	t.Run("Save leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		cache := NewSyncCache(dir, "apple_calendar")
		cache.Put("t1", "fp1", "ev1")
		if err := cache.Save(); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("failed to read dir: %v", err)
		}
		for _, entry := range entries {
			if strings.Contains(entry.Name(), ".tmp-") {
				t.Errorf("leftover temp file: %s", entry.Name())
			}
		}
		if len(entries) != 1 {
			t.Errorf("expected exactly the cache file, got %d entries", len(entries))
		}
	})

	t.Run("Save creates cache directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "cache")
		cache := NewSyncCache(dir, "apple_calendar")
		cache.Put("t1", "fp1", "ev1")
		if err := cache.Save(); err != nil {
			t.Fatalf("failed to save into missing directory: %v", err)
		}
		if _, err := os.Stat(cache.Path()); err != nil {
			t.Errorf("cache file should exist: %v", err)
		}
	})
}
