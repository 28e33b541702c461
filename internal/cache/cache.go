// Package cache provides caller-side memoization of per-file extraction
// results. It layers on top of the scanner engine without changing its
// contract: entries are keyed by path and validated against file mtime,
// and evicted by capacity and TTL.
package cache

import (
	"fmt"
	"os"
	"time"

	"github.com/maypok86/otter"

	"github.com/djangolens/djangolens/internal/scanner"
)

// entry is one cached extraction result. Only the slice matching the
// extractor that produced it is populated.
type entry struct {
	mtime    int64
	models   []scanner.ModelInfo
	urls     []scanner.URLInfo
	admins   []scanner.AdminInfo
	settings []scanner.SettingInfo
}

// FileCache memoizes extraction results per file. It satisfies
// project.Extractor, so a project scan can be pointed at it directly.
type FileCache struct {
	cache otter.Cache[string, entry]
}

// New creates a cache holding up to capacity entries, each living at most
// ttl after insertion.
func New(capacity int, ttl time.Duration) (*FileCache, error) {
	builder, err := otter.NewBuilder[string, entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("cache builder: %w", err)
	}
	c, err := builder.WithTTL(ttl).Build()
	if err != nil {
		return nil, fmt.Errorf("cache build: %w", err)
	}
	return &FileCache{cache: c}, nil
}

// Close releases the cache's background resources.
func (fc *FileCache) Close() {
	fc.cache.Close()
}

// Invalidate drops cached results for a path. URL entries cached under a
// non-empty prefix are left to the mtime check, so invalidation is an
// optimization, not a correctness requirement.
func (fc *FileCache) Invalidate(path string) {
	for _, kind := range []string{"models", "urls|", "admin", "settings"} {
		fc.cache.Delete(kind + "|" + path)
	}
}

// mtimeOf returns the file's modification time in nanoseconds, or 0 when
// the file cannot be stat'd (in which case results are not cached).
func mtimeOf(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

// Models returns cached model extraction results for path.
func (fc *FileCache) Models(path string) []scanner.ModelInfo {
	mtime := mtimeOf(path)
	key := "models|" + path
	if e, ok := fc.cache.Get(key); ok && mtime != 0 && e.mtime == mtime {
		return e.models
	}
	models := scanner.ExtractModels(path)
	if mtime != 0 {
		fc.cache.Set(key, entry{mtime: mtime, models: models})
	}
	return models
}

// URLs returns cached route extraction results for path. The prefix is
// part of the key since it is baked into every returned pattern.
func (fc *FileCache) URLs(path, prefix string) []scanner.URLInfo {
	mtime := mtimeOf(path)
	key := "urls|" + prefix + "|" + path
	if e, ok := fc.cache.Get(key); ok && mtime != 0 && e.mtime == mtime {
		return e.urls
	}
	urls := scanner.ExtractURLs(path, prefix)
	if mtime != 0 {
		fc.cache.Set(key, entry{mtime: mtime, urls: urls})
	}
	return urls
}

// Admins returns cached registration extraction results for path.
func (fc *FileCache) Admins(path string) []scanner.AdminInfo {
	mtime := mtimeOf(path)
	key := "admin|" + path
	if e, ok := fc.cache.Get(key); ok && mtime != 0 && e.mtime == mtime {
		return e.admins
	}
	admins := scanner.ExtractAdmins(path)
	if mtime != 0 {
		fc.cache.Set(key, entry{mtime: mtime, admins: admins})
	}
	return admins
}

// Settings returns cached settings extraction results for path.
func (fc *FileCache) Settings(path string) []scanner.SettingInfo {
	mtime := mtimeOf(path)
	key := "settings|" + path
	if e, ok := fc.cache.Get(key); ok && mtime != 0 && e.mtime == mtime {
		return e.settings
	}
	settings := scanner.ExtractSettings(path)
	if mtime != 0 {
		fc.cache.Set(key, entry{mtime: mtime, settings: settings})
	}
	return settings
}
