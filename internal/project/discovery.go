package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// FileKind classifies a discovered Django file by the extractor that
// applies to it.
type FileKind string

const (
	KindModels   FileKind = "models"
	KindURLs     FileKind = "urls"
	KindAdmin    FileKind = "admin"
	KindSettings FileKind = "settings"
)

// kindForBase maps conventional Django file names to their kind.
var kindForBase = map[string]FileKind{
	"models.py":   KindModels,
	"urls.py":     KindURLs,
	"admin.py":    KindAdmin,
	"settings.py": KindSettings,
}

// File is one discovered source file with its classification.
type File struct {
	Path string   `json:"path"`
	Kind FileKind `json:"kind"`
}

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery walks a project tree and classifies the Django files the
// extractors understand, filtering with glob ignore rules.
type Discovery struct {
	rootDir        string
	ignorePatterns []compiledPattern
}

// NewDiscovery creates a discovery instance rooted at rootDir. Ignore
// patterns use slash-separated glob syntax relative to the root.
func NewDiscovery(rootDir string, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{rootDir: rootDir}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}
	return d, nil
}

// DiscoverFiles walks the tree and returns every classified file in walk
// order.
func (d *Discovery) DiscoverFiles() ([]File, error) {
	files := []File{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.shouldIgnore(relPath) {
			return nil
		}

		if kind, ok := kindForBase[filepath.Base(path)]; ok {
			files = append(files, File{Path: path, Kind: kind})
		}
		return nil
	})

	return files, err
}

// shouldIgnore checks a relative path against the ignore patterns, also
// treating each pattern as a directory prefix so "node_modules/**" and
// "node_modules" behave the same.
func (d *Discovery) shouldIgnore(relPath string) bool {
	for _, p := range d.ignorePatterns {
		if p.glob.Match(relPath) {
			return true
		}
		prefix := strings.TrimSuffix(p.pattern, "/**")
		if prefix != p.pattern && (relPath == prefix || strings.HasPrefix(relPath, prefix+"/")) {
			return true
		}
	}
	return false
}

// FindProjectRoot ascends from start looking for a directory containing
// manage.py, the conventional Django project marker. Returns start itself
// when no marker is found so callers can still scan arbitrary trees.
func FindProjectRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "manage.py")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
