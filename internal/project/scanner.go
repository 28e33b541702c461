package project

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/djangolens/djangolens/internal/scanner"
)

// FileResult holds the extraction output for one discovered file. Only the
// slice matching the file's kind is populated.
type FileResult struct {
	File
	Models   []scanner.ModelInfo   `json:"models,omitempty"`
	URLs     []scanner.URLInfo     `json:"urls,omitempty"`
	Admins   []scanner.AdminInfo   `json:"admins,omitempty"`
	Settings []scanner.SettingInfo `json:"settings,omitempty"`
}

// Snapshot is the result of one whole-project scan.
type Snapshot struct {
	Root        string            `json:"root"`
	GeneratedAt time.Time         `json:"generated_at"`
	Files       []FileResult      `json:"files"`
	Inheritance []InheritanceEdge `json:"inheritance,omitempty"`
}

// Extractor is the per-file extraction contract the project scanner runs.
// The cache layer satisfies it too, so callers choose cached or direct
// extraction by injection.
type Extractor interface {
	Models(path string) []scanner.ModelInfo
	URLs(path string, prefix string) []scanner.URLInfo
	Admins(path string) []scanner.AdminInfo
	Settings(path string) []scanner.SettingInfo
}

// DirectExtractor runs the scanner package with no caching.
type DirectExtractor struct{}

func (DirectExtractor) Models(path string) []scanner.ModelInfo { return scanner.ExtractModels(path) }
func (DirectExtractor) URLs(path, prefix string) []scanner.URLInfo {
	return scanner.ExtractURLs(path, prefix)
}
func (DirectExtractor) Admins(path string) []scanner.AdminInfo { return scanner.ExtractAdmins(path) }
func (DirectExtractor) Settings(path string) []scanner.SettingInfo {
	return scanner.ExtractSettings(path)
}

// ProgressFunc is called after each file completes. done counts completed
// files out of total.
type ProgressFunc func(done, total int, file File)

// Scanner runs every extractor over a discovered project concurrently.
// Each file scan is an independent unit of work with no shared mutable
// state; cancellation is honored between file scans.
type Scanner struct {
	discovery *Discovery
	extractor Extractor
	progress  ProgressFunc
}

// NewScanner creates a project scanner. extractor may be nil, in which
// case files are scanned directly without caching.
func NewScanner(discovery *Discovery, extractor Extractor) *Scanner {
	if extractor == nil {
		extractor = DirectExtractor{}
	}
	return &Scanner{discovery: discovery, extractor: extractor}
}

// OnProgress registers a progress callback invoked after each file.
func (s *Scanner) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// Scan discovers and extracts the whole project, returning a snapshot
// with files in deterministic (path) order.
func (s *Scanner) Scan(ctx context.Context) (*Snapshot, error) {
	files, err := s.discovery.DiscoverFiles()
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, len(files))
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	progressCh := make(chan File)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		for f := range progressCh {
			done++
			if s.progress != nil {
				s.progress(done, len(files), f)
			}
		}
	}()

	for i, f := range files {
		// The early-exit checkpoint sits between file scans; a single
		// file scan always runs to completion.
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			results[i] = s.scanFile(f)
			select {
			case progressCh <- f:
			case <-ctx.Done():
			}
			return nil
		})
	}

	err = g.Wait()
	close(progressCh)
	<-progressDone
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Path < results[b].Path })

	snap := &Snapshot{
		Root:        s.discovery.rootDir,
		GeneratedAt: time.Now().UTC(),
		Files:       results,
	}
	snap.Inheritance = InheritanceEdges(snap)
	return snap, nil
}

func (s *Scanner) scanFile(f File) FileResult {
	result := FileResult{File: f}
	switch f.Kind {
	case KindModels:
		result.Models = s.extractor.Models(f.Path)
	case KindURLs:
		result.URLs = s.extractor.URLs(f.Path, "")
	case KindAdmin:
		result.Admins = s.extractor.Admins(f.Path)
	case KindSettings:
		result.Settings = s.extractor.Settings(f.Path)
	}
	return result
}
