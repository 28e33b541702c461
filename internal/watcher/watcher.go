// Package watcher invalidates cached extraction results when source files
// change on disk. It is collaborator plumbing around the engine, not part
// of its contract.
package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Invalidator receives paths whose cached results are stale. The cache
// package's FileCache satisfies it.
type Invalidator interface {
	Invalidate(path string)
}

// FileWatcher watches a project tree for Python file changes and routes
// them to an Invalidator.
type FileWatcher struct {
	watcher     *fsnotify.Watcher
	invalidator Invalidator
}

// New creates a watcher that notifies the given invalidator.
func New(invalidator Invalidator) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{watcher: w, invalidator: invalidator}, nil
}

// AddTree registers root and all its subdirectories for watching.
// fsnotify watches are per-directory, not recursive.
func (fw *FileWatcher) AddTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		if strings.HasPrefix(base, ".") && path != root {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

// Start consumes watch events until the context is cancelled. Only .py
// files trigger invalidation; watcher errors are logged and skipped.
func (fw *FileWatcher) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				fw.handleEvent(event)
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watcher: %v", err)
			}
		}
	}()
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Ext(event.Name) != ".py" {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}
	fw.invalidator.Invalidate(event.Name)
}

// Stop closes the underlying watcher.
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}
