package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the file watcher:
// - Writing a .py file under a watched tree invalidates its path
// - Non-Python files never reach the invalidator
// - Stop closes the watcher without panicking

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Invalidate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recordingInvalidator) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func (r *recordingInvalidator) waitFor(t *testing.T, path string) bool {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, p := range r.snapshot() {
			if p == path {
				return true
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestWatcher_InvalidatesPythonWrites(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "models.py")
	require.NoError(t, os.WriteFile(target, []byte("x = 1\n"), 0644))

	rec := &recordingInvalidator{}
	fw, err := New(rec)
	require.NoError(t, err)
	defer fw.Stop()
	require.NoError(t, fw.AddTree(root))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	require.NoError(t, os.WriteFile(target, []byte("x = 2\n"), 0644))
	assert.True(t, rec.waitFor(t, target), "expected invalidation for %s", target)
}

func TestWatcher_IgnoresNonPythonFiles(t *testing.T) {
	root := t.TempDir()

	rec := &recordingInvalidator{}
	fw, err := New(rec)
	require.NoError(t, err)
	defer fw.Stop()
	require.NoError(t, fw.AddTree(root))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)

	noise := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(noise, []byte("hello\n"), 0644))

	marker := filepath.Join(root, "views.py")
	require.NoError(t, os.WriteFile(marker, []byte("y = 1\n"), 0644))
	require.True(t, rec.waitFor(t, marker))

	for _, p := range rec.snapshot() {
		assert.NotEqual(t, noise, p)
	}
}

func TestWatcher_Stop(t *testing.T) {
	fw, err := New(&recordingInvalidator{})
	require.NoError(t, err)
	require.NoError(t, fw.AddTree(t.TempDir()))

	ctx, cancel := context.WithCancel(context.Background())
	fw.Start(ctx)
	cancel()

	assert.NoError(t, fw.Stop())
}
