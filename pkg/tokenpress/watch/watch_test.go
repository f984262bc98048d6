package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avaldez/tokenpress/pkg/tokenpress/extract"
)

func writeTemplate(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func cachedPaths(t *testing.T, ext *extract.Extractor) []string {
	t.Helper()
	stats, err := ext.CacheStats()
	require.NoError(t, err)
	return stats.Paths
}

func TestHandleEvent_InvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "intro.html", "Hello {{client_name}}")

	ext := extract.New()
	_, err := ext.FromFile(path)
	require.NoError(t, err)
	require.Len(t, cachedPaths(t, ext), 1)

	w, err := New(ext)
	require.NoError(t, err)
	defer w.Close()

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Write})

	assert.Empty(t, cachedPaths(t, ext))
}

func TestHandleEvent_IgnoresChmod(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "intro.html", "Hello {{client_name}}")

	ext := extract.New()
	_, err := ext.FromFile(path)
	require.NoError(t, err)

	w, err := New(ext)
	require.NoError(t, err)
	defer w.Close()

	w.handleEvent(fsnotify.Event{Name: path, Op: fsnotify.Chmod})

	assert.Len(t, cachedPaths(t, ext), 1)
}

func TestHandleEvent_UncachedPath(t *testing.T) {
	ext := extract.New()
	w, err := New(ext)
	require.NoError(t, err)
	defer w.Close()

	// Events for files we never extracted must not error or panic
	w.handleEvent(fsnotify.Event{Name: "/nowhere/missing.html", Op: fsnotify.Remove})
	assert.Empty(t, cachedPaths(t, ext))
}

func TestWatcher_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeTemplate(t, dir, "intro.html", "Hello {{client_name}}")

	ext := extract.New()
	_, err := ext.FromFile(path)
	require.NoError(t, err)
	require.Len(t, cachedPaths(t, ext), 1)

	w, err := New(ext)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()

	// Modify the watched template and wait for the invalidation
	writeTemplate(t, dir, "intro.html", "Hello {{client_name}} from {{company}}")

	require.Eventually(t, func() bool {
		return len(cachedPaths(t, ext)) == 0
	}, 5*time.Second, 10*time.Millisecond, "cache entry should be invalidated")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_RunNilContext(t *testing.T) {
	w, err := New(extract.New())
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.Run(nil))
}

func TestWatcher_RunStopsOnClose(t *testing.T) {
	w, err := New(extract.New())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background())
	}()

	require.NoError(t, w.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after Close")
	}
}
