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

// Test Plan for FileWatcher:
// - NewFileWatcher creates watcher successfully with valid directories
// - NewFileWatcher returns error with invalid directory
// - Zero debounce falls back to the default
// - Single file change fires callback after debounce
// - Rapid changes to several files are batched and deduplicated
// - Batches are sorted by path
// - Pause/Resume behavior (accumulate during pause, fire on resume)
// - File deleted triggers callback
// - Directory added triggers recursive watch
// - Ignored directories are not watched
// - Filtering (only matching files trigger callback)
// - Context cancellation stops watcher
// - Concurrent Stop() calls are safe
// - Stop() without Start() closes the watcher

const testDebounce = 100 * time.Millisecond

// extFilter matches files by extension and ignores directories by base name.
type extFilter struct {
	exts       map[string]bool
	ignoreDirs map[string]bool
}

func newExtFilter(exts []string, ignoreDirs ...string) *extFilter {
	f := &extFilter{exts: map[string]bool{}, ignoreDirs: map[string]bool{}}
	for _, e := range exts {
		f.exts[e] = true
	}
	for _, d := range ignoreDirs {
		f.ignoreDirs[d] = true
	}
	return f
}

func (f *extFilter) Match(path string) bool {
	return f.exts[filepath.Ext(path)]
}

func (f *extFilter) IgnoresDir(path string) bool {
	return f.ignoreDirs[filepath.Base(path)]
}

// collector gathers callback batches.
type collector struct {
	mu      sync.Mutex
	batches [][]string
	called  chan struct{}
}

func newCollector() *collector {
	return &collector{called: make(chan struct{}, 10)}
}

func (c *collector) callback(files []string) {
	c.mu.Lock()
	c.batches = append(c.batches, files)
	c.mu.Unlock()
	c.called <- struct{}{}
}

func (c *collector) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.called:
	case <-time.After(2 * time.Second):
		t.Fatal("Callback not called after timeout")
	}
}

func (c *collector) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var files []string
	for _, b := range c.batches {
		files = append(files, b...)
	}
	return files
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.batches)
}

func startWatcher(t *testing.T, dir string, filter PathFilter) (FileWatcher, *collector) {
	t.Helper()
	w, err := NewFileWatcher([]string{dir}, filter, testDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	c := newCollector()
	require.NoError(t, w.Start(context.Background(), c.callback))

	// Wait for watcher to initialize
	time.Sleep(100 * time.Millisecond)
	return w, c
}

func TestNewFileWatcher_Success(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, newExtFilter([]string{".go"}), testDebounce)
	require.NoError(t, err)
	require.NotNil(t, w)
	require.NoError(t, w.Stop())
}

func TestNewFileWatcher_InvalidDirectory(t *testing.T) {
	t.Parallel()

	nonexistent := filepath.Join(t.TempDir(), "nonexistent")
	w, err := NewFileWatcher([]string{nonexistent}, nil, testDebounce)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestNewFileWatcher_DefaultDebounce(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, nil, 0)
	require.NoError(t, err)
	defer w.Stop()

	assert.Equal(t, DefaultDebounce, w.(*fileWatcher).debounce)
}

func TestFileWatcher_SingleFileChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, c := startWatcher(t, dir, newExtFilter([]string{".go"}))

	testFile := filepath.Join(dir, "test.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package main"), 0644))

	c.wait(t)
	assert.Equal(t, []string{testFile}, c.all())
}

func TestFileWatcher_BatchingAndDeduplication(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, c := startWatcher(t, dir, newExtFilter([]string{".go"}))

	file1 := filepath.Join(dir, "file1.go")
	file2 := filepath.Join(dir, "file2.go")
	require.NoError(t, os.WriteFile(file1, []byte("package main"), 0644))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(file2, []byte("package main"), 0644))
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(file1, []byte("package main\n// v2"), 0644))

	c.wait(t)

	// Wait to make sure no extra callback fires
	time.Sleep(2 * testDebounce)
	assert.Equal(t, 1, c.count())
	assert.ElementsMatch(t, []string{file1, file2}, c.all())
}

func TestFileWatcher_PauseResume(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, c := startWatcher(t, dir, newExtFilter([]string{".go"}))

	w.Pause()

	testFile := filepath.Join(dir, "test.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package main"), 0644))

	// Wait past the debounce window
	time.Sleep(3 * testDebounce)
	assert.Equal(t, 0, c.count(), "No callbacks should fire while paused")

	w.Resume()
	c.wait(t)
	assert.Equal(t, []string{testFile}, c.all())
}

func TestFileWatcher_FileDeleted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package main"), 0644))

	_, c := startWatcher(t, dir, newExtFilter([]string{".go"}))

	require.NoError(t, os.Remove(testFile))

	c.wait(t)
	assert.Contains(t, c.all(), testFile)
}

func TestFileWatcher_DirectoryAdded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, c := startWatcher(t, dir, newExtFilter([]string{".go"}))

	newDir := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(newDir, 0755))

	// Give the watcher time to add the new directory
	time.Sleep(100 * time.Millisecond)

	testFile := filepath.Join(newDir, "util.go")
	require.NoError(t, os.WriteFile(testFile, []byte("package pkg"), 0644))

	c.wait(t)
	assert.Contains(t, c.all(), testFile)
}

func TestFileWatcher_IgnoredDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ignored := filepath.Join(dir, "node_modules")
	require.NoError(t, os.Mkdir(ignored, 0755))

	_, c := startWatcher(t, dir, newExtFilter([]string{".go"}, "node_modules"))

	require.NoError(t, os.WriteFile(filepath.Join(ignored, "dep.go"), []byte("package dep"), 0644))
	kept := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(kept, []byte("package main"), 0644))

	c.wait(t)
	assert.Equal(t, []string{kept}, c.all())
}

func TestFileWatcher_Filtering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, c := startWatcher(t, dir, newExtFilter([]string{".py"}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	pyFile := filepath.Join(dir, "app.py")
	require.NoError(t, os.WriteFile(pyFile, []byte("x = 1"), 0644))

	c.wait(t)
	assert.Equal(t, []string{pyFile}, c.all())
}

func TestFileWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, nil, testDebounce)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, func([]string) {}))

	cancel()

	fw := w.(*fileWatcher)
	select {
	case <-fw.done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not exit after cancellation")
	}
	require.NoError(t, w.Stop())
}

func TestFileWatcher_ConcurrentStop(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, nil, testDebounce)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background(), func([]string) {}))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = w.Stop()
		}()
	}
	wg.Wait()
}

func TestFileWatcher_BatchSorted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, c := startWatcher(t, dir, newExtFilter([]string{".go"}))

	names := []string{"c.go", "a.go", "b.go"}
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("package p"), 0644))
	}

	c.wait(t)
	time.Sleep(2 * testDebounce)
	assert.Equal(t, 1, c.count())
	assert.Equal(t, []string{
		filepath.Join(dir, "a.go"),
		filepath.Join(dir, "b.go"),
		filepath.Join(dir, "c.go"),
	}, c.all())
}

func TestFileWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	w, err := NewFileWatcher([]string{t.TempDir()}, nil, testDebounce)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- w.Stop() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked on a watcher that never started")
	}
	assert.NoError(t, w.Stop())
}
