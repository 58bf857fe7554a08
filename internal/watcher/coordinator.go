package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// WatchCoordinator routes debounced file changes from a FileWatcher through
// a SkeletonSource and reports one Update per changed file.
type WatchCoordinator struct {
	rootDir string
	files   FileWatcher
	source  SkeletonSource
	verbose bool
	handler func(Update)
}

// NewWatchCoordinator creates a new watch coordinator. verbose selects full
// docstrings in the produced skeletons. When rootDir is set, files inside it
// are named relative to it in skeleton headers.
func NewWatchCoordinator(rootDir string, files FileWatcher, source SkeletonSource, verbose bool, handler func(Update)) *WatchCoordinator {
	return &WatchCoordinator{
		rootDir: rootDir,
		files:   files,
		source:  source,
		verbose: verbose,
		handler: handler,
	}
}

// Start begins routing file changes. Blocks until context is cancelled.
func (c *WatchCoordinator) Start(ctx context.Context) error {
	if err := c.files.Start(ctx, c.handleFileChange); err != nil {
		c.cleanup()
		return err
	}

	<-ctx.Done()
	c.cleanup()
	return ctx.Err()
}

// cleanup stops the file watcher.
func (c *WatchCoordinator) cleanup() {
	if err := c.files.Stop(); err != nil {
		log.Printf("Warning: file watcher stop failed: %v", err)
	}
}

// handleFileChange re-extracts each changed file in path order.
func (c *WatchCoordinator) handleFileChange(files []string) {
	if len(files) == 0 {
		return
	}

	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	for _, path := range sorted {
		c.handler(c.process(path))
	}
}

func (c *WatchCoordinator) process(path string) Update {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Update{Path: path, Removed: true}
		}
		log.Printf("Warning: failed to read %s: %v", path, err)
		return Update{Path: path}
	}

	text, ok := c.source.ExtractSkeleton(c.displayName(path), content, c.verbose)
	return Update{Path: path, OK: ok, Text: text}
}

func (c *WatchCoordinator) displayName(path string) string {
	if c.rootDir == "" {
		return path
	}
	rel, err := filepath.Rel(c.rootDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
