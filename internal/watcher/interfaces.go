package watcher

import "context"

// FileWatcher reports changed source files in debounced batches.
type FileWatcher interface {
	// Start runs the watcher until ctx ends, passing each batch of changed
	// paths to callback.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop ends watching and releases the OS watch handles.
	Stop() error

	// Pause holds batches back while still collecting events.
	Pause()

	// Resume releases batches again, delivering held paths at once.
	Resume()
}

// PathFilter decides which files and directories are watched.
// *discovery.FileDiscovery satisfies it.
type PathFilter interface {
	// Match reports whether a changed file is of interest.
	Match(path string) bool

	// IgnoresDir reports whether a directory should not be watched.
	IgnoresDir(path string) bool
}

// SkeletonSource produces skeleton text for a file. *extractor.Extractor
// satisfies it.
type SkeletonSource interface {
	ExtractSkeleton(fileName string, content []byte, verbose bool) (string, bool)
}

// Update is the result of re-extracting one changed file.
type Update struct {
	Path string

	// Removed is set when the file no longer exists.
	Removed bool

	// OK is false when no skeleton could be produced and the caller should
	// fall back to the full file.
	OK   bool
	Text string
}
