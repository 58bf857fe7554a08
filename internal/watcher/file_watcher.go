package watcher

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 500 * time.Millisecond

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// fileWatcher batches fsnotify events for files accepted by a PathFilter.
// A batch is delivered once no new event arrived for the debounce period.
type fileWatcher struct {
	fsw      *fsnotify.Watcher
	filter   PathFilter
	debounce time.Duration
	done     chan struct{} // closed when run returns

	stopOnce sync.Once
	stopErr  error

	mu       sync.Mutex
	onChange func(files []string)
	cancel   context.CancelFunc
	paused   bool
	pending  map[string]struct{}
}

// NewFileWatcher watches every directory under dirs that filter does not
// ignore. A nil filter accepts everything. debounce <= 0 selects
// DefaultDebounce.
func NewFileWatcher(dirs []string, filter PathFilter, debounce time.Duration) (FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw := &fileWatcher{
		fsw:      fsw,
		filter:   filter,
		debounce: debounce,
		done:     make(chan struct{}),
		pending:  make(map[string]struct{}),
	}
	for _, dir := range dirs {
		if err := fw.watchTree(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return fw, nil
}

// Start delivers batches to callback until ctx is done or Stop is called.
// A nil callback leaves the watcher idle.
func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	fw.mu.Lock()
	fw.onChange = callback
	fw.cancel = cancel
	fw.mu.Unlock()

	go fw.run(ctx)
	return nil
}

// Stop ends the event loop, if running, and closes the fsnotify watcher.
// Later calls return the first result.
func (fw *fileWatcher) Stop() error {
	fw.stopOnce.Do(func() {
		fw.mu.Lock()
		cancel := fw.cancel
		fw.mu.Unlock()

		if cancel != nil {
			cancel()
			<-fw.done
		}
		fw.stopErr = fw.fsw.Close()
	})
	return fw.stopErr
}

// Pause holds batches back. Events keep being collected.
func (fw *fileWatcher) Pause() {
	fw.mu.Lock()
	fw.paused = true
	fw.mu.Unlock()
}

// Resume delivers anything collected while paused right away.
func (fw *fileWatcher) Resume() {
	fw.mu.Lock()
	wasPaused := fw.paused
	fw.paused = false
	fw.mu.Unlock()

	if wasPaused {
		fw.flush()
	}
}

// run owns the debounce timer. fire is nil while no batch is pending.
func (fw *fileWatcher) run(ctx context.Context) {
	defer close(fw.done)

	timer := time.NewTimer(fw.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.watchTree(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}
			if !fw.relevant(event) {
				continue
			}

			fw.mu.Lock()
			fw.pending[event.Name] = struct{}{}
			fw.mu.Unlock()

			timer.Reset(fw.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			fw.flush()

		case err, ok := <-fw.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: file watcher error: %v", err)
		}
	}
}

// flush hands the pending set to the callback unless paused.
func (fw *fileWatcher) flush() {
	fw.mu.Lock()
	if fw.paused || len(fw.pending) == 0 || fw.onChange == nil {
		fw.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(fw.pending))
	for path := range fw.pending {
		batch = append(batch, path)
	}
	fw.pending = make(map[string]struct{})
	onChange := fw.onChange
	fw.mu.Unlock()

	sort.Strings(batch)
	onChange(batch)
}

func (fw *fileWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&watchedOps == 0 {
		return false
	}
	return fw.filter == nil || fw.filter.Match(event.Name)
}

// watchTree adds root and its subdirectories. Only a failure on root itself
// is returned.
func (fw *fileWatcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil && path == root:
			return err
		case err != nil:
			log.Printf("Warning: skipping %s: %v", path, err)
			return nil
		case !d.IsDir():
			return nil
		case path != root && fw.filter != nil && fw.filter.IgnoresDir(path):
			return filepath.SkipDir
		}

		if err := fw.fsw.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
