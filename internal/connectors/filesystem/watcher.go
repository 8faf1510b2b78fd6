package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/groundrag/internal/logger"
)

// DefaultDebounce is how long a path must stay quiet before it is reported.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reports files created or written under a directory.
// Subdirectories present at start are watched too; hidden ones are skipped.
// Bursts of events for one path are reported once, after the path has been
// quiet for the debounce period.
type Watcher struct {
	root     string
	debounce time.Duration

	mu     sync.Mutex
	closed bool
	fsw    *fsnotify.Watcher
}

// NewWatcher creates a watcher for root.
func NewWatcher(root string) *Watcher {
	return &Watcher{root: root, debounce: DefaultDebounce}
}

// Watch starts watching and returns a channel of changed file paths.
// The channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, fmt.Errorf("watcher is closed")
	}

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watching %s: not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	err = filepath.WalkDir(w.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, _ := filepath.Rel(w.root, path); rel != "." && isHidden(rel) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("adding watch paths: %w", err)
	}

	w.fsw = fsw
	changes := make(chan string)

	go func() {
		defer close(changes)
		defer fsw.Close()

		// pending holds the instant each path becomes quiet.
		pending := make(map[string]time.Time)
		timer := time.NewTimer(w.debounce)
		timer.Stop()
		defer timer.Stop()
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				path, ok := w.handleFsEvent(event)
				if !ok {
					continue
				}
				pending[path] = time.Now().Add(w.debounce)
				if fire == nil {
					timer.Reset(w.debounce)
					fire = timer.C
				}
			case <-fire:
				fire = nil
				ready, wait := takeQuiet(pending, time.Now())
				for _, path := range ready {
					select {
					case changes <- path:
					case <-ctx.Done():
						return
					}
				}
				if len(pending) > 0 {
					timer.Reset(wait)
					fire = timer.C
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// takeQuiet removes the paths quiet at now from pending and returns them
// sorted, with the wait until the next pending path becomes quiet.
func takeQuiet(pending map[string]time.Time, now time.Time) ([]string, time.Duration) {
	var (
		ready []string
		wait  time.Duration
	)
	for path, due := range pending {
		if due.After(now) {
			if d := due.Sub(now); wait == 0 || d < wait {
				wait = d
			}
			continue
		}
		ready = append(ready, path)
		delete(pending, path)
	}
	sort.Strings(ready)
	return ready, wait
}

// handleFsEvent keeps creates and writes of visible regular files.
// Removals are ignored because ingestion only appends.
func (w *Watcher) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || isHidden(rel) {
		return "", false
	}

	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}

	return event.Name, true
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}
