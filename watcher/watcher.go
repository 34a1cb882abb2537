// Package watcher reports batches of changed paths under a project root.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultQuietPeriod is how long the tree must stay unchanged before a batch
// is emitted.
const DefaultQuietPeriod = 300 * time.Millisecond

// PathFilter decides which paths the watcher subscribes to and reports.
// *ignore.Matcher satisfies it.
type PathFilter interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Watcher follows a directory tree with fsnotify and coalesces bursts of
// events into batches.
type Watcher struct {
	notify  *fsnotify.Watcher
	batcher *Debouncer
	filter  PathFilter
	root    string
	logger  *slog.Logger
}

// NewWatcher registers root and every directory below it that filter keeps.
func NewWatcher(root string, filter PathFilter, quietPeriod time.Duration, logger *slog.Logger) (*Watcher, error) {
	if quietPeriod <= 0 {
		quietPeriod = DefaultQuietPeriod
	}
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		notify:  notify,
		batcher: NewDebouncer(quietPeriod),
		filter:  filter,
		root:    root,
		logger:  logger,
	}
	if err := w.subscribeTree(root, false); err != nil {
		notify.Close()
		return nil, err
	}
	return w, nil
}

// subscribeTree watches dir and its kept subdirectories. With report set,
// the kept files found on the way are queued as changes: they arrived with
// the directory and will produce no events of their own. Unreadable entries
// are skipped.
func (w *Watcher) subscribeTree(dir string, report bool) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if !d.IsDir() {
			if report && !w.filter.ShouldIgnore(path) {
				w.batcher.Add(path)
			}
			return nil
		}
		if path != w.root && w.filter.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if err := w.notify.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Changes delivers sorted absolute paths once the tree has been quiet for
// the configured period. The channel closes when Run returns.
func (w *Watcher) Changes() <-chan []string {
	return w.batcher.Output()
}

// Run pumps fsnotify events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer w.batcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.notify.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-w.notify.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// Close unsubscribes from every directory.
func (w *Watcher) Close() error {
	return w.notify.Close()
}

const reportedOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

func (w *Watcher) dispatch(ev fsnotify.Event) {
	// A directory created or moved in is subscribed; the files it already
	// holds are reported by the walk. Later files arrive as their own events.
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if !w.filter.ShouldIgnoreDir(ev.Name) {
				if err := w.subscribeTree(ev.Name, true); err != nil {
					w.logger.Warn("failed to watch new directory", "path", ev.Name, "error", err)
				}
			}
			return
		}
	}

	if ev.Op&reportedOps == 0 || w.filter.ShouldIgnore(ev.Name) {
		return
	}
	w.batcher.Add(ev.Name)
}
