package main

import (
	"context"
	"fmt"

	"github.com/lexandro/codecontext/console"
	"github.com/lexandro/codecontext/ignore"
	"github.com/lexandro/codecontext/watcher"
)

// watch writes the snapshot once, then rewrites it after every quiet period
// that follows a relevant change. It returns when ctx is done.
func (p *project) watch(ctx context.Context, printer *console.Printer) error {
	if _, err := p.writeSnapshot(ctx, printer); err != nil {
		return err
	}

	w, err := watcher.NewWatcher(p.root, p.matcher, watcher.DefaultQuietPeriod, p.logger)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()
	go w.Run(ctx)

	printer.Watching(p.root)
	for batch := range w.Changes() {
		if !p.affectsSnapshot(batch) {
			p.logger.Debug("ignoring changes", "paths", batch)
			continue
		}
		p.logger.Info("changes detected", "paths", len(batch))
		// Failures are already on the console; keep watching.
		p.writeSnapshot(ctx, printer)
	}

	p.logger.Info("watch stopped", "root", p.root)
	return nil
}

// affectsSnapshot reports whether any path in batch could change the
// snapshot: a qualifying file, or a directory that held snapshotted files
// before it was removed or renamed. A changed ignore file reloads the rules
// first.
func (p *project) affectsSnapshot(batch []string) bool {
	for _, path := range batch {
		if ignore.IsIgnoreFile(path) {
			p.matcher.Reload()
			return true
		}
	}
	for _, path := range batch {
		if p.matcher.Qualifies(path) || p.heldSnapshotFiles(path) {
			return true
		}
	}
	return false
}
