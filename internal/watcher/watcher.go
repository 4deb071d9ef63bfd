// Package watcher polls a project tree for file changes and triggers an
// index rebuild when anything moved. Polling keeps the watch portable
// across filesystems; a missed cycle costs one stale interval, never a
// stale index.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/DeusData/codebase-atlas/internal/discover"
)

const (
	baseInterval = 1 * time.Second
	maxInterval  = 60 * time.Second
)

type fileSnapshot struct {
	modTime time.Time
	size    int64
}

// ReindexFunc is called when the watched tree changed.
type ReindexFunc func(ctx context.Context) error

// Watcher polls one project root for file changes.
type Watcher struct {
	root    string
	opts    *discover.Options
	reindex ReindexFunc

	snapshot map[string]fileSnapshot
	interval time.Duration
	nextPoll time.Time
}

// New creates a Watcher over root. opts carries the same exclusions the
// index build uses, so the watch never wakes up for ignored files.
func New(root string, opts *discover.Options, reindex ReindexFunc) *Watcher {
	return &Watcher{root: root, opts: opts, reindex: reindex}
}

// Run blocks until ctx is cancelled. Ticks at baseInterval, polling only
// when the adaptive interval has elapsed.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(baseInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

// poll captures a snapshot of the tree and compares it with the previous
// one. The first poll records a baseline without reindexing; later polls
// trigger the reindex callback when any file changed.
func (w *Watcher) poll(ctx context.Context) {
	now := time.Now()
	if now.Before(w.nextPoll) {
		return
	}

	if _, err := os.Stat(w.root); err != nil {
		slog.Warn("watcher.root_gone", "path", w.root)
		w.nextPoll = now.Add(maxInterval)
		return
	}

	snap, err := captureSnapshot(ctx, w.root, w.opts)
	if err != nil {
		slog.Warn("watcher.snapshot", "path", w.root, "err", err)
		w.nextPoll = now.Add(w.interval)
		return
	}

	interval := pollInterval(len(snap))

	if w.snapshot == nil {
		slog.Debug("watcher.baseline", "path", w.root, "files", len(snap))
		w.snapshot = snap
		w.interval = interval
		w.nextPoll = now.Add(interval)
		return
	}

	if snapshotsEqual(w.snapshot, snap) {
		w.interval = interval
		w.nextPoll = now.Add(interval)
		return
	}

	slog.Info("watcher.changed", "path", w.root, "files", len(snap))
	if err := w.reindex(ctx); err != nil {
		slog.Warn("watcher.reindex", "path", w.root, "err", err)
		// Keep the old snapshot so the next cycle retries.
		w.nextPoll = now.Add(interval)
		return
	}

	w.snapshot = snap
	w.interval = pollInterval(len(snap))
	w.nextPoll = now.Add(w.interval)
}

// captureSnapshot walks the tree through discover.Discover and records
// mtime and size for every parseable file.
func captureSnapshot(ctx context.Context, root string, opts *discover.Options) (map[string]fileSnapshot, error) {
	files, err := discover.Discover(ctx, root, opts)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]fileSnapshot, len(files))
	for _, f := range files {
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue
		}
		snap[f.RelPath] = fileSnapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
		}
	}
	return snap, nil
}

// snapshotsEqual reports whether both snapshots hold the same files with
// the same mtime and size.
func snapshotsEqual(a, b map[string]fileSnapshot) bool {
	if len(a) != len(b) {
		return false
	}
	for path, aSnap := range a {
		bSnap, ok := b[path]
		if !ok {
			return false
		}
		if !aSnap.modTime.Equal(bSnap.modTime) || aSnap.size != bSnap.size {
			return false
		}
	}
	return true
}

// pollInterval computes the adaptive interval from file count.
// 1s base + 1s per 500 files, capped at 60s.
func pollInterval(fileCount int) time.Duration {
	ms := 1000 + (fileCount/500)*1000
	if ms > 60000 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}
