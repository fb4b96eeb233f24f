// Package watcher re-runs work when files on disk change
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a set of files for changes
type Watcher struct {
	paths    []string
	onChange func(path string)
	debounce time.Duration
	logger   *slog.Logger
}

// New creates a watcher that calls onChange with the path of each changed file.
// A nil logger discards output.
func New(paths []string, onChange func(path string), logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
		logger:   logger.With("component", "watcher"),
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// Watch blocks until ctx is cancelled, calling onChange once per file for
// every burst of writes that settles for the debounce duration.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	// Directories are watched rather than files so that editors and atomic
	// saves that replace the file are still seen.
	files := make(map[string]string)
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	w.logger.Info("watching for changes", "files", w.paths)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			orig, watched := files[event.Name]
			if !watched || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending[orig] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			for path := range pending {
				w.logger.Info("file changed", "path", path)
				w.onChange(path)
			}
			clear(pending)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
