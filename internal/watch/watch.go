// Package watch reruns a callback when keymap files change on disk.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a packages tree for keymap changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger
	match    func(name string) bool
}

// New creates a watcher over root and every directory below it. match
// decides which file names are relevant; events for other files are dropped.
func New(root string, match func(name string) bool, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Watcher{fsw: fsw, debounce: debounce, logger: logger, match: match}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if d.IsDir() {
			return w.add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.logger.Debug("watching directory", "path", dir)
	return nil
}

// WatchList returns the watched directories.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

// Run blocks until ctx is done, calling onChange once per debounced burst of
// relevant events with the sorted changed paths. onChange runs on the Run
// goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	defer w.fsw.Close()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]bool)
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if !w.relevant(ev) {
				continue
			}
			pending[ev.Name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			onChange(paths)
		}
	}
}

// relevant filters events and starts watching newly created directories,
// which is how new packages show up.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.add(ev.Name); err != nil {
				w.logger.Warn("cannot watch new directory", "path", ev.Name, "error", err)
			}
			return false
		}
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	return w.match == nil || w.match(name)
}
