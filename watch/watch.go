// Package watch reports asset files modified on disk, for hot reloading.
//
// A Watcher observes a base directory recursively and collects the paths of
// modified files into a pending set. Reload drivers drain the set through
// [Watcher.ShouldReload]: the first query after a modification reports true
// and consumes the mark, so each modification triggers at most one reload.
package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/assets"
)

// Watcher collects modified paths under a base directory.
// It is safe for concurrent use; modification marks arrive from the
// watcher's own goroutine while any number of drivers drain them.
type Watcher struct {
	base string

	mu    sync.Mutex
	dirty map[string]struct{}

	fsw       *fsnotify.Watcher
	closeOnce sync.Once
}

// New starts watching base (recursively) for modifications.
func New(base string) (*Watcher, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	w := &Watcher{
		base:  abs,
		dirty: make(map[string]struct{}),
		fsw:   fsw,
	}
	if err := w.addRecursive(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	go w.run()
	assets.Logger().Debug("watching", slog.String("base", abs))
	return w, nil
}

// addRecursive registers base and every subdirectory with the underlying
// watcher. fsnotify itself is non-recursive.
func (w *Watcher) addRecursive(base string) error {
	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("watch: walk %s: %w", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

// run consumes filesystem events until the watcher is closed.
func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			assets.Logger().Warn("watch error", slog.Any("err", err))
		}
	}
}

// handle marks modified files dirty and starts watching created directories.
func (w *Watcher) handle(ev fsnotify.Event) {
	// Write covers in-place saves; Create and Rename cover the
	// write-to-temp-and-rename strategy most editors use.
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return
	}
	path := ev.Name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.base, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		// A Rename names the pre-rename path. For an editor's
		// write-temp-then-rename save that path is already gone and
		// there is nothing to reload; the destination arrives as a
		// Create of its own.
		if ev.Op&fsnotify.Rename != 0 {
			return
		}
	} else if info.IsDir() {
		// Renaming a watched directory drops its watch, so the
		// destination (a Create) must be registered again, along with
		// any subdirectories it brought with it.
		if ev.Op&(fsnotify.Create|fsnotify.Rename) != 0 {
			if err := w.addRecursive(path); err != nil {
				assets.Logger().Warn("watch add", slog.String("path", path), slog.Any("err", err))
			}
		}
		return
	}

	assets.Logger().Debug("modified", slog.String("path", path))
	w.mu.Lock()
	w.dirty[path] = struct{}{}
	w.mu.Unlock()
}

// BasePath returns the watched base directory (absolute).
func (w *Watcher) BasePath() string { return w.base }

// ShouldReload reports whether path was modified since it was last queried,
// consuming the mark. Relative paths are resolved against the base
// directory.
func (w *Watcher) ShouldReload(path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.base, path)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirty[path]; !ok {
		return false
	}
	delete(w.dirty, path)
	return true
}

// Pending returns a snapshot of all currently dirty paths without consuming
// them. Useful for correlating against a store's record enumeration.
func (w *Watcher) Pending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.dirty))
	for p := range w.dirty {
		paths = append(paths, p)
	}
	return paths
}

// Close stops watching. Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.fsw.Close()
	})
	return err
}
