// Package watch reruns a build when its input files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls Rebuild after changes to Paths.
type Watcher struct {
	// Paths are the files and directories to watch. Directories are watched
	// recursively, skipping hidden directories and node_modules.
	Paths []string
	// Ignore lists directories whose events are dropped, such as the build
	// output directory.
	Ignore []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// Rebuild runs once per settled burst of changes. Its errors are logged.
	Rebuild func(ctx context.Context) error
	// Logger is optional.
	Logger *slog.Logger
}

// Run watches until ctx is done. It returns an error only when the watch
// cannot be set up.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Rebuild == nil {
		return errors.New("watch: Rebuild is required")
	}
	if len(w.Paths) == 0 {
		return errors.New("watch: no paths to watch")
	}
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	set, err := w.addPaths(watcher)
	if err != nil {
		return err
	}
	logger.Info("watching for changes", slog.Int("paths", len(w.Paths)))

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	var pending <-chan time.Time
	var changed string

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !set.matches(event.Name) {
				continue
			}
			if event.Op&fsnotify.Create != 0 && set.inDir(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchDirRecursive(watcher, event.Name); err != nil {
						logger.Warn("failed to watch new directory", slog.String("dir", event.Name), slog.Any("error", err))
					}
				}
			}

			changed = event.Name
			timer.Reset(debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			logger.Info("change detected, rebuilding", slog.String("file", changed))
			if err := w.Rebuild(ctx); err != nil {
				logger.Error("rebuild failed", slog.Any("error", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", slog.Any("error", err))
		}
	}
}

// pathSet decides which events belong to the watched paths.
type pathSet struct {
	files  map[string]struct{}
	dirs   []string
	ignore []string
}

func (s pathSet) matches(name string) bool {
	name = filepath.Clean(name)
	for _, dir := range s.ignore {
		if within(name, dir) {
			return false
		}
	}
	if _, ok := s.files[name]; ok {
		return true
	}
	return s.inDir(name)
}

func (s pathSet) inDir(name string) bool {
	for _, dir := range s.dirs {
		if within(name, dir) {
			return true
		}
	}
	return false
}

func within(name, dir string) bool {
	return name == dir || strings.HasPrefix(name, dir+string(filepath.Separator))
}

// addPaths registers w.Paths with watcher. Files are watched through their
// parent directory so editors that replace files on save are still seen.
func (w *Watcher) addPaths(watcher *fsnotify.Watcher) (pathSet, error) {
	set := pathSet{files: make(map[string]struct{})}
	for _, dir := range w.Ignore {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return set, fmt.Errorf("failed to resolve %s: %w", dir, err)
		}
		set.ignore = append(set.ignore, abs)
	}

	parents := make(map[string]struct{})
	for _, p := range w.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return set, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return set, fmt.Errorf("failed to watch %s: %w", p, err)
		}
		if info.IsDir() {
			set.dirs = append(set.dirs, abs)
			if err := watchDirRecursive(watcher, abs); err != nil {
				return set, fmt.Errorf("failed to watch %s: %w", p, err)
			}
			continue
		}
		set.files[abs] = struct{}{}
		parent := filepath.Dir(abs)
		if _, ok := parents[parent]; ok {
			continue
		}
		parents[parent] = struct{}{}
		if err := watcher.Add(parent); err != nil {
			return set, fmt.Errorf("failed to watch %s: %w", parent, err)
		}
	}
	return set, nil
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		// Skip node_modules and hidden directories
		if path != dir && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
