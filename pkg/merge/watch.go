package merge

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"filekit/pkg/logging"
)

// DefaultWatchDebounce is how long Watch waits for a burst of events to settle.
const DefaultWatchDebounce = 300 * time.Millisecond

// RunFunc receives the outcome of every merge run started by Watch.
type RunFunc func(Result, error)

// Watch runs Merge once, then again whenever a matching file under req.Source
// is created, written, removed or renamed. Events on the output and tree
// files are ignored. Watch returns when ctx is done.
func Watch(ctx context.Context, req Request, debounce time.Duration, logger *zap.Logger, onRun RunFunc) error {
	logger = logging.OrNop(logger)
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	root, err := filepath.Abs(req.Source)
	if err != nil {
		return &IOError{Op: "resolve", Path: req.Source, Err: err}
	}
	ignored := map[string]bool{}
	for _, p := range []string{req.Output, req.Tree} {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			ignored[abs] = true
		}
	}
	exts := NewExtensionSet(req.Extensions...)

	run := func() {
		result, err := Merge(ctx, req, logger)
		if onRun != nil {
			onRun(result, err)
		}
	}

	// Fail fast on a missing or non-directory source.
	if _, err := Scan(root, exts); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer func() {
		if err := w.Close(); err != nil {
			logger.Warn("Failed to close file watcher", zap.Error(err))
		}
	}()

	if err := addTree(w, root, logger); err != nil {
		return err
	}

	run()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored[event.Name] {
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := addTree(w, event.Name, logger); err != nil {
					logger.Warn("Cannot watch new directory", zap.String("directory", event.Name), zap.Error(err))
				}
			} else if !exts.Match(event.Name) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Change detected", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			run()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", zap.Error(err))
		}
	}
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string, logger *zap.Logger) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &IOError{Op: "walk", Path: path, Err: err}
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(path); err != nil {
			logger.Warn("Cannot watch directory", zap.String("directory", path), zap.Error(err))
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
