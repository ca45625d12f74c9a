// File: pkg/merge/traversal.go
package merge

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// IgnoreParser matches absolute paths against exclusion patterns.
type IgnoreParser interface {
	Match(path string, isDir bool) bool
}

type scanConfig struct {
	exclude map[string]bool
	ignore  IgnoreParser
	logger  *zap.Logger
}

// ScanOption customizes Scan.
type ScanOption func(*scanConfig)

// WithExclude drops the given files from the scan result, compared as
// cleaned absolute paths.
func WithExclude(paths ...string) ScanOption {
	return func(c *scanConfig) {
		for _, p := range paths {
			if p == "" {
				continue
			}
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
			c.exclude[filepath.Clean(p)] = true
		}
	}
}

// WithIgnore skips files and whole directories matched by gi.
func WithIgnore(gi IgnoreParser) ScanOption {
	return func(c *scanConfig) {
		c.ignore = gi
	}
}

// WithLogger sets the logger used for debug output during the walk.
func WithLogger(logger *zap.Logger) ScanOption {
	return func(c *scanConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Scan walks root recursively and returns every regular file whose path ends
// with one of the suffixes in exts, in walk order.
func Scan(root string, exts ExtensionSet, opts ...ScanOption) ([]FileEntry, error) {
	cfg := scanConfig{exclude: map[string]bool{}, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &IOError{Op: "resolve", Path: root, Err: err}
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return nil, &IOError{Op: "stat", Path: absRoot, Err: err}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	logger.Debug("Starting file traversal", zap.String("root", absRoot), zap.Strings("extensions", exts.Strings()))

	var entries []FileEntry
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return &IOError{Op: "walk", Path: path, Err: walkErr}
		}
		if path == absRoot {
			return nil
		}

		if cfg.ignore != nil && cfg.ignore.Match(path, d.IsDir()) {
			logger.Debug("Skipping ignored path", zap.String("path", path))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() || !exts.Match(path) {
			return nil
		}

		if cfg.exclude[path] {
			logger.Debug("Skipping excluded file", zap.String("path", path))
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return &IOError{Op: "relativize", Path: path, Err: err}
		}
		entries = append(entries, FileEntry{Path: path, RelPath: filepath.ToSlash(relPath)})
		logger.Debug("Added file to merge list", zap.String("filePath", path))
		return nil
	})
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			return nil, err
		}
		return nil, &IOError{Op: "walk", Path: absRoot, Err: err}
	}

	logger.Debug("Completed file traversal", zap.Int("matchedFiles", len(entries)))
	return entries, nil
}
