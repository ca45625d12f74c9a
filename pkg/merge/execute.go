// File: pkg/merge/execute.go
package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"filekit/pkg/ignore"
	"filekit/pkg/logging"
)

// Merge scans req.Source and aggregates the matching files into req.Output.
// The output file (and the tree file, if any) never takes part in its own
// input. When nothing matches, no file is written and the zero-file Result is
// returned without error.
func Merge(ctx context.Context, req Request, logger *zap.Logger) (Result, error) {
	logger = logging.OrNop(logger)
	startTime := time.Now()

	parentDir, err := filepath.Abs(req.Source)
	if err != nil {
		logger.Error("Failed to resolve directory path", zap.Error(err))
		return Result{}, &IOError{Op: "resolve", Path: req.Source, Err: err}
	}
	output, err := filepath.Abs(req.Output)
	if err != nil {
		return Result{}, &IOError{Op: "resolve", Path: req.Output, Err: err}
	}

	exts := NewExtensionSet(req.Extensions...)
	logger.Info("Starting merge",
		zap.String("source", parentDir),
		zap.String("output", output),
		zap.Strings("extensions", exts.Strings()))

	opts := []ScanOption{WithExclude(output, req.Tree), WithLogger(logger)}

	// The ignore file is only consulted when the source exists; Scan reports
	// a missing or non-directory root itself.
	if info, statErr := os.Stat(parentDir); statErr == nil && info.IsDir() {
		gi, err := ignore.Load(parentDir, req.IgnoreFile, req.Exclude, logger)
		if err != nil {
			logger.Error("Failed to load ignore patterns", zap.Error(err))
			return Result{}, fmt.Errorf("failed to load ignore patterns: %w", err)
		}
		if !gi.Empty() {
			opts = append(opts, WithIgnore(gi))
		}
	}

	entries, err := Scan(parentDir, exts, opts...)
	if err != nil {
		logger.Error("Failed to collect files", zap.String("source", parentDir), zap.Error(err))
		return Result{}, err
	}

	logger.Info("Collected files to merge", zap.Int("totalFiles", len(entries)))
	if len(entries) == 0 {
		logger.Warn("No files matched the configured extensions, nothing to merge")
		return Result{OutputFile: output}, nil
	}

	result, err := Aggregate(ctx, entries, parentDir, output, Options{Workers: req.Workers}, logger)
	if err != nil {
		logger.Error("Failed to write merged file", zap.String("outputFile", output), zap.Error(err))
		return Result{}, err
	}

	if req.Tree != "" {
		tree := GenerateTree(filepath.Base(parentDir), entries)
		if err := writeToFile(req.Tree, []byte(tree), 0o644, logger); err != nil {
			return Result{}, &IOError{Op: "write", Path: req.Tree, Err: err}
		}
	}

	logger.Info("Merge completed",
		zap.String("outputFile", result.OutputFile),
		zap.Int("totalFiles", result.Files),
		zap.Duration("elapsed", time.Since(startTime)))
	return result, nil
}

// ensureDirectory ensures a directory exists, creating it if necessary.
func ensureDirectory(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		logger.Error("Failed to create directory", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Ensured directory exists", zap.String("path", path))
	return nil
}

// writeToFile writes data to a file, creating its directory, and logs the operation.
func writeToFile(path string, data []byte, perm os.FileMode, logger *zap.Logger) error {
	if err := ensureDirectory(filepath.Dir(path), logger); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		logger.Error("Failed to write file", zap.String("path", path), zap.Error(err))
		return err
	}
	logger.Debug("Successfully wrote file", zap.String("path", path))
	return nil
}
