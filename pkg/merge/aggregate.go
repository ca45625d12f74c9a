package merge

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"filekit/pkg/logging"
)

// Aggregate writes entries into outputFile: the preamble, then for each entry
// in order a path-marker header followed by the file's lines. The parent
// directory of outputFile is created when missing. Any read or write failure
// aborts the run; a partially written outputFile is not valid.
func Aggregate(ctx context.Context, entries []FileEntry, sourceRoot, outputFile string, opts Options, logger *zap.Logger) (Result, error) {
	logger = logging.OrNop(logger)

	absRoot, err := filepath.Abs(sourceRoot)
	if err != nil {
		return Result{}, &IOError{Op: "resolve", Path: sourceRoot, Err: err}
	}
	absOutput, err := filepath.Abs(outputFile)
	if err != nil {
		return Result{}, &IOError{Op: "resolve", Path: outputFile, Err: err}
	}

	if err := ensureDirectory(filepath.Dir(absOutput), logger); err != nil {
		return Result{}, &IOError{Op: "mkdir", Path: filepath.Dir(absOutput), Err: err}
	}

	// Reading ahead only pays off with more than one worker.
	var contents [][]string
	if opts.Workers > 1 {
		contents, err = readFilesConcurrently(entries, opts.Workers, logger)
		if err != nil {
			return Result{}, err
		}
	}

	logger.Debug("Writing merged content to output file", zap.String("outputFile", absOutput))

	outFile, err := os.Create(absOutput)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", absOutput), zap.Error(err))
		return Result{}, &IOError{Op: "create", Path: absOutput, Err: err}
	}
	defer func() {
		if err := outFile.Close(); err != nil {
			logger.Error("Failed to close output file", zap.String("file", absOutput), zap.Error(err))
		}
	}()

	writer := bufio.NewWriter(outFile)
	result := Result{OutputFile: absOutput}

	if _, err := writer.WriteString(preamble(len(entries), absRoot)); err != nil {
		return Result{}, &IOError{Op: "write", Path: absOutput, Err: err}
	}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		var lines []string
		if contents != nil {
			lines = contents[i]
		} else if lines, err = readTextLines(entry.Path); err != nil {
			logger.Error("Failed to read file", zap.String("filePath", entry.Path), zap.Error(err))
			return Result{}, err
		}

		if _, err := writer.WriteString(fileHeader(entry.RelPath)); err != nil {
			return Result{}, &IOError{Op: "write", Path: absOutput, Err: err}
		}
		for _, line := range lines {
			if _, err := writer.WriteString(line + lineSeparator); err != nil {
				return Result{}, &IOError{Op: "write", Path: absOutput, Err: err}
			}
		}

		result.Files++
		result.Lines += len(lines)
		logger.Debug("Merged file", zap.String("relPath", entry.RelPath), zap.Int("lines", len(lines)))
	}

	if err := writer.Flush(); err != nil {
		logger.Error("Failed to flush output file", zap.String("file", absOutput), zap.Error(err))
		return Result{}, &IOError{Op: "flush", Path: absOutput, Err: err}
	}

	return result, nil
}
