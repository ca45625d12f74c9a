// Package convert rewrites a directory of Wiki.js Markdown pages into Hexo
// posts. Each file is converted on its own; a failing file is recorded and the
// batch moves on.
package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"filekit/pkg/logging"
	"filekit/pkg/merge"
)

// DefaultExtensions selects the pages to convert when the caller configures none.
var DefaultExtensions = []string{".md"}

// Request describes one conversion batch.
type Request struct {
	Source           string         // Directory holding the Wiki.js pages.
	Target           string         // Directory receiving the Hexo posts; created when missing.
	Extensions       []string       // Literal path suffixes of the pages to convert.
	Workers          int            // Concurrent converters; 1 or less converts in scan order.
	TitleFromHeading bool           // Use the first Markdown heading when the metadata has no title.
	Location         *time.Location // Zone for rewritten dates; time.Local when nil.
}

// Conversion records one written post.
type Conversion struct {
	Source string
	Output string
}

// FileError is a failure confined to a single page.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Report lists what happened to every page of a batch, in scan order.
type Report struct {
	Converted []Conversion
	Skipped   []string // Pages without a front-matter block.
	Failed    []FileError
}

// Err combines the per-file failures, or returns nil when there were none.
func (r Report) Err() error {
	var err error
	for _, f := range r.Failed {
		err = multierr.Append(err, f)
	}
	return err
}

// Total is the number of pages the batch looked at.
func (r Report) Total() int {
	return len(r.Converted) + len(r.Skipped) + len(r.Failed)
}

// ConvertDir converts every page under req.Source into req.Target. A missing
// source or an uncreatable target fails the whole run; anything that goes
// wrong with a single page only lands in the Report.
func ConvertDir(ctx context.Context, req Request, logger *zap.Logger) (Report, error) {
	logger = logging.OrNop(logger)
	startTime := time.Now()

	exts := req.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	extSet := merge.NewExtensionSet(exts...)

	logger.Info("Starting conversion",
		zap.String("source", req.Source),
		zap.String("target", req.Target),
		zap.Strings("extensions", extSet.Strings()))

	entries, err := merge.Scan(req.Source, extSet, merge.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to collect pages", zap.String("source", req.Source), zap.Error(err))
		return Report{}, err
	}

	target, err := filepath.Abs(req.Target)
	if err != nil {
		return Report{}, &merge.IOError{Op: "resolve", Path: req.Target, Err: err}
	}
	if err := ensureDirectory(target, logger); err != nil {
		return Report{}, &merge.IOError{Op: "mkdir", Path: target, Err: err}
	}

	c := &converter{
		target:           target,
		extensions:       extSet,
		titleFromHeading: req.TitleFromHeading,
		location:         req.Location,
		logger:           logger,
	}

	outcomes, err := convertFiles(ctx, c, entries, req.Workers, logger)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for i, o := range outcomes {
		switch {
		case o.err != nil:
			report.Failed = append(report.Failed, FileError{Path: entries[i].Path, Err: o.err})
		case o.skipped:
			report.Skipped = append(report.Skipped, entries[i].Path)
		default:
			report.Converted = append(report.Converted, Conversion{Source: entries[i].Path, Output: o.output})
		}
	}

	logger.Info("Conversion completed",
		zap.Int("converted", len(report.Converted)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("elapsed", time.Since(startTime)))
	return report, nil
}

// fallbackID is the page's file name without the suffix that selected it.
func fallbackID(path string, exts merge.ExtensionSet) string {
	name := filepath.Base(path)
	for _, s := range exts.Strings() {
		if strings.HasSuffix(name, s) && len(name) > len(s) {
			return strings.TrimSuffix(name, s)
		}
	}
	if stem := strings.TrimSuffix(name, filepath.Ext(name)); stem != "" {
		return stem
	}
	return name
}
