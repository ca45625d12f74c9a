package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"filekit/pkg/frontmatter"
	"filekit/pkg/merge"
)

// converter turns one page into one post.
type converter struct {
	target           string
	extensions       merge.ExtensionSet
	titleFromHeading bool
	location         *time.Location
	logger           *zap.Logger
}

// outcome is the result of converting one page.
type outcome struct {
	output  string
	skipped bool
	err     error
}

func (c *converter) convert(entry merge.FileEntry) outcome {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		c.logger.Error("Failed to read page", zap.String("filePath", entry.Path), zap.Error(err))
		return outcome{err: err}
	}
	if !utf8.Valid(data) {
		c.logger.Error("Page is not valid UTF-8", zap.String("filePath", entry.Path))
		return outcome{err: merge.ErrNotText}
	}

	block, body, err := frontmatter.Split(string(data))
	if errors.Is(err, frontmatter.ErrNoFrontMatter) {
		c.logger.Info("Skipping page without front matter", zap.String("filePath", entry.RelPath))
		return outcome{skipped: true}
	}

	meta := frontmatter.Parse(block)
	if _, ok := meta.Get("title"); !ok && c.titleFromHeading {
		if heading := frontmatter.HeadingTitle([]byte(body)); heading != "" {
			c.logger.Debug("Using first heading as title", zap.String("filePath", entry.RelPath), zap.String("title", heading))
			meta["title"] = heading
		}
	}

	id := fallbackID(entry.Path, c.extensions)
	rewriter := frontmatter.NewRewriter(c.location, c.logger)
	newBlock, baseName := rewriter.Rewrite(meta, id)

	output := filepath.Join(c.target, baseName+".md")
	if err := os.WriteFile(output, []byte(frontmatter.Document(newBlock, body)), 0o644); err != nil {
		c.logger.Error("Failed to write post", zap.String("outputFile", output), zap.Error(err))
		return outcome{err: fmt.Errorf("write %s: %w", output, err)}
	}

	c.logger.Info("Converted page", zap.String("source", id), zap.String("output", filepath.Base(output)))
	return outcome{output: output}
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
