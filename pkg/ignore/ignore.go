// Package ignore matches paths against gitignore-style exclusion patterns
// loaded from files and command-line arguments.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"go.uber.org/zap"
)

// DefaultFileName is the per-tree ignore file picked up from the scan root.
const DefaultFileName = ".mergeignore"

// Matcher combines the pattern sets loaded for one scan root.
type Matcher struct {
	base     string
	matchers []gitignore.IgnoreMatcher
	sources  []string
	logger   *zap.Logger
}

// New returns an empty Matcher whose patterns are relative to base.
func New(base string, logger *zap.Logger) (*Matcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve ignore base %s: %w", base, err)
	}
	return &Matcher{base: absBase, logger: logger}, nil
}

// Load builds a Matcher for root from root/.mergeignore (when present), an
// optional extra ignore file and inline patterns.
func Load(root, ignoreFile string, patterns []string, logger *zap.Logger) (*Matcher, error) {
	m, err := New(root, logger)
	if err != nil {
		return nil, err
	}

	local := filepath.Join(m.base, DefaultFileName)
	if _, err := os.Stat(local); err == nil {
		if err := m.CompileIgnoreFile(local); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", local, err)
	}

	if ignoreFile != "" {
		if err := m.CompileIgnoreFile(ignoreFile); err != nil {
			return nil, err
		}
	}

	m.CompileIgnoreLines(patterns...)
	return m, nil
}

// CompileIgnoreFile adds the patterns of a gitignore-style file.
func (m *Matcher) CompileIgnoreFile(path string) error {
	matcher, err := gitignore.NewGitIgnore(path, m.base)
	if err != nil {
		m.logger.Error("Failed to read ignore file", zap.String("filePath", path), zap.Error(err))
		return fmt.Errorf("load ignore file %s: %w", path, err)
	}
	m.matchers = append(m.matchers, matcher)
	m.sources = append(m.sources, path)
	m.logger.Debug("Loaded ignore file", zap.String("filePath", path))
	return nil
}

// CompileIgnoreLines adds inline patterns. Blank lines are skipped.
func (m *Matcher) CompileIgnoreLines(lines ...string) {
	var kept []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		return
	}
	m.matchers = append(m.matchers, gitignore.NewGitIgnoreFromReader(m.base, strings.NewReader(strings.Join(kept, "\n"))))
	m.sources = append(m.sources, "inline")
	m.logger.Debug("Compiled inline ignore patterns", zap.Strings("patterns", kept))
}

// Match reports whether the absolute path is excluded by any loaded pattern set.
func (m *Matcher) Match(path string, isDir bool) bool {
	for _, matcher := range m.matchers {
		if matcher.Match(path, isDir) {
			return true
		}
	}
	return false
}

// Empty reports whether no patterns were loaded.
func (m *Matcher) Empty() bool {
	return len(m.matchers) == 0
}

// Sources lists the files (or "inline") the patterns came from.
func (m *Matcher) Sources() []string {
	return append([]string(nil), m.sources...)
}
