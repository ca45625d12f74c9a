// Package frontmatter reads flat "key: value" metadata blocks from Markdown
// documents and rewrites them into the Hexo post layout.
package frontmatter

import (
	"errors"
	"strings"
)

// Delimiter opens and closes a front-matter block.
const Delimiter = "---"

// ErrNoFrontMatter is returned by Split when content has fewer than two delimiters.
var ErrNoFrontMatter = errors.New("no front matter block")

// Metadata maps field names to raw string values.
type Metadata map[string]string

// Get returns the value for key and whether it was present.
func (m Metadata) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Split cuts content at the first two delimiters and returns the text between
// them and everything after the second one.
func Split(content string) (block, body string, err error) {
	parts := strings.SplitN(content, Delimiter, 3)
	if len(parts) < 3 {
		return "", "", ErrNoFrontMatter
	}
	return parts[1], parts[2], nil
}

// Parse extracts "key: value" pairs from a metadata block. Blank lines, lines
// starting with '#', and lines without a colon after the first character are
// ignored. A value wrapped in one pair of double quotes loses them. Later keys
// overwrite earlier ones. Nested or multi-line values are not supported.
func Parse(block string) Metadata {
	meta := Metadata{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		colon := strings.Index(line, ":")
		if colon <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}
		meta[key] = value
	}
	return meta
}
