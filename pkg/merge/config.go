package merge

import (
	"path/filepath"
	"strings"
)

// DefaultExtensions are the suffixes merged when the caller configures none.
var DefaultExtensions = []string{".java", ".md", ".xml", ".txt", ".properties", ".json"}

// Request holds the configuration options for one merge run.
type Request struct {
	Source     string   // Directory to scan.
	Output     string   // Destination path for the merged file.
	Extensions []string // Literal path suffixes selecting the files to merge.
	Exclude    []string // Additional gitignore-style patterns, relative to Source.
	IgnoreFile string   // Optional gitignore-style file, patterns relative to Source.
	Workers    int      // Concurrent readers; 1 or less reads sequentially.
	Tree       string   // Optional destination for a tree listing of the merged files.
}

// MergeInto builds a Request that writes fileName inside targetDir, the
// "source dir + target dir + file name" shape of the merge invocation.
func MergeInto(source, targetDir, fileName string, extensions ...string) Request {
	return Request{
		Source:     source,
		Output:     filepath.Join(targetDir, fileName),
		Extensions: extensions,
		Workers:    1,
	}
}

// Options tunes Aggregate.
type Options struct {
	Workers int // Concurrent readers; the write stage is always sequential.
}

// FileEntry is one file selected by Scan.
type FileEntry struct {
	Path    string // Absolute path of the file.
	RelPath string // Path relative to the scan root, always with forward slashes.
}

// Result summarizes a merge or aggregate run.
type Result struct {
	OutputFile string // Absolute path of the merged file.
	Files      int    // Number of files written into OutputFile.
	Lines      int    // Number of content lines copied, headers excluded.
}

// ExtensionSet is an ordered set of literal path suffixes.
type ExtensionSet struct {
	suffixes []string
}

// NewExtensionSet keeps the first occurrence of every non-blank suffix.
func NewExtensionSet(suffixes ...string) ExtensionSet {
	seen := make(map[string]bool, len(suffixes))
	set := ExtensionSet{}
	for _, s := range suffixes {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		set.suffixes = append(set.suffixes, s)
	}
	return set
}

// Match reports whether path ends with one of the suffixes. Case-sensitive.
func (e ExtensionSet) Match(path string) bool {
	for _, s := range e.suffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// Len returns the number of suffixes in the set.
func (e ExtensionSet) Len() int {
	return len(e.suffixes)
}

// Strings returns a copy of the suffixes in insertion order.
func (e ExtensionSet) Strings() []string {
	return append([]string(nil), e.suffixes...)
}
