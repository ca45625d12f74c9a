package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// writeTree creates files (slash-separated relative path -> content) under root.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func relPaths(entries []FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RelPath)
	}
	return out
}

func TestScanSelectsBySuffix(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Notes.md":             "# My Notes\n",
		"config.properties":    "key=value\n",
		"image.png":            "BINARY_DATA",
		"UPPER.MD":             "case matters\n",
		"sub/data.json":        "{}\n",
		"sub/deep/guide.md":    "# Guide\n",
		"sub/deep/readme":      "no suffix\n",
		"sub/deep/archive.md~": "backup\n",
	})

	entries, err := Scan(root, NewExtensionSet(".md", ".json", ".properties"), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"Notes.md", "config.properties", "sub/data.json", "sub/deep/guide.md"},
		relPaths(entries))

	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.True(t, filepath.IsAbs(e.Path))
		assert.Equal(t, filepath.Join(absRoot, filepath.FromSlash(e.RelPath)), e.Path)
	}
}

func TestScanFollowsWalkOrder(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"c.txt":     "c\n",
		"a.txt":     "a\n",
		"b/z.txt":   "z\n",
		"b/a/y.txt": "y\n",
	})

	entries, err := Scan(root, NewExtensionSet(".txt"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b/a/y.txt", "b/z.txt", "c.txt"}, relPaths(entries))
}

func TestScanNoMatches(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a\n"})

	entries, err := Scan(root, NewExtensionSet(".md"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScanMissingRoot(t *testing.T) {
	entries, err := Scan(filepath.Join(t.TempDir(), "missing"), NewExtensionSet(".md"))
	require.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, entries)
}

func TestScanRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"file.md": "x\n"})

	entries, err := Scan(filepath.Join(root, "file.md"), NewExtensionSet(".md"))
	require.ErrorIs(t, err, ErrNotADirectory)
	assert.Nil(t, entries)
}

func TestScanWithExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"keep.txt":     "keep\n",
		"out/code.txt": "previous output\n",
	})

	entries, err := Scan(root, NewExtensionSet(".txt"), WithExclude(filepath.Join(root, "out", "code.txt")))
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, relPaths(entries))
}

type dirIgnore string

func (d dirIgnore) Match(path string, isDir bool) bool {
	return isDir && filepath.Base(path) == string(d)
}

func TestScanWithIgnoreSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.md":              "a\n",
		"node_modules/x.md": "x\n",
	})

	entries, err := Scan(root, NewExtensionSet(".md"), WithIgnore(dirIgnore("node_modules")))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md"}, relPaths(entries))
}

func TestNewExtensionSet(t *testing.T) {
	set := NewExtensionSet(".md", " .json ", "", ".md")

	assert.Equal(t, []string{".md", ".json"}, set.Strings())
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Match("/tmp/a.md"))
	assert.True(t, set.Match("data.json"))
	assert.False(t, set.Match("a.MD"))
	assert.False(t, set.Match("a.md.bak"))
}
