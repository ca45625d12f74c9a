package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"filekit/pkg/merge"
)

func writePages(t *testing.T, root string, pages map[string]string) {
	t.Helper()
	for rel, content := range pages {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readPost(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConvertDirRewritesPages(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	target := filepath.Join(dir, "hexo", "posts")
	writePages(t, source, map[string]string{
		"flink-intro.md": "---\ntitle: Hello\ndate: 2025-08-01T21:52:12.670Z\ntags: a, b\n---\n# Hello\n\nBody text.\n",
		"notes.txt":      "---\ntitle: Not selected\n---\n",
	})

	report, err := ConvertDir(context.Background(), Request{Source: source, Target: target, Location: time.UTC}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, report.Err())
	require.Len(t, report.Converted, 1)
	assert.Empty(t, report.Skipped)
	assert.Equal(t, filepath.Join(target, "Hello.md"), report.Converted[0].Output)

	assert.Equal(t, "---\n"+
		"title: Hello\n"+
		"abbrlink: flink-intro\n"+
		"date: 2025-08-01 21:52:12\n"+
		"tags:\n"+
		"  - a\n"+
		"  - b\n"+
		"categories:\n"+
		"  - a\n"+
		"toc: true\n"+
		"---\n# Hello\n\nBody text.\n", readPost(t, report.Converted[0].Output))
}

func TestConvertDirSkipsPagesWithoutFrontMatter(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	target := filepath.Join(dir, "hexo")
	writePages(t, source, map[string]string{
		"a.md": "---\ntitle: First\n---\nbody",
		"b.md": "--- only one delimiter\ntext",
		"c.md": "---\ntitle: Third\n---\nbody",
	})

	report, err := ConvertDir(context.Background(), Request{Source: source, Target: target}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(source, "b.md")}, report.Skipped)
	require.Len(t, report.Converted, 2)
	assert.FileExists(t, filepath.Join(target, "First.md"))
	assert.FileExists(t, filepath.Join(target, "Third.md"))
	assert.Equal(t, 3, report.Total())
}

func TestConvertDirFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	target := filepath.Join(dir, "hexo")
	writePages(t, source, map[string]string{
		"nested/page-42.md": "---\ntitle: \" ?? \"\n---\nbody",
		"no-title.md":       "---\ndate: 2025-01-01\n---\nbody",
	})

	report, err := ConvertDir(context.Background(), Request{Source: source, Target: target}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, report.Converted, 2)

	// "??" sanitizes to "__", which is still a usable name.
	assert.FileExists(t, filepath.Join(target, "__.md"))
	assert.FileExists(t, filepath.Join(target, "Untitled.md"))
	assert.Contains(t, readPost(t, filepath.Join(target, "Untitled.md")), "abbrlink: no-title\ndate: 2025-01-01\n")
}

func TestConvertDirEmptyTitleUsesFileName(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	target := filepath.Join(dir, "hexo")
	writePages(t, source, map[string]string{"page-7.md": "---\ntitle:\n---\nbody"})

	report, err := ConvertDir(context.Background(), Request{Source: source, Target: target}, nil)
	require.NoError(t, err)
	require.Len(t, report.Converted, 1)
	assert.Equal(t, filepath.Join(target, "page-7.md"), report.Converted[0].Output)
}

func TestConvertDirTitleFromHeading(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	target := filepath.Join(dir, "hexo")
	writePages(t, source, map[string]string{"p.md": "---\ntags: go\n---\n\n# Heading *Title*\n\ntext\n"})

	report, err := ConvertDir(context.Background(), Request{Source: source, Target: target, TitleFromHeading: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, report.Converted, 1)
	assert.Equal(t, filepath.Join(target, "Heading Title.md"), report.Converted[0].Output)
	assert.Contains(t, readPost(t, report.Converted[0].Output), "title: Heading Title\n")
}

func TestConvertDirRecordsFailuresAndContinues(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	target := filepath.Join(dir, "hexo")
	writePages(t, source, map[string]string{
		"a.md": "---\ntitle: Good\n---\nbody",
		"b.md": "---\ntitle: Bad\n---\n\xff\xfe",
		"c.md": "---\ntitle: Also good\n---\nbody",
	})

	report, err := ConvertDir(context.Background(), Request{Source: source, Target: target}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Len(t, report.Converted, 2)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, filepath.Join(source, "b.md"), report.Failed[0].Path)

	batchErr := report.Err()
	require.Error(t, batchErr)
	assert.ErrorIs(t, batchErr, merge.ErrNotText)
	assert.Contains(t, batchErr.Error(), "b.md")
}

func TestConvertDirMissingSource(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "hexo")

	_, err := ConvertDir(context.Background(), Request{Source: filepath.Join(dir, "missing"), Target: target}, nil)
	require.ErrorIs(t, err, merge.ErrNotFound)
	assert.NoDirExists(t, target)
}

func TestConvertDirTargetCannotBeCreated(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	writePages(t, source, map[string]string{"a.md": "---\ntitle: A\n---\n"})
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := ConvertDir(context.Background(), Request{Source: source, Target: filepath.Join(blocker, "hexo")}, nil)
	var ioErr *merge.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "mkdir", ioErr.Op)
}

func TestConvertDirConcurrentMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	pages := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		pages[name+".md"] = "---\ntitle: Post " + name + "\ntags: x\n---\nbody " + name + "\n"
	}
	pages["skip.md"] = "no front matter"
	writePages(t, source, pages)

	seq, err := ConvertDir(context.Background(), Request{Source: source, Target: filepath.Join(dir, "seq"), Workers: 1}, nil)
	require.NoError(t, err)
	par, err := ConvertDir(context.Background(), Request{Source: source, Target: filepath.Join(dir, "par"), Workers: 4}, nil)
	require.NoError(t, err)

	require.Len(t, par.Converted, len(seq.Converted))
	assert.Len(t, par.Skipped, 1)
	for i := range seq.Converted {
		assert.Equal(t, seq.Converted[i].Source, par.Converted[i].Source)
		assert.Equal(t, filepath.Base(seq.Converted[i].Output), filepath.Base(par.Converted[i].Output))
		assert.Equal(t, readPost(t, seq.Converted[i].Output), readPost(t, par.Converted[i].Output))
	}
}

func TestConvertDirHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "wiki")
	writePages(t, source, map[string]string{"a.md": "---\ntitle: A\n---\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ConvertDir(ctx, Request{Source: source, Target: filepath.Join(dir, "hexo")}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFallbackID(t *testing.T) {
	exts := merge.NewExtensionSet(".md", ".wiki.txt")
	assert.Equal(t, "page", fallbackID("/w/page.md", exts))
	assert.Equal(t, "page", fallbackID("/w/page.wiki.txt", exts))
	assert.Equal(t, "archive.v2", fallbackID("/w/archive.v2.md", exts))
	assert.Equal(t, ".md", fallbackID("/w/.md", exts))
}
