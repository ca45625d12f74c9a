package merge

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestWatchRerunsOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping file watcher test in short mode")
	}

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "a\n"})
	output := filepath.Join(root, "code.md")

	var mu sync.Mutex
	var runs []Result
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Request{Source: root, Output: output, Extensions: []string{".md"}}, 50*time.Millisecond, zaptest.NewLogger(t),
			func(r Result, err error) {
				assert.NoError(t, err)
				mu.Lock()
				runs = append(runs, r)
				mu.Unlock()
			})
	}()

	lastFiles := func() (int, int) {
		mu.Lock()
		defer mu.Unlock()
		if len(runs) == 0 {
			return 0, 0
		}
		return len(runs), runs[len(runs)-1].Files
	}

	require.Eventually(t, func() bool { n, _ := lastFiles(); return n == 1 }, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), []byte("b\n"), 0o644))
	require.Eventually(t, func() bool { _, files := lastFiles(); return files == 2 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancellation")
	}

	// Writing code.md itself must not have been picked up as input.
	assert.NotContains(t, parseMerged(t, readFile(t, output)).paths, "code.md")
}

func TestWatchMissingSource(t *testing.T) {
	err := Watch(context.Background(), Request{Source: filepath.Join(t.TempDir(), "missing"), Output: "out.txt"}, 0, nil, nil)
	require.ErrorIs(t, err, ErrNotFound)
}
