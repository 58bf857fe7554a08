package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/cortex-skeleton/internal/skeleton/extractor"
)

// Test Plan for scan:
// - scanFiles keeps results in input order regardless of worker count
// - Names passed to the source are relative to the root
// - onDone is called once per file
// - Unreadable files become fallbacks
// - A completed scan with a live context returns every result
// - A cancelled context aborts the scan
// - writeScanResults prints skeletons in order and counts fallbacks
// - --list output marks each file ok or fallback

func TestScanFiles_Order(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.go":     "a",
		"b/c.py":   "absent",
		"b/d.ts":   "d",
		"e/f/g.rs": "g",
	})
	files := []string{
		filepath.Join(root, "a.go"),
		filepath.Join(root, "b", "c.py"),
		filepath.Join(root, "b", "d.ts"),
		filepath.Join(root, "e", "f", "g.rs"),
		filepath.Join(root, "missing.go"),
	}

	for _, workers := range []int{0, 1, 3} {
		var mu sync.Mutex
		var done []string
		onDone := func(path string) {
			mu.Lock()
			done = append(done, path)
			mu.Unlock()
		}

		results, err := scanFiles(context.Background(), &fakeSource{}, root, files, workers, false, onDone)
		require.NoError(t, err)
		require.Len(t, results, len(files))

		assert.Equal(t, scanResult{Path: files[0], Text: "skeleton:a.go", OK: true}, results[0])
		assert.Equal(t, scanResult{Path: files[1]}, results[1])
		assert.Equal(t, scanResult{Path: files[2], Text: "skeleton:b/d.ts", OK: true}, results[2])
		assert.Equal(t, scanResult{Path: files[3], Text: "skeleton:e/f/g.rs", OK: true}, results[3])
		assert.Equal(t, scanResult{Path: files[4]}, results[4])

		sort.Strings(done)
		expected := append([]string(nil), files...)
		sort.Strings(expected)
		assert.Equal(t, expected, done)
	}
}

func TestScanFiles_Extractor(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.go":    "package a\n\n// Add sums.\nfunc Add(x, y int) int { return x + y }\n",
		"b/c.xyz": "anything",
	})
	files := []string{filepath.Join(root, "a.go"), filepath.Join(root, "b", "c.xyz")}

	ext := extractor.New()
	t.Cleanup(ext.Close)

	results, err := scanFiles(context.Background(), ext, root, files, 1, false, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].OK)
	assert.Contains(t, results[0].Text, "# a.go [Go]")
	assert.Contains(t, results[0].Text, "def Add(x, y int) -> int")
	assert.False(t, results[1].OK)

	var out bytes.Buffer
	stats, err := writeScanResults(&out, root, results, false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Extracted)
	assert.Equal(t, 1, stats.Fallbacks)
	assert.Contains(t, out.String(), "# a.go [Go]")
}

func TestScanFiles_Cancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.go": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scanFiles(ctx, &fakeSource{}, root, []string{filepath.Join(root, "a.go")}, 1, false, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteScanResults(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	results := []scanResult{
		{Path: filepath.Join(root, "a.go"), Text: "A", OK: true},
		{Path: filepath.Join(root, "b.py")},
		{Path: filepath.Join(root, "c", "d.rs"), Text: "D", OK: true},
	}

	var out bytes.Buffer
	stats, err := writeScanResults(&out, root, results, false)
	require.NoError(t, err)
	assert.Equal(t, "A\n\nD\n", out.String())
	assert.Equal(t, 3, stats.Files)
	assert.Equal(t, 2, stats.Extracted)
	assert.Equal(t, 1, stats.Fallbacks)

	out.Reset()
	_, err = writeScanResults(&out, root, results, true)
	require.NoError(t, err)
	assert.Equal(t, "ok        a.go\nfallback  b.py\nok        c/d.rs\n", out.String())
}
