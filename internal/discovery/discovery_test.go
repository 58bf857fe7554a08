package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Invalid glob patterns are rejected at construction
// - Include patterns select files, including "**/" patterns in the root
// - Ignored directories are skipped entirely
// - The .skeleton directory is always ignored
// - Results are sorted by path
// - Match agrees with Discover for absolute and relative paths
// - Paths outside the root never match
// - IgnoresDir reports ignored directories

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
}

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestNew_InvalidPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		include []string
		ignore  []string
		pattern string
	}{
		{"reversed range in include", []string{"**/[z-a].go"}, nil, "**/[z-a].go"},
		{"reversed range in ignore", []string{"**/*.go"}, []string{"build[9-0]/**"}, "build[9-0]/**"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fd, err := New(t.TempDir(), tt.include, tt.ignore)
			require.Error(t, err)
			assert.Nil(t, fd)
			assert.Contains(t, err.Error(), tt.pattern)
		})
	}
}

func TestNew_ValidPatterns(t *testing.T) {
	t.Parallel()

	fd, err := New(t.TempDir(), []string{"**/*.go", "src/[a-z]*.py", "**/*.{ts,tsx}"}, []string{"**/node_modules/**"})
	require.NoError(t, err)
	assert.NotNil(t, fd)
}

func TestDiscover_IncludeAndIgnore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root,
		"main.go",
		"README.md",
		"pkg/util.go",
		"pkg/deep/model.py",
		"node_modules/lib/index.js",
		"web/app.min.js",
		"web/app.js",
		".skeleton/config.yml",
		".skeleton/cache.go",
	)

	fd, err := New(root,
		[]string{"**/*.go", "**/*.py", "**/*.js"},
		[]string{"node_modules/**", "**/*.min.js"},
	)
	require.NoError(t, err)
	assert.Equal(t, root, fd.RootDir())

	files, err := fd.Discover()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"main.go",
		"pkg/deep/model.py",
		"pkg/util.go",
		"web/app.js",
	}, relPaths(t, root, files))
}

func TestDiscover_EmptyDirectory(t *testing.T) {
	t.Parallel()

	fd, err := New(t.TempDir(), []string{"**/*.go"}, nil)
	require.NoError(t, err)

	files, err := fd.Discover()
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestDiscover_MissingRoot(t *testing.T) {
	t.Parallel()

	fd, err := New(filepath.Join(t.TempDir(), "missing"), []string{"**/*.go"}, nil)
	require.NoError(t, err)

	_, err = fd.Discover()
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := New(root, []string{"**/*.go"}, []string{"vendor/**"})
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"root file", "main.go", true},
		{"nested file", "a/b/c.go", true},
		{"absolute path", filepath.Join(root, "a", "c.go"), true},
		{"wrong extension", "a/notes.txt", false},
		{"ignored directory", "vendor/dep/x.go", false},
		{"config directory", ".skeleton/x.go", false},
		{"outside root", filepath.Join(filepath.Dir(root), "other.go"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fd.Match(tt.path))
		})
	}
}

func TestIgnoresDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fd, err := New(root, []string{"**/*.go"}, []string{"**/node_modules/**", "**/build"})
	require.NoError(t, err)

	assert.True(t, fd.IgnoresDir(filepath.Join(root, "node_modules")))
	assert.True(t, fd.IgnoresDir(filepath.Join(root, "web", "node_modules")))
	assert.True(t, fd.IgnoresDir(filepath.Join(root, "app", "build")))
	assert.True(t, fd.IgnoresDir(filepath.Join(root, ".skeleton")))
	assert.False(t, fd.IgnoresDir(filepath.Join(root, "src")))
	assert.False(t, fd.IgnoresDir(root))
}
