package cli

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSource returns "skeleton:<name>" unless the content is "absent".
type fakeSource struct {
	mu    sync.Mutex
	names []string
	docs  []bool
}

func (f *fakeSource) ExtractSkeleton(fileName string, content []byte, verbose bool) (string, bool) {
	f.mu.Lock()
	f.names = append(f.names, fileName)
	f.docs = append(f.docs, verbose)
	f.mu.Unlock()

	if string(content) == "absent" {
		return "", false
	}
	return "skeleton:" + fileName, true
}

// writeFiles creates files under root from a path -> content map.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}
