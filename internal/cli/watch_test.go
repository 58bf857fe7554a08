package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mvp-joe/cortex-skeleton/internal/watcher"
)

func TestUpdatePrinter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	var out, errOut bytes.Buffer
	printUpdate := updatePrinter(&out, &errOut, root)

	printUpdate(watcher.Update{Path: filepath.Join(root, "a.go"), OK: true, Text: "# a.go [Go]"})
	printUpdate(watcher.Update{Path: filepath.Join(root, "b.py")})
	printUpdate(watcher.Update{Path: filepath.Join(root, "c", "d.rs"), Removed: true})

	assert.Equal(t, "# a.go [Go]\n\n", out.String())
	assert.Equal(t, "b.py: no skeleton (fallback required)\nc/d.rs: removed\n", errOut.String())
}
