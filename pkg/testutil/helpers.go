package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree materializes files on disk under root; map keys are
// slash-separated relative paths. Used by tests that exercise the real
// filesystem implementation.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}
