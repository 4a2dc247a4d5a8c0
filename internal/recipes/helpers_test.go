package recipes

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSources(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		target := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", target, err)
		}
		if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", target, err)
		}
	}
}
