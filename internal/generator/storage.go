package generator

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-recipes/internal/fsutil"
)

// artifactWriter abstracts where generator outputs land. Paths are relative
// to the output directory.
type artifactWriter interface {
	WriteFile(rel string, data []byte) error
	CopyFile(src, rel string) error
	CopyFromFS(fsys fs.FS, name, rel string) error
	CopyTree(src, rel string) error
}

func newFileWriter(root string) artifactWriter {
	return &fileWriter{root: root}
}

type fileWriter struct {
	root string
}

func (w *fileWriter) target(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || rel == "." {
		return "", errors.New("generator: write requires path")
	}
	if !filepath.IsLocal(rel) {
		return "", errors.New("generator: write path escapes the output directory: " + rel)
	}
	return filepath.Join(w.root, rel), nil
}

func (w *fileWriter) WriteFile(rel string, data []byte) error {
	target, err := w.target(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (w *fileWriter) CopyFile(src, rel string) error {
	target, err := w.target(rel)
	if err != nil {
		return err
	}
	return fsutil.CopyFile(src, target)
}

func (w *fileWriter) CopyFromFS(fsys fs.FS, name, rel string) error {
	target, err := w.target(rel)
	if err != nil {
		return err
	}
	return fsutil.CopyFromFS(fsys, name, target)
}

func (w *fileWriter) CopyTree(src, rel string) error {
	target, err := w.target(rel)
	if err != nil {
		return err
	}
	return fsutil.CopyTree(src, target)
}

type noopWriter struct{}

func (noopWriter) WriteFile(string, []byte) error { return nil }

func (noopWriter) CopyFile(string, string) error { return nil }

func (noopWriter) CopyFromFS(fs.FS, string, string) error { return nil }

func (noopWriter) CopyTree(string, string) error { return nil }
