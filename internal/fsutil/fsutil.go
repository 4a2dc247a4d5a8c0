// Package fsutil holds the filesystem primitives the generator assembles the
// output tree with.
package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return WriteFrom(dst, in, 0o644)
}

// CopyFromFS copies name out of fsys into dst.
func CopyFromFS(fsys fs.FS, name, dst string) error {
	in, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()
	return WriteFrom(dst, in, 0o644)
}

// WriteFrom creates dst (and its parent directories) and fills it from r.
func WriteFrom(dst string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// CopyTree recursively copies the directory src into dst, preserving the
// relative layout. Symlinked files are copied by content; symlinked
// directories are not followed. When dst lies under src it is skipped.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("fsutil: %s is not a directory", src)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return err
	}
	if absDst == absSrc {
		return fmt.Errorf("fsutil: cannot copy %s onto itself", src)
	}
	nested := Within(absSrc, absDst)

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if entry.IsDir() {
			if nested && Within(absDst, filepath.Join(absSrc, rel)) {
				return filepath.SkipDir
			}
			return os.MkdirAll(target, 0o755)
		}
		if entry.Type()&fs.ModeSymlink != 0 {
			resolved, err := os.Stat(path)
			if err != nil {
				return err
			}
			if resolved.IsDir() {
				return nil
			}
		}
		return CopyFile(path, target)
	})
}

// ResetDir removes dir and everything below it, then recreates it empty.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// Overlaps reports whether either directory is the other or lies below it.
// Relative paths resolve against the working directory.
func Overlaps(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("fsutil: resolve %s: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("fsutil: resolve %s: %w", b, err)
	}
	return Within(absA, absB) || Within(absB, absA), nil
}

// Within reports whether child is parent or a path below it. Both paths must
// be absolute or both relative to the same directory.
func Within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
