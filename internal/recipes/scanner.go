package recipes

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// DefaultExtension is the source document extension discovered by default.
const DefaultExtension = ".md"

// Scanner lists recipe sources in a directory.
type Scanner struct {
	// Extension filters discovered files by suffix (defaults to ".md").
	Extension string
}

// Scan returns the paths of regular files in dir whose names end in the
// configured extension, sorted lexicographically. Paths are built as
// dir + "/" + name so a "./recipes" root yields "./recipes/apple.md".
// Dot-files are skipped. An empty directory is not an error.
func (s Scanner) Scan(ctx context.Context, dir string) ([]string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("recipes: scan %s: %w", dir, err)
	}

	ext := s.extension()
	prefix := strings.TrimRight(dir, "/")
	if prefix == "" {
		prefix = "/"
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.HasSuffix(name, ext) {
			continue
		}
		if !entry.Type().IsRegular() {
			info, err := os.Stat(joinSourcePath(prefix, name))
			if err != nil {
				return nil, fmt.Errorf("recipes: scan %s: %w", name, err)
			}
			if !info.Mode().IsRegular() {
				continue
			}
		}
		paths = append(paths, joinSourcePath(prefix, name))
	}

	sort.Strings(paths)
	return paths, nil
}

func (s Scanner) extension() string {
	ext := strings.TrimSpace(s.Extension)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func joinSourcePath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
