package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-recipes/internal/fsutil"
)

// prepareOutput resets the output directory and mirrors the sources into it.
func (s *service) prepareOutput() error {
	if err := fsutil.ResetDir(s.cfg.OutputDir); err != nil {
		return fmt.Errorf("generator: reset output: %w", err)
	}
	if !s.cfg.CopySources {
		return nil
	}
	dest := sourceCopyDir(s.cfg.SourceDir)
	if dest == "" {
		return nil
	}
	if err := fsutil.CopyTree(s.cfg.SourceDir, filepath.Join(s.cfg.OutputDir, dest)); err != nil {
		return fmt.Errorf("generator: copy sources: %w", err)
	}
	return nil
}

// copyAssets writes every configured stylesheet into the output root. A path
// missing on disk falls back to the embedded asset with the same base name.
func (s *service) copyAssets(writer artifactWriter) (int, error) {
	copied := 0
	for _, sheet := range s.cfg.Stylesheets {
		sheet = strings.TrimSpace(sheet)
		if sheet == "" {
			continue
		}
		name := filepath.Base(sheet)

		info, err := os.Stat(sheet)
		switch {
		case err == nil && !info.IsDir():
			if err := writer.CopyFile(sheet, name); err != nil {
				return copied, fmt.Errorf("generator: copy asset %q: %w", sheet, err)
			}
		case err == nil || errors.Is(err, fs.ErrNotExist):
			if s.deps.Assets == nil {
				return copied, fmt.Errorf("generator: asset %q not found", sheet)
			}
			if err := writer.CopyFromFS(s.deps.Assets, name, name); err != nil {
				return copied, fmt.Errorf("generator: copy embedded asset %q: %w", name, err)
			}
		default:
			return copied, fmt.Errorf("generator: inspect asset %q: %w", sheet, err)
		}
		copied++
	}
	return copied, nil
}
