package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goliatone/go-recipes/internal/recipes"
)

const (
	lockSuffix      = ".lock"
	sitemapFileName = "sitemap.xml"
)

// lockPath places the lock beside the output directory so removing the tree
// never removes the lock that guards it.
func lockPath(outputDir string) string {
	return filepath.Clean(outputDir) + lockSuffix
}

// sourceCopyDir is where the raw sources are mirrored inside the output tree,
// keeping the relative "pathname" links of rendered pages valid.
func sourceCopyDir(sourceDir string) string {
	base := filepath.Base(filepath.Clean(strings.TrimSpace(sourceDir)))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// sourceLinkDir is the output-relative directory holding the copied sources,
// or empty when sources are not published.
func (s *service) sourceLinkDir() string {
	if !s.cfg.CopySources {
		return ""
	}
	return sourceCopyDir(s.cfg.SourceDir)
}

// sourceURL links a page to its published source. The index page links the
// listing document at the output root.
func (s *service) sourceURL(linkDir string, directive recipes.Directive) string {
	if directive.IsIndex {
		return filepath.ToSlash(s.cfg.ListingFile)
	}
	if linkDir == "" {
		return ""
	}
	return path.Join(filepath.ToSlash(linkDir), filepath.Base(directive.SourcePath))
}

func (s *service) stylesheetNames() []string {
	names := make([]string, 0, len(s.cfg.Stylesheets))
	for _, sheet := range s.cfg.Stylesheets {
		if sheet = strings.TrimSpace(sheet); sheet != "" {
			names = append(names, filepath.Base(sheet))
		}
	}
	return names
}

// sortRendered restores directive order after concurrent rendering.
func sortRendered(pages []RenderedPage, directives []recipes.Directive) {
	order := make(map[string]int, len(directives))
	for i, directive := range directives {
		order[directive.OutputPath] = i
	}
	slices.SortStableFunc(pages, func(a, b RenderedPage) int {
		return order[a.Output] - order[b.Output]
	})
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
