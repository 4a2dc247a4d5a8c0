package recipes

import (
	"path/filepath"
	"strings"
	"time"
)

// Directive describes one page render handed to the template collaborator.
// Directives share no mutable state and target distinct output paths, so
// they may be executed in any order or concurrently.
type Directive struct {
	OutputPath string `json:"output_path"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	SourcePath string `json:"source_path"`
	Timestamp  string `json:"timestamp"`
	IsIndex    bool   `json:"is_index"`
}

// Emitter converts a manifest into render directives.
type Emitter struct {
	OutputDir string
	Extension string
}

// Emit returns one directive per page, index included, in manifest order.
// Every directive carries the same timestamp.
func (e Emitter) Emit(m Manifest, timestamp string) []Directive {
	pages := m.Pages()
	directives := make([]Directive, 0, len(pages))
	for _, page := range pages {
		directives = append(directives, Directive{
			OutputPath: e.outputPath(page.Name),
			Name:       page.Name,
			Icon:       page.Icon,
			SourcePath: page.SourcePath,
			Timestamp:  timestamp,
			IsIndex:    m.IsIndex(page),
		})
	}
	return directives
}

func (e Emitter) outputPath(name string) string {
	file := PageFileName(name, e.Extension)
	dir := strings.TrimSpace(e.OutputDir)
	if dir == "" {
		return file
	}
	return filepath.Join(dir, file)
}

// FormatTimestamp renders t as an RFC 3339 UTC timestamp with a "Z" suffix
// and whole seconds, the build time format shared by every page.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
