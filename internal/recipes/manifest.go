package recipes

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

const (
	// DefaultEmblemIcon is the icon of the site's own index page.
	DefaultEmblemIcon = "🌮"
	// DefaultIndexName is the reserved name of the synthetic index page.
	DefaultIndexName = "index"
	// DefaultIndexSource is the listing document the index page is rendered from.
	DefaultIndexSource = "README.md"
)

// ErrNameCollision reports two pages resolving to the same name, including a
// source document that would shadow the index page.
var ErrNameCollision = errors.New("recipes: page name collision")

// PageDescriptor identifies one page of the site.
type PageDescriptor struct {
	Icon       string `json:"icon" yaml:"icon"`
	Name       string `json:"name" yaml:"name"`
	SourcePath string `json:"source_path" yaml:"source_path"`
}

// Manifest is the ordered, immutable set of pages of a build: recipe pages in
// scanner order followed by exactly one index descriptor.
type Manifest struct {
	pages     []PageDescriptor
	indexName string
}

// Pages returns a copy of every descriptor, the index page last.
func (m Manifest) Pages() []PageDescriptor {
	return slices.Clone(m.pages)
}

// Recipes returns a copy of the descriptors excluding the index page.
func (m Manifest) Recipes() []PageDescriptor {
	out := make([]PageDescriptor, 0, len(m.pages))
	for _, page := range m.pages {
		if m.IsIndex(page) {
			continue
		}
		out = append(out, page)
	}
	return out
}

// Index returns the synthetic index descriptor.
func (m Manifest) Index() (PageDescriptor, bool) {
	if len(m.pages) == 0 {
		return PageDescriptor{}, false
	}
	last := m.pages[len(m.pages)-1]
	return last, m.IsIndex(last)
}

// IsIndex reports whether page is the manifest's index descriptor.
func (m Manifest) IsIndex(page PageDescriptor) bool {
	return page.Name == m.indexNameOrDefault()
}

// Len reports the number of pages, index included.
func (m Manifest) Len() int {
	return len(m.pages)
}

func (m Manifest) indexNameOrDefault() string {
	if m.indexName == "" {
		return DefaultIndexName
	}
	return m.indexName
}

// Builder assembles a Manifest from a source directory.
type Builder struct {
	Scanner   Scanner
	Extractor Extractor
	// Emblem is the icon of the index page.
	Emblem string
	// IndexName is the reserved name of the index page.
	IndexName string
	// IndexSource is the source path recorded for the index page.
	IndexSource string
}

// NewBuilder returns a Builder using the package defaults.
func NewBuilder() Builder {
	return Builder{
		Scanner:     Scanner{Extension: DefaultExtension},
		Extractor:   Extractor{Fallback: DefaultFallbackIcon},
		Emblem:      DefaultEmblemIcon,
		IndexName:   DefaultIndexName,
		IndexSource: DefaultIndexSource,
	}
}

// Build scans dir, extracts metadata from every source and appends the index
// descriptor. Any unreadable source aborts the build; there is no partial
// manifest. Duplicate names fail with ErrNameCollision.
func (b Builder) Build(ctx context.Context, dir string) (Manifest, error) {
	paths, err := b.Scanner.Scan(ctx, dir)
	if err != nil {
		return Manifest{}, err
	}

	indexName := b.indexName()
	seen := make(map[string]string, len(paths)+1)
	seen[indexName] = b.indexSource()

	pages := make([]PageDescriptor, 0, len(paths)+1)
	for _, path := range paths {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return Manifest{}, err
			}
		}
		name := PageName(path)
		if previous, ok := seen[name]; ok {
			return Manifest{}, fmt.Errorf("%w: %q from %s and %s", ErrNameCollision, name, previous, path)
		}
		seen[name] = path

		icon, err := b.Extractor.Extract(path)
		if err != nil {
			return Manifest{}, err
		}
		pages = append(pages, PageDescriptor{Icon: icon, Name: name, SourcePath: path})
	}

	pages = append(pages, PageDescriptor{
		Icon:       b.emblem(),
		Name:       indexName,
		SourcePath: b.indexSource(),
	})

	return Manifest{pages: pages, indexName: indexName}, nil
}

// NewManifest assembles a manifest from already extracted recipe descriptors,
// appending the index descriptor. It applies the same collision rule as Build.
func (b Builder) NewManifest(recipes []PageDescriptor) (Manifest, error) {
	indexName := b.indexName()
	seen := map[string]struct{}{indexName: {}}
	pages := make([]PageDescriptor, 0, len(recipes)+1)
	for _, page := range recipes {
		if _, ok := seen[page.Name]; ok {
			return Manifest{}, fmt.Errorf("%w: %q", ErrNameCollision, page.Name)
		}
		seen[page.Name] = struct{}{}
		if page.Icon == "" {
			page.Icon = b.Extractor.fallback()
		}
		pages = append(pages, page)
	}
	pages = append(pages, PageDescriptor{Icon: b.emblem(), Name: indexName, SourcePath: b.indexSource()})
	return Manifest{pages: pages, indexName: indexName}, nil
}

func (b Builder) emblem() string {
	if b.Emblem == "" {
		return DefaultEmblemIcon
	}
	return b.Emblem
}

func (b Builder) indexName() string {
	if b.IndexName == "" {
		return DefaultIndexName
	}
	return b.IndexName
}

func (b Builder) indexSource() string {
	if b.IndexSource == "" {
		return DefaultIndexSource
	}
	return b.IndexSource
}
