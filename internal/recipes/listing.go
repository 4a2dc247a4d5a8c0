package recipes

import (
	"fmt"
	"strings"
)

// DefaultPageExtension is appended to page names to form rendered file names.
const DefaultPageExtension = ".html"

// DefaultListingTitle is the first line of the listing document.
const DefaultListingTitle = "# " + DefaultEmblemIcon + " recipes"

// IndexFormatter renders the human readable listing of a manifest.
type IndexFormatter struct {
	Title     string
	Extension string
}

// Format renders the title line, a blank line, one "- [icon name](name.html)"
// entry per recipe page in manifest order and a trailing newline. The index
// page never links to itself.
func (f IndexFormatter) Format(m Manifest) string {
	entries := f.Entries(m)

	var builder strings.Builder
	builder.WriteString(f.title())
	builder.WriteString("\n\n")
	builder.WriteString(strings.Join(entries, "\n"))
	builder.WriteString("\n")
	return builder.String()
}

// Entries returns the formatted listing lines without the title.
func (f IndexFormatter) Entries(m Manifest) []string {
	recipes := m.Recipes()
	entries := make([]string, 0, len(recipes))
	for _, page := range recipes {
		entries = append(entries, fmt.Sprintf("- [%s %s](%s)", page.Icon, page.Name, PageFileName(page.Name, f.Extension)))
	}
	return entries
}

func (f IndexFormatter) title() string {
	if f.Title == "" {
		return DefaultListingTitle
	}
	return f.Title
}

// PageFileName returns the rendered file name of a page.
func PageFileName(name, extension string) string {
	if extension == "" {
		extension = DefaultPageExtension
	}
	return name + extension
}
