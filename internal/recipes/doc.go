// Package recipes turns a directory of recipe documents into a site manifest.
//
// The pipeline is strictly sequential: a Scanner lists the sources, an
// Extractor reads the icon marker from each source's first line, a Builder
// assembles the ordered Manifest (recipes first, the synthetic index page
// last), and the manifest feeds both the IndexFormatter (the listing document)
// and the Emitter (one render Directive per page). Nothing in this package
// renders templates or writes files.
package recipes
