// Package markdown renders recipe documents into HTML fragments for the page
// template. Only conversion lives here; discovery and metadata extraction
// belong to the recipes package.
package markdown
