// Package generator exposes the recipe site generation API for hosts that
// embed go-recipes. Use NewService with Config and Dependencies to assemble
// the output tree, render pages and inspect the manifest.
package generator

import internal "github.com/goliatone/go-recipes/internal/generator"

type (
	Service          = internal.Service
	Config           = internal.Config
	SiteConfig       = internal.SiteConfig
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	PageContext      = internal.PageContext
	Dependencies     = internal.Dependencies
	ManifestBuilder  = internal.ManifestBuilder
)

var (
	ErrServiceDisabled = internal.ErrServiceDisabled
	ErrBuildLocked     = internal.ErrBuildLocked
)

// NewService wires a recipe site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return internal.NewDisabledService()
}
