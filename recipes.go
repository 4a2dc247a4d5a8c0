// Package recipes builds static recipe sites: it scans a directory of
// Markdown recipes, derives a manifest of pages with their emoji icons, writes
// the listing document and renders one HTML page per recipe plus an index.
package recipes

import (
	"context"
	"io"

	staticcmd "github.com/goliatone/go-recipes/internal/commands/static"
	"github.com/goliatone/go-recipes/internal/di"
	"github.com/goliatone/go-recipes/internal/generator"
	internal "github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/internal/runtimeconfig"
	"github.com/goliatone/go-recipes/pkg/interfaces"
)

type (
	Config          = runtimeconfig.Config
	SiteConfig      = runtimeconfig.SiteConfig
	SourcesConfig   = runtimeconfig.SourcesConfig
	OutputConfig    = runtimeconfig.OutputConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	LoggingConfig   = runtimeconfig.LoggingConfig

	Manifest       = internal.Manifest
	PageDescriptor = internal.PageDescriptor
	Directive      = internal.Directive

	GeneratorService = generator.Service
	BuildResult      = generator.BuildResult

	// Option customises the module wiring.
	Option = di.Option
)

var (
	ErrNameCollision   = internal.ErrNameCollision
	ErrBuildLocked     = generator.ErrBuildLocked
	ErrServiceDisabled = generator.ErrServiceDisabled
)

// DefaultConfig returns the classic site layout.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig overlays a TOML or YAML file on DefaultConfig.
func LoadConfig(path string) (Config, bool, error) {
	return runtimeconfig.Load(path)
}

// WithLogWriter redirects console logging.
func WithLogWriter(w io.Writer) Option {
	return di.WithLogWriter(w)
}

// WithLoggerProvider replaces the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithTemplateRenderer replaces the page template renderer.
func WithTemplateRenderer(renderer interfaces.TemplateRenderer) Option {
	return di.WithTemplate(renderer)
}

// WithMarkdownParser replaces the Markdown parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return di.WithMarkdownParser(parser)
}

// Module represents the top level runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the site generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Logger returns a module scoped logger.
func (m *Module) Logger(module string) interfaces.Logger {
	return m.container.Logger(module)
}

// Commands groups the command handlers backing the CLI.
type Commands struct {
	Build    *staticcmd.BuildSiteHandler
	Clean    *staticcmd.CleanSiteHandler
	Manifest *staticcmd.ShowManifestHandler
}

// Commands returns the build, clean and manifest command handlers.
func (m *Module) Commands() Commands {
	return Commands{
		Build:    m.container.BuildSiteHandler(),
		Clean:    m.container.CleanSiteHandler(),
		Manifest: m.container.ShowManifestHandler(),
	}
}

// Build runs a full site build through the build command handler.
func (m *Module) Build(ctx context.Context, dryRun bool) (*BuildResult, error) {
	var result *BuildResult
	err := m.container.BuildSiteHandler().Execute(ctx, staticcmd.BuildSiteCommand{
		DryRun: dryRun,
		ResultCallback: func(env staticcmd.ResultEnvelope) {
			result = env.Result
		},
	})
	return result, err
}

// Clean removes the output directory.
func (m *Module) Clean(ctx context.Context) error {
	return m.container.CleanSiteHandler().Execute(ctx, staticcmd.CleanSiteCommand{})
}

// Manifest builds the manifest and the listing document without writing anything.
func (m *Module) Manifest(ctx context.Context) (Manifest, string, error) {
	var envelope staticcmd.ManifestEnvelope
	err := m.container.ShowManifestHandler().Execute(ctx, staticcmd.ShowManifestCommand{
		Format: staticcmd.FormatListing,
		Callback: func(env staticcmd.ManifestEnvelope) {
			envelope = env
		},
	})
	return envelope.Manifest, envelope.Listing, err
}
