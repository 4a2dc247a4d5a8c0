package di

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-recipes/internal/commands"
	staticcmd "github.com/goliatone/go-recipes/internal/commands/static"
	"github.com/goliatone/go-recipes/internal/generator"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/logging/console"
	"github.com/goliatone/go-recipes/internal/logging/gologger"
	"github.com/goliatone/go-recipes/internal/markdown"
	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/internal/render"
	"github.com/goliatone/go-recipes/internal/runtimeconfig"
	"github.com/goliatone/go-recipes/pkg/interfaces"
)

// Container wires module dependencies. Collaborators not supplied through
// options are built from the configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	markdown       interfaces.MarkdownParser
	renderer       interfaces.TemplateRenderer
	builder        recipes.Builder
	formatter      recipes.IndexFormatter
	generator      generator.Service

	buildHandler    *staticcmd.BuildSiteHandler
	cleanHandler    *staticcmd.CleanSiteHandler
	manifestHandler *staticcmd.ShowManifestHandler
}

// Option mutates the container before defaults are applied.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithLogWriter redirects the console provider output.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithTemplate overrides the template renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		if tr != nil {
			c.renderer = tr
		}
	}
}

// WithMarkdownParser overrides the Markdown parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.markdown = parser
		}
	}
}

// WithGenerator overrides the generator service.
func WithGenerator(svc generator.Service) Option {
	return func(c *Container) {
		if svc != nil {
			c.generator = svc
		}
	}
}

// NewContainer validates cfg and wires the logger provider, Markdown parser,
// template renderer, generator and command handlers.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}
	c.configureManifest()
	if c.markdown == nil {
		c.markdown = markdown.NewGoldmarkParser(interfaces.ParseOptions{
			Extensions: cfg.Markdown.Extensions,
			Sanitize:   cfg.Markdown.Sanitize,
			HardWraps:  cfg.Markdown.HardWraps,
			SafeMode:   cfg.Markdown.SafeMode,
		})
	}
	if c.renderer == nil {
		renderer, err := render.NewRenderer(render.Config{
			TemplateDir:   cfg.Generator.TemplateDir,
			PageExtension: cfg.Output.PageExtension,
			Logger:        logging.RenderLogger(c.loggerProvider),
		})
		if err != nil {
			return nil, err
		}
		c.renderer = renderer
	}
	c.configureGenerator()
	c.configureCommands()
	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil {
		return nil
	}
	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "console", "":
		opts := console.Options{Writer: c.logWriter}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	default:
		return fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
	return nil
}

func (c *Container) configureManifest() {
	cfg := c.Config
	c.builder = recipes.Builder{
		Scanner:     recipes.Scanner{Extension: cfg.Sources.Extension},
		Extractor:   recipes.Extractor{Fallback: cfg.Site.FallbackIcon},
		Emblem:      cfg.Site.Emblem,
		IndexName:   cfg.Site.IndexName,
		IndexSource: cfg.Output.ListingFile,
	}
	c.formatter = recipes.IndexFormatter{
		Title:     listingTitle(cfg.Site),
		Extension: cfg.Output.PageExtension,
	}
}

// listingTitle keeps the classic "# 🌮 recipes" heading and follows custom
// emblems and titles.
func listingTitle(site runtimeconfig.SiteConfig) string {
	emblem := strings.TrimSpace(site.Emblem)
	if emblem == "" {
		emblem = recipes.DefaultEmblemIcon
	}
	title := strings.TrimSpace(site.Title)
	if title == "" {
		title = "recipes"
	}
	return "# " + emblem + " " + title
}

func (c *Container) configureGenerator() {
	if c.generator != nil {
		return
	}
	cfg := c.Config
	c.generator = generator.NewService(generator.Config{
		SourceDir:     cfg.Sources.Dir,
		OutputDir:     cfg.Output.Dir,
		ListingFile:   cfg.Output.ListingFile,
		PageExtension: cfg.Output.PageExtension,
		Template:      cfg.Generator.Template,
		Stylesheets:   append([]string(nil), cfg.Generator.Stylesheets...),
		Site: generator.SiteConfig{
			Title:         cfg.Site.Title,
			Emblem:        cfg.Site.Emblem,
			Language:      cfg.Site.Language,
			RepositoryURL: cfg.Site.RepositoryURL,
			BaseURL:       cfg.Site.BaseURL,
		},
		Workers:         cfg.Generator.Workers,
		CopySources:     cfg.Output.CopySources,
		GenerateSitemap: cfg.Generator.GenerateSitemap,
	}, generator.Dependencies{
		Manifests: loggedBuilder{builder: c.builder, logger: logging.ScannerLogger(c.loggerProvider)},
		Formatter: c.formatter,
		Renderer:  c.renderer,
		Markdown:  c.markdown,
		Assets:    render.DefaultAssets(),
		Logger:    logging.GeneratorLogger(c.loggerProvider),
	})
}

func (c *Container) configureCommands() {
	logger := commands.CommandLogger(c.loggerProvider, "static")
	c.buildHandler = staticcmd.NewBuildSiteHandler(c.generator, logger)
	c.cleanHandler = staticcmd.NewCleanSiteHandler(c.generator, logger)
	c.manifestHandler = staticcmd.NewShowManifestHandler(c.generator, c.formatter, logger)
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns a module-scoped logger.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// MarkdownParser returns the configured Markdown parser.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.markdown
}

// TemplateRenderer returns the configured template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.renderer
}

// ManifestBuilder returns the builder configured from Config.
func (c *Container) ManifestBuilder() recipes.Builder {
	return c.builder
}

// IndexFormatter returns the listing formatter configured from Config.
func (c *Container) IndexFormatter() recipes.IndexFormatter {
	return c.formatter
}

// GeneratorService returns the generator service.
func (c *Container) GeneratorService() generator.Service {
	return c.generator
}

// BuildSiteHandler returns the build command handler.
func (c *Container) BuildSiteHandler() *staticcmd.BuildSiteHandler {
	return c.buildHandler
}

// CleanSiteHandler returns the clean command handler.
func (c *Container) CleanSiteHandler() *staticcmd.CleanSiteHandler {
	return c.cleanHandler
}

// ShowManifestHandler returns the manifest command handler.
func (c *Container) ShowManifestHandler() *staticcmd.ShowManifestHandler {
	return c.manifestHandler
}
