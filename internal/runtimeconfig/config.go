package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-recipes/internal/fsutil"
	"github.com/goliatone/go-recipes/internal/recipes"
)

// ErrSourceDirRequired indicates the recipe source directory is missing.
var ErrSourceDirRequired = errors.New("recipes config: source directory is required")

// ErrSourceExtensionInvalid ensures the source extension starts with a dot.
var ErrSourceExtensionInvalid = errors.New("recipes config: source extension must start with a dot")

// ErrOutputDirRequired indicates the output directory is missing.
var ErrOutputDirRequired = errors.New("recipes config: output directory is required")

// ErrOutputOverlapsSource prevents a build from deleting its own sources.
var ErrOutputOverlapsSource = errors.New("recipes config: output directory must not equal, contain or sit inside the source directory")
var ErrListingFileInvalid = errors.New("recipes config: listing file must be a plain file name")
var ErrIndexNameRequired = errors.New("recipes config: index page name is required")
var ErrWorkersInvalid = errors.New("recipes config: generator workers must be zero or positive")
var ErrSitemapRequiresBaseURL = errors.New("recipes config: sitemap generation requires a base url")
var ErrLoggingProviderRequired = errors.New("recipes config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("recipes config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("recipes config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("recipes config: logging format is invalid")

// Config aggregates every setting of a recipe site build.
type Config struct {
	Site      SiteConfig      `toml:"site" yaml:"site"`
	Sources   SourcesConfig   `toml:"sources" yaml:"sources"`
	Output    OutputConfig    `toml:"output" yaml:"output"`
	Generator GeneratorConfig `toml:"generator" yaml:"generator"`
	Markdown  MarkdownConfig  `toml:"markdown" yaml:"markdown"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
}

// SiteConfig captures values shown on every page.
type SiteConfig struct {
	Title         string `toml:"title" yaml:"title"`
	Emblem        string `toml:"emblem" yaml:"emblem"`
	FallbackIcon  string `toml:"fallback_icon" yaml:"fallback_icon"`
	IndexName     string `toml:"index_name" yaml:"index_name"`
	Language      string `toml:"language" yaml:"language"`
	RepositoryURL string `toml:"repository_url" yaml:"repository_url"`
	BaseURL       string `toml:"base_url" yaml:"base_url"`
}

// SourcesConfig locates the recipe documents.
type SourcesConfig struct {
	Dir       string `toml:"dir" yaml:"dir"`
	Extension string `toml:"extension" yaml:"extension"`
}

// OutputConfig describes the published tree. Dir is removed and recreated on
// every build and must not overlap the source directory. Builds and cleans
// serialise on a "<Dir>.lock" file created beside Dir; the file is kept
// between runs and is safe to delete when no build is running.
type OutputConfig struct {
	Dir           string `toml:"dir" yaml:"dir"`
	ListingFile   string `toml:"listing_file" yaml:"listing_file"`
	PageExtension string `toml:"page_extension" yaml:"page_extension"`
	CopySources   bool   `toml:"copy_sources" yaml:"copy_sources"`
}

// GeneratorConfig captures behaviour for the page renderer.
type GeneratorConfig struct {
	Workers         int      `toml:"workers" yaml:"workers"`
	TemplateDir     string   `toml:"template_dir" yaml:"template_dir"`
	Template        string   `toml:"template" yaml:"template"`
	Stylesheets     []string `toml:"stylesheets" yaml:"stylesheets"`
	GenerateSitemap bool     `toml:"generate_sitemap" yaml:"generate_sitemap"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string `toml:"extensions" yaml:"extensions"`
	Sanitize   bool     `toml:"sanitize" yaml:"sanitize"`
	HardWraps  bool     `toml:"hard_wraps" yaml:"hard_wraps"`
	SafeMode   bool     `toml:"safe_mode" yaml:"safe_mode"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `toml:"provider" yaml:"provider"`
	Level     string   `toml:"level" yaml:"level"`
	Format    string   `toml:"format" yaml:"format"`
	AddSource bool     `toml:"add_source" yaml:"add_source"`
	Focus     []string `toml:"focus" yaml:"focus"`
}

// DefaultConfig returns the layout of the classic recipes site: sources in
// ./recipes, output in public, listing in README.md.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:        "recipes",
			Emblem:       recipes.DefaultEmblemIcon,
			FallbackIcon: recipes.DefaultFallbackIcon,
			IndexName:    recipes.DefaultIndexName,
			Language:     "en",
		},
		Sources: SourcesConfig{
			Dir:       "./recipes",
			Extension: recipes.DefaultExtension,
		},
		Output: OutputConfig{
			Dir:           "public",
			ListingFile:   recipes.DefaultIndexSource,
			PageExtension: recipes.DefaultPageExtension,
			CopySources:   true,
		},
		Generator: GeneratorConfig{
			Workers:     0,
			Stylesheets: []string{"gh-fork-ribbon.css"},
		},
		Markdown: MarkdownConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	sourceDir := strings.TrimSpace(cfg.Sources.Dir)
	if sourceDir == "" {
		return ErrSourceDirRequired
	}
	if ext := strings.TrimSpace(cfg.Sources.Extension); ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("%w: %s", ErrSourceExtensionInvalid, ext)
	}
	outputDir := strings.TrimSpace(cfg.Output.Dir)
	if outputDir == "" {
		return ErrOutputDirRequired
	}
	overlaps, err := fsutil.Overlaps(sourceDir, outputDir)
	if err != nil {
		return fmt.Errorf("recipes config: %w", err)
	}
	if overlaps {
		return fmt.Errorf("%w: source %s, output %s", ErrOutputOverlapsSource, sourceDir, outputDir)
	}
	if listing := strings.TrimSpace(cfg.Output.ListingFile); listing != "" && strings.ContainsAny(listing, `/\`) {
		return fmt.Errorf("%w: %s", ErrListingFileInvalid, listing)
	}
	if strings.TrimSpace(cfg.Site.IndexName) == "" {
		return ErrIndexNameRequired
	}
	if cfg.Generator.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrWorkersInvalid, cfg.Generator.Workers)
	}
	if cfg.Generator.GenerateSitemap && strings.TrimSpace(cfg.Site.BaseURL) == "" {
		return ErrSitemapRequiresBaseURL
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
