package runtimeconfig_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-recipes/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
	if cfg.Sources.Dir != "./recipes" || cfg.Output.Dir != "public" || cfg.Output.ListingFile != "README.md" {
		t.Fatalf("unexpected default layout: %+v %+v", cfg.Sources, cfg.Output)
	}
	if cfg.Site.Emblem != "🌮" || cfg.Site.FallbackIcon != "📃" || cfg.Site.IndexName != "index" {
		t.Fatalf("unexpected default site values: %+v", cfg.Site)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"source dir", func(c *runtimeconfig.Config) { c.Sources.Dir = " " }, runtimeconfig.ErrSourceDirRequired},
		{"extension", func(c *runtimeconfig.Config) { c.Sources.Extension = "md" }, runtimeconfig.ErrSourceExtensionInvalid},
		{"output dir", func(c *runtimeconfig.Config) { c.Output.Dir = "" }, runtimeconfig.ErrOutputDirRequired},
		{"overlap", func(c *runtimeconfig.Config) { c.Output.Dir = "recipes/" }, runtimeconfig.ErrOutputOverlapsSource},
		{"overlap dotted", func(c *runtimeconfig.Config) { c.Output.Dir = "recipes/../recipes" }, runtimeconfig.ErrOutputOverlapsSource},
		{"output contains source", func(c *runtimeconfig.Config) { c.Output.Dir = "." }, runtimeconfig.ErrOutputOverlapsSource},
		{"output parent of nested source", func(c *runtimeconfig.Config) {
			c.Sources.Dir = "site/recipes"
			c.Output.Dir = "site"
		}, runtimeconfig.ErrOutputOverlapsSource},
		{"output inside source", func(c *runtimeconfig.Config) { c.Output.Dir = "recipes/public" }, runtimeconfig.ErrOutputOverlapsSource},
		{"absolute output for relative source", func(c *runtimeconfig.Config) {
			abs, err := filepath.Abs("recipes")
			if err != nil {
				panic(err)
			}
			c.Output.Dir = abs
		}, runtimeconfig.ErrOutputOverlapsSource},
		{"listing file", func(c *runtimeconfig.Config) { c.Output.ListingFile = "docs/README.md" }, runtimeconfig.ErrListingFileInvalid},
		{"index name", func(c *runtimeconfig.Config) { c.Site.IndexName = "" }, runtimeconfig.ErrIndexNameRequired},
		{"workers", func(c *runtimeconfig.Config) { c.Generator.Workers = -1 }, runtimeconfig.ErrWorkersInvalid},
		{"sitemap", func(c *runtimeconfig.Config) { c.Generator.GenerateSitemap = true }, runtimeconfig.ErrSitemapRequiresBaseURL},
		{"provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{"format", func(c *runtimeconfig.Config) {
			c.Logging.Provider = "gologger"
			c.Logging.Format = "xml"
		}, runtimeconfig.ErrLoggingFormatInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsSiblingOutput(t *testing.T) {
	for _, output := range []string{"recipes-site", "../public", "recipes.out"} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Output.Dir = output
		if err := cfg.Validate(); err != nil {
			t.Fatalf("output %q: Validate() returned unexpected error: %v", output, err)
		}
	}
}

func TestConfigValidate_AllowsSitemapWithBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.GenerateSitemap = true
	cfg.Site.BaseURL = "https://recipes.example.com"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}
