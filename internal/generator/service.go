package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-recipes/internal/fsutil"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled = errors.New("generator: service disabled")
	// ErrBuildLocked indicates another build holds the output tree lock.
	ErrBuildLocked = errors.New("generator: output directory is locked by another build")

	errRendererRequired = errors.New("generator: template renderer is required")
	errMarkdownRequired = errors.New("generator: markdown parser is required")
	errOutputRequired   = errors.New("generator: output directory is required")
	errOutputOverlaps   = errors.New("generator: output directory overlaps the source directory")
	errSourceRequired   = errors.New("generator: source directory is required")
)

// Service describes the recipe site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Manifest(ctx context.Context) (recipes.Manifest, error)
	Clean(ctx context.Context) error
}

// SiteConfig carries the site level values exposed to every page template.
type SiteConfig struct {
	Title         string
	Emblem        string
	Language      string
	RepositoryURL string
	BaseURL       string
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	SourceDir       string
	OutputDir       string
	ListingFile     string
	PageExtension   string
	Template        string
	Stylesheets     []string
	Site            SiteConfig
	Workers         int
	CopySources     bool
	GenerateSitemap bool
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID     uuid.UUID
	Timestamp   string
	Listing     string
	Directives  []recipes.Directive
	PagesBuilt  int
	AssetsBuilt int
	Duration    time.Duration
	Rendered    []RenderedPage
	Diagnostics []RenderDiagnostic
	Errors      []error
	DryRun      bool
}

// ManifestBuilder produces the page manifest from a source directory.
type ManifestBuilder interface {
	Build(ctx context.Context, dir string) (recipes.Manifest, error)
}

// Dependencies lists the collaborators required by the generator.
type Dependencies struct {
	Manifests ManifestBuilder
	Formatter recipes.IndexFormatter
	Renderer  interfaces.TemplateRenderer
	Markdown  interfaces.MarkdownParser
	Assets    fs.FS
	Logger    interfaces.Logger
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Manifests == nil {
		deps.Manifests = recipes.NewBuilder()
	}
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if strings.TrimSpace(cfg.ListingFile) == "" {
		cfg.ListingFile = recipes.DefaultIndexSource
	}
	if strings.TrimSpace(cfg.PageExtension) == "" {
		cfg.PageExtension = recipes.DefaultPageExtension
	}
	if deps.Formatter.Extension == "" {
		deps.Formatter.Extension = cfg.PageExtension
	}
	return &service{
		cfg:   cfg,
		deps:  deps,
		now:   time.Now,
		newID: uuid.New,
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg   Config
	deps  Dependencies
	now   func() time.Time
	newID func() uuid.UUID
}

type disabledService struct{}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &BuildResult{
		BuildID: s.newID(),
		DryRun:  opts.DryRun,
	}
	logger := logging.WithBuildContext(s.deps.Logger, result.BuildID.String())
	logger.Info("generator.build.start", "source", s.cfg.SourceDir, "output", s.cfg.OutputDir, "dry_run", opts.DryRun)

	// every source is read before the output tree is touched
	manifest, err := s.deps.Manifests.Build(ctx, s.cfg.SourceDir)
	if err != nil {
		logger.Error("generator.manifest.failed", "error", err)
		return nil, fmt.Errorf("generator: build manifest: %w", err)
	}

	var writer artifactWriter = noopWriter{}
	if !opts.DryRun {
		lock, err := acquireLock(s.cfg.OutputDir)
		if err != nil {
			return nil, err
		}
		defer lock.release()

		if err := s.prepareOutput(); err != nil {
			return nil, err
		}
		writer = newFileWriter(s.cfg.OutputDir)
		assets, err := s.copyAssets(writer)
		if err != nil {
			return nil, err
		}
		result.AssetsBuilt = assets
	}

	result.Timestamp = recipes.FormatTimestamp(s.now())
	result.Listing = s.deps.Formatter.Format(manifest)
	if err := writer.WriteFile(s.cfg.ListingFile, []byte(result.Listing)); err != nil {
		return nil, fmt.Errorf("generator: write listing: %w", err)
	}

	emitter := recipes.Emitter{OutputDir: s.cfg.OutputDir, Extension: s.cfg.PageExtension}
	result.Directives = emitter.Emit(manifest, result.Timestamp)

	var (
		mu          sync.Mutex
		errorsSlice []error
		site        = s.siteContext(manifest)
		sourceLinks = s.sourceLinkDir()
		listing     = []byte(result.Listing)
	)
	result.Rendered = make([]RenderedPage, 0, len(result.Directives))
	result.Diagnostics = make([]RenderDiagnostic, 0, len(result.Directives))

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.err != nil {
			logger.Error("generator.render.failed", "page", outcome.diagnostic.Name, "error", outcome.err)
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		result.PagesBuilt++
		result.Rendered = append(result.Rendered, outcome.page)
	}

	job := renderJob{
		site:     site,
		pages:    manifest.Recipes(),
		listing:  listing,
		links:    sourceLinks,
		writer:   writer,
		template: s.templateName(),
	}

	workerCount := s.effectiveWorkerCount(len(result.Directives))
	if workerCount <= 1 || len(result.Directives) <= 1 {
		for _, directive := range result.Directives {
			if err := ctx.Err(); err != nil {
				collect(cancelledOutcome(directive, err))
				break
			}
			collect(s.renderPage(ctx, job, directive))
		}
	} else if err := s.renderConcurrently(ctx, job, result.Directives, workerCount, collect); err != nil {
		errorsSlice = append(errorsSlice, err)
	}

	if len(errorsSlice) == 0 && s.cfg.GenerateSitemap && strings.TrimSpace(s.cfg.Site.BaseURL) != "" {
		content, err := buildSitemap(s.cfg.Site.BaseURL, result.Rendered, result.Timestamp)
		if err == nil {
			err = writer.WriteFile(sitemapFileName, []byte(content))
		}
		if err != nil {
			errorsSlice = append(errorsSlice, fmt.Errorf("generator: write sitemap: %w", err))
		}
	}

	sortRendered(result.Rendered, result.Directives)
	result.Duration = time.Since(start)
	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		logger.Error("generator.build.failed", "errors", len(errorsSlice), "duration", result.Duration)
		return result, errors.Join(errorsSlice...)
	}
	logger.Info("generator.build.complete", "pages", result.PagesBuilt, "assets", result.AssetsBuilt, "duration", result.Duration)
	return result, nil
}

func (s *service) renderConcurrently(
	ctx context.Context,
	job renderJob,
	directives []recipes.Directive,
	workers int,
	collect func(renderOutcome),
) error {
	jobs := make(chan recipes.Directive)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for directive := range jobs {
				select {
				case <-ctx.Done():
					collect(cancelledOutcome(directive, ctx.Err()))
				default:
					collect(s.renderPage(ctx, job, directive))
				}
			}
		}()
	}

	for _, directive := range directives {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- directive:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

// Manifest builds and returns the manifest without touching the output tree.
func (s *service) Manifest(ctx context.Context) (recipes.Manifest, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(s.cfg.SourceDir) == "" {
		return recipes.Manifest{}, errSourceRequired
	}
	return s.deps.Manifests.Build(ctx, s.cfg.SourceDir)
}

// Clean removes the output directory while holding the output lock.
func (s *service) Clean(ctx context.Context) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(s.cfg.OutputDir) == "" {
		return errOutputRequired
	}
	lock, err := acquireLock(s.cfg.OutputDir)
	if err != nil {
		return err
	}
	defer lock.release()

	if err := os.RemoveAll(s.cfg.OutputDir); err != nil {
		return fmt.Errorf("generator: clean output: %w", err)
	}
	s.deps.Logger.Info("generator.clean.complete", "output", s.cfg.OutputDir)
	return nil
}

func (s *service) validate() error {
	switch {
	case s.deps.Renderer == nil:
		return errRendererRequired
	case s.deps.Markdown == nil:
		return errMarkdownRequired
	case strings.TrimSpace(s.cfg.SourceDir) == "":
		return errSourceRequired
	case strings.TrimSpace(s.cfg.OutputDir) == "":
		return errOutputRequired
	}
	overlaps, err := fsutil.Overlaps(s.cfg.SourceDir, s.cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if overlaps {
		return fmt.Errorf("%w: %s and %s", errOutputOverlaps, s.cfg.SourceDir, s.cfg.OutputDir)
	}
	return nil
}

func (s *service) siteContext(manifest recipes.Manifest) map[string]any {
	index, _ := manifest.Index()
	emblem := s.cfg.Site.Emblem
	if emblem == "" {
		emblem = index.Icon
	}
	return map[string]any{
		"title":          s.cfg.Site.Title,
		"emblem":         emblem,
		"language":       s.cfg.Site.Language,
		"repository_url": s.cfg.Site.RepositoryURL,
		"base_url":       strings.TrimRight(s.cfg.Site.BaseURL, "/"),
		"index_name":     index.Name,
		"index_url":      recipes.PageFileName(index.Name, s.cfg.PageExtension),
		"stylesheets":    s.stylesheetNames(),
	}
}

func (s *service) templateName() string {
	if name := strings.TrimSpace(s.cfg.Template); name != "" {
		return name
	}
	return defaultTemplateName
}

func (s *service) effectiveWorkerCount(jobs int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if jobs > 0 && workers > jobs {
		return jobs
	}
	return workers
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Manifest(context.Context) (recipes.Manifest, error) {
	return recipes.Manifest{}, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
