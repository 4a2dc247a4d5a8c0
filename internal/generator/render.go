package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/recipes"
)

const defaultTemplateName = "recipe.html.j2"

// PageContext captures the data contract passed to TemplateRenderer
// implementations for a single page.
type PageContext struct {
	ShortName string
	Favicon   string
	PathName  string
	// SourceURL links the published copy of the source, relative to the
	// output root. Empty when sources are not copied.
	SourceURL string
	Timestamp string
	IsIndex   bool
	Body      string
	Site      map[string]any
	Pages     []recipes.PageDescriptor
	// PageExtension is the file extension pages are rendered with.
	PageExtension string
}

// TemplateContext exposes the page under the variable names templates use.
func (p PageContext) TemplateContext() map[string]any {
	pages := make([]map[string]any, 0, len(p.Pages))
	for _, page := range p.Pages {
		pages = append(pages, map[string]any{
			"icon":   page.Icon,
			"name":   page.Name,
			"source": page.SourcePath,
			"url":    recipes.PageFileName(page.Name, p.PageExtension),
		})
	}
	return map[string]any{
		"shortname":  p.ShortName,
		"favicon":    p.Favicon,
		"pathname":   p.PathName,
		"source_url": p.SourceURL,
		"timestamp":  p.Timestamp,
		"isindex":    p.IsIndex,
		"body":       p.Body,
		"site":       p.Site,
		"pages":      pages,
	}
}

// RenderedPage captures the rendered HTML output for a page.
type RenderedPage struct {
	Name       string
	SourcePath string
	Output     string
	IsIndex    bool
	HTML       string
	Checksum   string
	Duration   time.Duration
}

// RenderDiagnostic records rendering timing and errors for individual pages.
type RenderDiagnostic struct {
	Name     string
	Output   string
	Template string
	Duration time.Duration
	Err      error
}

type renderOutcome struct {
	page       RenderedPage
	diagnostic RenderDiagnostic
	err        error
}

type renderJob struct {
	site     map[string]any
	pages    []recipes.PageDescriptor
	listing  []byte
	links    string
	writer   artifactWriter
	template string
}

func cancelledOutcome(directive recipes.Directive, err error) renderOutcome {
	return renderOutcome{
		diagnostic: RenderDiagnostic{
			Name:   directive.Name,
			Output: directive.OutputPath,
			Err:    err,
		},
		err: err,
	}
}

func (s *service) renderPage(ctx context.Context, job renderJob, directive recipes.Directive) renderOutcome {
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			Name:     directive.Name,
			Output:   directive.OutputPath,
			Template: job.template,
		},
	}
	fail := func(err error) renderOutcome {
		outcome.err = err
		outcome.diagnostic.Err = err
		return outcome
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	logger := logging.WithPageContext(s.deps.Logger, directive.Name, directive.SourcePath)
	start := time.Now()

	// the index page renders the in-memory listing so dry runs never read
	// from the output tree
	source := job.listing
	if !directive.IsIndex {
		data, err := os.ReadFile(directive.SourcePath)
		if err != nil {
			return fail(fmt.Errorf("generator: read source for page %q: %w", directive.Name, err))
		}
		source = data
	}

	body, err := s.deps.Markdown.Parse(source)
	if err != nil {
		return fail(fmt.Errorf("generator: parse markdown for page %q: %w", directive.Name, err))
	}

	pageCtx := PageContext{
		ShortName: directive.Name,
		Favicon:   directive.Icon,
		PathName:  directive.SourcePath,
		SourceURL: s.sourceURL(job.links, directive),
		Timestamp: directive.Timestamp,
		IsIndex:   directive.IsIndex,
		Body:      string(body),
		Site:      job.site,
		Pages:     job.pages,

		PageExtension: s.cfg.PageExtension,
	}

	html, err := s.deps.Renderer.RenderTemplate(job.template, pageCtx)
	if err != nil {
		return fail(fmt.Errorf("generator: render template %q for page %q: %w", job.template, directive.Name, err))
	}

	rel, err := filepath.Rel(s.cfg.OutputDir, directive.OutputPath)
	if err != nil {
		return fail(fmt.Errorf("generator: resolve output for page %q: %w", directive.Name, err))
	}
	if err := job.writer.WriteFile(rel, []byte(html)); err != nil {
		return fail(fmt.Errorf("generator: write page %q: %w", directive.Name, err))
	}

	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	outcome.page = RenderedPage{
		Name:       directive.Name,
		SourcePath: directive.SourcePath,
		Output:     directive.OutputPath,
		IsIndex:    directive.IsIndex,
		HTML:       html,
		Checksum:   computeHash([]byte(html)),
		Duration:   duration,
	}
	logger.Debug("generator.render.complete", "output", directive.OutputPath, "duration", duration)
	return outcome
}
