package render

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/pkg/interfaces"
)

// DefaultTemplateName is the page template shipped with the binary.
const DefaultTemplateName = "recipe.html.j2"

// DefaultStylesheet is the support stylesheet shipped with the binary.
const DefaultStylesheet = "gh-fork-ribbon.css"

//go:embed templates/*.j2
var embeddedTemplates embed.FS

//go:embed assets/*
var embeddedAssets embed.FS

// PageURLFilter names the filter that maps a page name to its rendered file.
const PageURLFilter = "page_url"

var errTemplateNameRequired = errors.New("render: template name is required")

var registerDefaults sync.Once

// ContextProvider lets typed render contexts expose their template variables.
type ContextProvider interface {
	TemplateContext() map[string]any
}

// Config selects where page templates are loaded from.
type Config struct {
	// TemplateDir overrides the embedded templates with a directory on disk.
	TemplateDir string
	// PageExtension is used by the page_url filter. Defaults to ".html".
	PageExtension string
	Logger        interfaces.Logger
}

// Renderer implements interfaces.TemplateRenderer on top of pongo2, whose
// syntax is compatible with the Jinja templates recipe sites are written in.
type Renderer struct {
	set    *pongo2.TemplateSet
	logger interfaces.Logger
	mu     sync.RWMutex
}

var _ interfaces.TemplateRenderer = (*Renderer)(nil)

// NewRenderer builds a renderer that loads templates from cfg.TemplateDir, or
// from the embedded defaults when no directory is configured.
func NewRenderer(cfg Config) (*Renderer, error) {
	source, err := templateSource(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}
	set := pongo2.NewSet("recipes", pongo2.NewFSLoader(source))
	set.Globals = pongo2.Context{}
	renderer := &Renderer{set: set, logger: cfg.Logger}
	if renderer.logger == nil {
		renderer.logger = logging.NoOp()
	}
	renderer.logger.Debug("render.templates.loaded", "template_dir", cfg.TemplateDir, "embedded", strings.TrimSpace(cfg.TemplateDir) == "")

	// pongo2 filters are process-global: page_url is installed once, with
	// the extension of the first renderer. Templates that must follow a
	// per-site extension use site.index_url and page.url instead.
	var regErr error
	registerDefaults.Do(func() {
		if !pongo2.FilterExists(PageURLFilter) {
			regErr = renderer.RegisterFilter(PageURLFilter, PageURL(cfg.PageExtension))
		}
	})
	if regErr != nil {
		return nil, regErr
	}
	return renderer, nil
}

// PageURL returns a filter function that turns a page name into the file name
// it is rendered to.
func PageURL(extension string) func(any, any) (any, error) {
	return func(input any, _ any) (any, error) {
		name := strings.TrimSpace(fmt.Sprint(input))
		if name == "" || input == nil {
			return "", nil
		}
		return recipes.PageFileName(name, extension), nil
	}
}

func templateSource(dir string) (fs.FS, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fs.Sub(embeddedTemplates, "templates")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("render: inspect template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("render: template path %q is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// RenderTemplate executes the named template with data and streams the result
// to every writer in out.
func (r *Renderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errTemplateNameRequired
	}
	tpl, err := r.set.FromCache(name)
	if err != nil {
		r.logger.Error("render.template.load_failed", "template", name, "error", err)
		return "", fmt.Errorf("render: load template %q: %w", name, err)
	}
	return r.execute(tpl, data, out)
}

// RenderString executes an inline template.
func (r *Renderer) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.set.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("render: parse inline template: %w", err)
	}
	return r.execute(tpl, data, out)
}

// RegisterFilter exposes fn to templates as a filter named name, replacing an
// existing filter of the same name.
func (r *Renderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("render: filter name and function are required")
	}
	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		out, err := fn(in.Interface(), param.Interface())
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	}
	if pongo2.FilterExists(name) {
		return pongo2.ReplaceFilter(name, filter)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext merges data into the variables visible to every template.
func (r *Renderer) GlobalContext(data any) error {
	values, err := toContext(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	globals := maps.Clone(r.set.Globals)
	if globals == nil {
		globals = pongo2.Context{}
	}
	maps.Copy(globals, values)
	r.set.Globals = globals
	return nil
}

func (r *Renderer) execute(tpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	values, err := toContext(data)
	if err != nil {
		return "", err
	}

	r.mu.RLock()
	rendered, err := tpl.Execute(values)
	r.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("render: execute template: %w", err)
	}

	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", fmt.Errorf("render: write output: %w", err)
		}
	}
	return rendered, nil
}

func toContext(data any) (pongo2.Context, error) {
	switch value := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return maps.Clone(value), nil
	case map[string]any:
		return pongo2.Context(maps.Clone(value)), nil
	case ContextProvider:
		return pongo2.Context(value.TemplateContext()), nil
	default:
		return nil, fmt.Errorf("render: unsupported template data %T", data)
	}
}

// DefaultAssets returns the embedded support assets keyed by file name.
func DefaultAssets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
