package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/pkg/interfaces"
)

var buildTime = time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)

const expectedListing = "# 🌮 recipes\n\n- [🍎 apple](apple.html)\n- [📃 bread](bread.html)\n"

func TestBuildWritesSiteTree(t *testing.T) {
	root := newSiteFixture(t, map[string]string{
		"apple.md": "# 🍎 Apple pie\nbake it\n",
		"bread.md": "Bread\nknead it\n",
	})
	t.Chdir(root)

	renderer := &recordingRenderer{}
	svc := newTestService(testConfig(), renderer)

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if result.PagesBuilt != 3 {
		t.Fatalf("expected 3 pages built, got %d", result.PagesBuilt)
	}
	if result.AssetsBuilt != 1 {
		t.Fatalf("expected 1 asset copied, got %d", result.AssetsBuilt)
	}
	if result.Timestamp != "2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp %q", result.Timestamp)
	}
	if result.Listing != expectedListing {
		t.Fatalf("unexpected listing %q", result.Listing)
	}
	if result.BuildID == uuid.Nil {
		t.Fatal("expected build id")
	}

	assertFile(t, filepath.Join("public", "README.md"), expectedListing)
	assertFile(t, filepath.Join("public", "recipes", "apple.md"), "# 🍎 Apple pie\nbake it\n")
	assertFile(t, filepath.Join("public", "gh-fork-ribbon.css"), ".github-fork-ribbon{}")
	assertFile(t, filepath.Join("public", "apple.html"), "apple|🍎|./recipes/apple.md|2024-05-01T12:00:00Z|false|<md># 🍎 Apple pie\nbake it\n</md>")
	assertFile(t, filepath.Join("public", "bread.html"), "bread|📃|./recipes/bread.md|2024-05-01T12:00:00Z|false|<md>Bread\nknead it\n</md>")
	assertFile(t, filepath.Join("public", "index.html"), "index|🌮|README.md|2024-05-01T12:00:00Z|true|<md>"+expectedListing+"</md>")

	wantOrder := []string{"apple", "bread", "index"}
	for i, page := range result.Rendered {
		if page.Name != wantOrder[i] {
			t.Fatalf("rendered[%d]: expected %q, got %q", i, wantOrder[i], page.Name)
		}
		if page.Checksum == "" {
			t.Fatalf("expected checksum for %s", page.Name)
		}
	}

	for _, call := range renderer.Calls() {
		if call.name != defaultTemplateName {
			t.Fatalf("expected template %q, got %q", defaultTemplateName, call.name)
		}
		if call.ctx.Site["title"] != "recipes" || call.ctx.Site["index_name"] != "index" {
			t.Fatalf("unexpected site context %#v", call.ctx.Site)
		}
		if len(call.ctx.Pages) != 2 {
			t.Fatalf("expected 2 recipe pages in context, got %d", len(call.ctx.Pages))
		}
	}
	if len(renderer.filters) != 0 {
		t.Fatalf("build must not register template filters, got %d", len(renderer.filters))
	}
	calls := renderer.Calls()
	for _, call := range calls {
		if call.ctx.Site["index_url"] != "index.html" {
			t.Fatalf("unexpected index url %v", call.ctx.Site["index_url"])
		}
		want := "recipes/" + call.ctx.ShortName + ".md"
		if call.ctx.IsIndex {
			want = "README.md"
		}
		if call.ctx.SourceURL != want {
			t.Fatalf("%s: expected source url %q, got %q", call.ctx.ShortName, want, call.ctx.SourceURL)
		}
	}
}

func TestBuildSourceLinksFollowAbsoluteSourceDir(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	sourceDir := filepath.Join(root, "dishes")
	if err := os.MkdirAll(sourceDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sourceDir, "apple.md"), []byte("# 🍎 Apple\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := testConfig()
	cfg.SourceDir = sourceDir
	renderer := &recordingRenderer{}
	if _, err := newTestService(cfg, renderer).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	assertFile(t, filepath.Join("public", "dishes", "apple.md"), "# 🍎 Apple\n")
	for _, call := range renderer.Calls() {
		if call.ctx.ShortName != "apple" {
			continue
		}
		if call.ctx.PathName != filepath.Join(sourceDir, "apple.md") {
			t.Fatalf("pathname should keep the source path, got %q", call.ctx.PathName)
		}
		if call.ctx.SourceURL != "dishes/apple.md" {
			t.Fatalf("expected source url inside the site, got %q", call.ctx.SourceURL)
		}
		return
	}
	t.Fatal("apple was not rendered")
}

func TestBuildWithoutSourceCopyOmitsSourceLinks(t *testing.T) {
	root := newSiteFixture(t, map[string]string{"apple.md": "# 🍎 Apple\n"})
	t.Chdir(root)

	cfg := testConfig()
	cfg.CopySources = false
	renderer := &recordingRenderer{}
	if _, err := newTestService(cfg, renderer).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, call := range renderer.Calls() {
		if !call.ctx.IsIndex && call.ctx.SourceURL != "" {
			t.Fatalf("expected no source link, got %q", call.ctx.SourceURL)
		}
	}
	if _, err := os.Stat(filepath.Join("public", "recipes")); !os.IsNotExist(err) {
		t.Fatalf("expected sources not to be copied, got %v", err)
	}
}

func TestBuildRejectsOverlappingOutput(t *testing.T) {
	cases := []struct {
		name   string
		source string
		output string
	}{
		{"output is parent", "site/recipes", "site"},
		{"output inside source", "site/recipes", "site/recipes/public"},
		{"same directory", "site/recipes", "site/recipes/../recipes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			if err := os.MkdirAll(tc.source, 0o755); err != nil {
				t.Fatalf("mkdir: %v", err)
			}
			apple := filepath.Join(tc.source, "apple.md")
			if err := os.WriteFile(apple, []byte("# 🍎 Apple\n"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}

			cfg := testConfig()
			cfg.SourceDir = tc.source
			cfg.OutputDir = tc.output
			_, err := newTestService(cfg, &recordingRenderer{}).Build(context.Background(), BuildOptions{})
			if !errors.Is(err, errOutputOverlaps) {
				t.Fatalf("expected errOutputOverlaps, got %v", err)
			}
			assertFile(t, apple, "# 🍎 Apple\n")
		})
	}
}

func TestBuildManifestFailureKeepsExistingSite(t *testing.T) {
	root := newSiteFixture(t, map[string]string{"index.md": "# 🍎 Clash\n"})
	t.Chdir(root)
	if err := os.MkdirAll("public", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join("public", "index.html"), []byte("published"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := newTestService(testConfig(), &recordingRenderer{}).Build(context.Background(), BuildOptions{})
	if !errors.Is(err, recipes.ErrNameCollision) {
		t.Fatalf("expected ErrNameCollision, got %v", err)
	}
	assertFile(t, filepath.Join("public", "index.html"), "published")
}

func TestBuildRemovesStaleOutput(t *testing.T) {
	root := newSiteFixture(t, map[string]string{"apple.md": "# 🍎 Apple\n"})
	t.Chdir(root)

	stale := filepath.Join("public", "stale.html")
	if err := os.MkdirAll("public", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := newTestService(testConfig(), &recordingRenderer{}).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale output to be removed, got %v", err)
	}
}

func TestBuildUsesWorkerPool(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 12; i++ {
		files[fmt.Sprintf("dish%02d.md", i)] = "# 🍲 Dish\n"
	}
	root := newSiteFixture(t, files)
	t.Chdir(root)

	cfg := testConfig()
	cfg.Workers = 4
	renderer := &concurrentRenderer{delay: 5 * time.Millisecond}
	result, err := newTestService(cfg, renderer).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 13 {
		t.Fatalf("expected 13 pages, got %d", result.PagesBuilt)
	}
	if renderer.maxActive.Load() < 2 {
		t.Fatalf("expected concurrent renders, max active %d", renderer.maxActive.Load())
	}
	if renderer.maxActive.Load() > 4 {
		t.Fatalf("expected at most 4 concurrent renders, got %d", renderer.maxActive.Load())
	}
	for i, page := range result.Rendered {
		if page.Output != result.Directives[i].OutputPath {
			t.Fatalf("rendered[%d]: expected %s, got %s", i, result.Directives[i].OutputPath, page.Output)
		}
	}
}

func TestBuildDryRunLeavesOutputUntouched(t *testing.T) {
	root := newSiteFixture(t, map[string]string{"apple.md": "# 🍎 Apple\n"})
	t.Chdir(root)

	result, err := newTestService(testConfig(), &recordingRenderer{}).Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !result.DryRun {
		t.Fatal("expected dry run flag on result")
	}
	if len(result.Rendered) != 2 {
		t.Fatalf("expected 2 rendered pages, got %d", len(result.Rendered))
	}
	if _, err := os.Stat("public"); !os.IsNotExist(err) {
		t.Fatalf("expected no output directory, got %v", err)
	}
	if _, err := os.Stat(lockPath("public")); !os.IsNotExist(err) {
		t.Fatalf("expected no lock file, got %v", err)
	}
}

func TestBuildFailsWhenOutputLocked(t *testing.T) {
	root := newSiteFixture(t, map[string]string{"apple.md": "# 🍎 Apple\n"})
	t.Chdir(root)

	held := flock.New(lockPath("public"))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("hold lock: %v %v", locked, err)
	}
	defer held.Unlock()

	_, err = newTestService(testConfig(), &recordingRenderer{}).Build(context.Background(), BuildOptions{})
	if !errors.Is(err, ErrBuildLocked) {
		t.Fatalf("expected ErrBuildLocked, got %v", err)
	}
}

func TestBuildJoinsRenderErrors(t *testing.T) {
	root := newSiteFixture(t, map[string]string{
		"apple.md": "# 🍎 Apple\n",
		"bread.md": "# 🍞 Bread\n",
	})
	t.Chdir(root)

	renderer := &recordingRenderer{failOn: "bread"}
	result, err := newTestService(testConfig(), renderer).Build(context.Background(), BuildOptions{})
	if err == nil {
		t.Fatal("expected build error")
	}
	if !strings.Contains(err.Error(), `page "bread"`) {
		t.Fatalf("expected error to name the page, got %v", err)
	}
	if result == nil || len(result.Errors) != 1 {
		t.Fatalf("expected one recorded error, got %#v", result)
	}
	if result.PagesBuilt != 2 {
		t.Fatalf("expected the other pages to render, got %d", result.PagesBuilt)
	}
	var failed int
	for _, diag := range result.Diagnostics {
		if diag.Err != nil {
			failed++
			if diag.Name != "bread" {
				t.Fatalf("unexpected failing page %q", diag.Name)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected one failed diagnostic, got %d", failed)
	}
}

func TestBuildNameCollisionRendersNothing(t *testing.T) {
	root := newSiteFixture(t, map[string]string{
		"index.md": "# 🍎 Not the index\n",
	})
	t.Chdir(root)

	renderer := &recordingRenderer{}
	_, err := newTestService(testConfig(), renderer).Build(context.Background(), BuildOptions{})
	if !errors.Is(err, recipes.ErrNameCollision) {
		t.Fatalf("expected ErrNameCollision, got %v", err)
	}
	if len(renderer.Calls()) != 0 {
		t.Fatalf("expected no renders, got %d", len(renderer.Calls()))
	}
}

func TestBuildMissingSourceDirFails(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := testConfig()
	cfg.CopySources = false
	_, err := newTestService(cfg, &recordingRenderer{}).Build(context.Background(), BuildOptions{})
	if err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestBuildEmptySourcesRendersIndexOnly(t *testing.T) {
	root := newSiteFixture(t, map[string]string{})
	t.Chdir(root)

	result, err := newTestService(testConfig(), &recordingRenderer{}).Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 1 || result.Rendered[0].Name != "index" {
		t.Fatalf("expected index only, got %#v", result.Rendered)
	}
	assertFile(t, filepath.Join("public", "README.md"), "# 🌮 recipes\n\n\n")
}

func TestBuildGeneratesSitemap(t *testing.T) {
	root := newSiteFixture(t, map[string]string{"apple.md": "# 🍎 Apple\n"})
	t.Chdir(root)

	cfg := testConfig()
	cfg.GenerateSitemap = true
	cfg.Site.BaseURL = "https://recipes.example.com/"
	if _, err := newTestService(cfg, &recordingRenderer{}).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	data, err := os.ReadFile(filepath.Join("public", sitemapFileName))
	if err != nil {
		t.Fatalf("read sitemap: %v", err)
	}
	for _, want := range []string{
		"<loc>https://recipes.example.com/apple.html</loc>",
		"<loc>https://recipes.example.com/index.html</loc>",
		"<lastmod>2024-05-01T12:00:00Z</lastmod>",
	} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected sitemap to contain %q\n%s", want, data)
		}
	}
}

func TestBuildCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestService(testConfig(), &recordingRenderer{}).Build(ctx, BuildOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBuildRequiresCollaborators(t *testing.T) {
	svc := NewService(testConfig(), Dependencies{})
	if _, err := svc.Build(context.Background(), BuildOptions{}); !errors.Is(err, errRendererRequired) {
		t.Fatalf("expected errRendererRequired, got %v", err)
	}
}

func TestManifestDoesNotWrite(t *testing.T) {
	root := newSiteFixture(t, map[string]string{"apple.md": "# 🍎 Apple\n"})
	t.Chdir(root)

	manifest, err := newTestService(testConfig(), &recordingRenderer{}).Manifest(context.Background())
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if manifest.Len() != 2 {
		t.Fatalf("expected 2 pages, got %d", manifest.Len())
	}
	if _, err := os.Stat("public"); !os.IsNotExist(err) {
		t.Fatalf("expected no output directory, got %v", err)
	}
}

func TestCleanRemovesOutput(t *testing.T) {
	root := newSiteFixture(t, map[string]string{"apple.md": "# 🍎 Apple\n"})
	t.Chdir(root)

	svc := newTestService(testConfig(), &recordingRenderer{})
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := svc.Clean(context.Background()); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if _, err := os.Stat("public"); !os.IsNotExist(err) {
		t.Fatalf("expected output removed, got %v", err)
	}
	// the lock stays beside the output so the next build can reuse it
	if _, err := os.Stat("public.lock"); err != nil {
		t.Fatalf("expected lock file beside the output, got %v", err)
	}
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("rebuild after clean: %v", err)
	}
}

func TestDisabledService(t *testing.T) {
	svc := NewDisabledService()
	if _, err := svc.Build(context.Background(), BuildOptions{}); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
	if _, err := svc.Manifest(context.Background()); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
	if err := svc.Clean(context.Background()); !errors.Is(err, ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestCopyAssetsPrefersDiskFile(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)
	if err := os.WriteFile("site.css", []byte("local"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := testConfig()
	cfg.Stylesheets = []string{"site.css"}
	svc := newTestService(cfg, &recordingRenderer{}).(*service)
	count, err := svc.copyAssets(newFileWriter("out"))
	if err != nil {
		t.Fatalf("copyAssets: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 asset, got %d", count)
	}
	assertFile(t, filepath.Join("out", "site.css"), "local")

	cfg.Stylesheets = []string{"missing.css"}
	svc = newTestService(cfg, &recordingRenderer{}).(*service)
	if _, err := svc.copyAssets(newFileWriter("out")); err == nil {
		t.Fatal("expected error for asset missing from disk and embedded assets")
	}
}

// fixtures

func newSiteFixture(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "recipes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return root
}

func testConfig() Config {
	return Config{
		SourceDir:   "./recipes",
		OutputDir:   "public",
		Stylesheets: []string{"gh-fork-ribbon.css"},
		Site:        SiteConfig{Title: "recipes"},
		Workers:     1,
		CopySources: true,
	}
}

func newTestService(cfg Config, renderer interfaces.TemplateRenderer) Service {
	svc := NewService(cfg, Dependencies{
		Renderer: renderer,
		Markdown: stubMarkdown{},
		Assets:   fstest.MapFS{"gh-fork-ribbon.css": {Data: []byte(".github-fork-ribbon{}")}},
	}).(*service)
	svc.now = func() time.Time { return buildTime }
	return svc
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(data) != want {
		t.Fatalf("%s: expected %q, got %q", path, want, data)
	}
}

type stubMarkdown struct{}

func (stubMarkdown) Parse(markdown []byte) ([]byte, error) {
	return []byte("<md>" + string(markdown) + "</md>"), nil
}

func (m stubMarkdown) ParseWithOptions(markdown []byte, _ interfaces.ParseOptions) ([]byte, error) {
	return m.Parse(markdown)
}

type renderCall struct {
	name string
	ctx  PageContext
}

type recordingRenderer struct {
	mu      sync.Mutex
	calls   []renderCall
	filters map[string]func(any, any) (any, error)
	failOn  string
}

func (r *recordingRenderer) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	ctx, ok := data.(PageContext)
	if !ok {
		return "", fmt.Errorf("unexpected data %T", data)
	}
	r.mu.Lock()
	r.calls = append(r.calls, renderCall{name: name, ctx: ctx})
	r.mu.Unlock()
	if ctx.ShortName == r.failOn {
		return "", errors.New("boom")
	}
	return fmt.Sprintf("%s|%s|%s|%s|%t|%s", ctx.ShortName, ctx.Favicon, ctx.PathName, ctx.Timestamp, ctx.IsIndex, ctx.Body), nil
}

func (r *recordingRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (r *recordingRenderer) RegisterFilter(name string, fn func(any, any) (any, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.filters == nil {
		r.filters = map[string]func(any, any) (any, error){}
	}
	r.filters[name] = fn
	return nil
}

func (r *recordingRenderer) GlobalContext(any) error { return nil }

func (r *recordingRenderer) Calls() []renderCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]renderCall(nil), r.calls...)
}

type concurrentRenderer struct {
	recordingRenderer
	delay     time.Duration
	active    atomic.Int32
	maxActive atomic.Int32
}

func (r *concurrentRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	current := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		seen := r.maxActive.Load()
		if current <= seen || r.maxActive.CompareAndSwap(seen, current) {
			break
		}
	}
	time.Sleep(r.delay)
	return r.recordingRenderer.RenderTemplate(name, data, out...)
}
