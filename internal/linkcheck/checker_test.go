package linkcheck

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"linkcheck/pkg/cache"
	"linkcheck/pkg/config"
	"linkcheck/pkg/errs"
	"linkcheck/pkg/github"
	"linkcheck/pkg/local"
	"linkcheck/pkg/regex"
	"linkcheck/pkg/web"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestChecker_ProcessFiles_markdown(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "intro.md"), "# Intro\n")
	writeFile(t, filepath.Join(root, "ch1.md"), `# Ch1
[intro](./intro.md)
[missing](./missing.md)
[excluded](./skipme/secret.md)
`+"```\n[fenced](./nope.md)\n```\n")

	cfg := config.Default()
	cfg.Exclude = []config.Pattern{config.MustCompilePattern("skipme")}

	checker := New(cfg, root, "", nil, zap.NewNop())
	files, err := checker.GetFiles()
	if err != nil {
		t.Fatalf("GetFiles() unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("GetFiles() = %v, want 2 files", files)
	}

	stats := checker.ProcessFiles(context.Background(), files)
	if stats.Files != 2 {
		t.Errorf("Files = %d, want 2", stats.Files)
	}
	if stats.TotalLinks != 3 {
		t.Errorf("TotalLinks = %d, want 3 (fenced link must not count)", stats.TotalLinks)
	}
	if stats.NotFoundLinks != 1 {
		t.Errorf("NotFoundLinks = %d, want 1", stats.NotFoundLinks)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", stats.Errors)
	}
}

func TestChecker_ProcessFiles_html(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "style.css"), "body{}\n")
	writeFile(t, filepath.Join(root, "index.html"), `<html><head>
<link rel="stylesheet" href="style.css">
</head><body>
<a href="ch2.html">next</a>
</body></html>`)

	checker := New(config.Default(), root, "", nil, zap.NewNop())
	stats := checker.ProcessFiles(context.Background(), []string{filepath.Join(root, "index.html")})

	if stats.TotalLinks != 2 {
		t.Errorf("TotalLinks = %d, want 2", stats.TotalLinks)
	}
	if stats.NotFoundLinks != 1 {
		t.Errorf("NotFoundLinks = %d, want 1 (ch2.html does not exist)", stats.NotFoundLinks)
	}
}

func TestChecker_ProcessFiles_webLinksNeedOptIn(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ch1.md"), "see https://definitely-not-resolvable.invalid/page\n")

	checker := New(config.Default(), root, "", nil, zap.NewNop())
	stats := checker.ProcessFiles(context.Background(), []string{filepath.Join(root, "ch1.md")})

	if stats.TotalLinks != 0 {
		t.Errorf("TotalLinks = %d, want 0 (web links off by default)", stats.TotalLinks)
	}
}

type stubProcessor struct {
	calls int
	err   error
}

func (s *stubProcessor) Process(_ context.Context, _ string, _ string) error {
	s.calls++
	return s.err
}

func (s *stubProcessor) ExtractLinks(line string) []string {
	return regex.Url.FindAllString(line, -1)
}

func TestChecker_checkLink_cache(t *testing.T) {
	stub := &stubProcessor{}
	checker := Checker{
		cfg:        config.Default(),
		store:      cache.New(3600),
		processors: []LinkProcessor{stub},
		logger:     zap.NewNop(),
	}

	stats := Stats{}
	checker.checkLink(context.Background(), "https://example.com", "ch1.md", 1, stub, &stats)
	checker.checkLink(context.Background(), "https://example.com", "ch2.md", 1, stub, &stats)

	if stub.calls != 1 {
		t.Errorf("processor called %d times, want 1 (second hit served from cache)", stub.calls)
	}
	if stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", stats.CacheHits)
	}
	if stats.TotalLinks != 2 {
		t.Errorf("TotalLinks = %d, want 2", stats.TotalLinks)
	}
}

func TestChecker_checkLink_cachesNotFound(t *testing.T) {
	stub := &stubProcessor{err: errs.NewNotFound("https://example.com/gone")}
	checker := Checker{
		cfg:        config.Default(),
		store:      cache.New(3600),
		processors: []LinkProcessor{stub},
		logger:     zap.NewNop(),
	}

	stats := Stats{}
	checker.checkLink(context.Background(), "https://example.com/gone", "ch1.md", 1, stub, &stats)
	checker.checkLink(context.Background(), "https://example.com/gone", "ch2.md", 1, stub, &stats)

	if stub.calls != 1 {
		t.Errorf("processor called %d times, want 1", stub.calls)
	}
	if stats.NotFoundLinks != 2 {
		t.Errorf("NotFoundLinks = %d, want 2 (cached miss still reported)", stats.NotFoundLinks)
	}
}

func TestChecker_checkLink_transientErrorsAreNotCached(t *testing.T) {
	stub := &stubProcessor{err: context.DeadlineExceeded}
	checker := Checker{
		cfg:        config.Default(),
		store:      cache.New(3600),
		processors: []LinkProcessor{stub},
		logger:     zap.NewNop(),
	}

	stats := Stats{}
	checker.checkLink(context.Background(), "https://example.com", "ch1.md", 1, stub, &stats)
	checker.checkLink(context.Background(), "https://example.com", "ch2.md", 1, stub, &stats)

	if stub.calls != 2 {
		t.Errorf("processor called %d times, want 2 (transient failures retry)", stub.calls)
	}
	if stats.Errors != 2 {
		t.Errorf("Errors = %d, want 2", stats.Errors)
	}
}

func TestChecker_processorFor(t *testing.T) {
	cfg := config.Default()
	cfg.FollowWebLinks = true
	checker := New(cfg, t.TempDir(), "", nil, zap.NewNop())

	if _, ok := checker.processorFor("https://github.com/a/b/blob/main/README.md").(*github.LinkProcessor); !ok {
		t.Error("repo link should go to the github validator")
	}
	if _, ok := checker.processorFor("https://example.com/page").(*web.LinkProcessor); !ok {
		t.Error("web link should go to the web validator")
	}
	if _, ok := checker.processorFor("./ch1.md").(*local.LinkProcessor); !ok {
		t.Error("relative link should go to the local validator")
	}

	offline := New(config.Default(), t.TempDir(), "", nil, zap.NewNop())
	if p := offline.processorFor("https://example.com/page"); p != nil {
		t.Errorf("web link without follow-web-links should have no processor, got %T", p)
	}
}
