package linkcheck

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"linkcheck/pkg/cache"
	"linkcheck/pkg/config"
	"linkcheck/pkg/errs"
	"linkcheck/pkg/github"
	"linkcheck/pkg/local"
	"linkcheck/pkg/regex"
	"linkcheck/pkg/web"
)

// defaultHTTPTimeout bounds a single web request. Not configurable through
// the book config, the checker should never hang on one link.
const defaultHTTPTimeout = 10 * time.Second

type LinkProcessor interface {
	Process(ctx context.Context, url string, sourceFile string) error

	ExtractLinks(line string) []string
}

type Stats struct {
	Files         int
	Lines         int
	TotalLinks    int
	Errors        int
	NotFoundLinks int
	Skipped       int
	CacheHits     int
}

type Checker struct {
	cfg        *config.Config
	root       string
	store      *cache.Cache
	processors []LinkProcessor
	logger     *zap.Logger
}

// New wires the validators for a run. The local validator is always active;
// web and GitHub validators only when follow-web-links is on. pat may be
// empty.
func New(cfg *config.Config, root string, pat string, store *cache.Cache, logger *zap.Logger) Checker {
	processors := make([]LinkProcessor, 0)
	processors = append(processors, local.New(root, cfg.TraverseParentDirectories, logger))
	if cfg.FollowWebLinks {
		processors = append(processors, github.New(pat, logger))
		processors = append(processors, web.New(defaultHTTPTimeout, cfg.UserAgent, logger))
	}
	return Checker{
		cfg:        cfg,
		root:       root,
		store:      store,
		processors: processors,
		logger:     logger,
	}
}

// GetFiles returns the documentation files under the book root: markdown
// sources and rendered html.
func (c *Checker) GetFiles() ([]string, error) {
	var result []string
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Just skip files/dirs we can't read
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".md", ".markdown", ".html", ".htm":
			result = append(result, path)
		}
		return nil
	})
	return result, err
}

func (c *Checker) ProcessFiles(ctx context.Context, filesList []string) Stats {
	stats := Stats{}

	for _, fileName := range filesList {
		c.logger.Debug("Processing file:", zap.String("fileName", fileName))
		stats.Files++

		ext := strings.ToLower(filepath.Ext(fileName))
		if ext == ".html" || ext == ".htm" {
			c.processHTMLFile(ctx, fileName, &stats)
		} else {
			c.processMarkdownFile(ctx, fileName, &stats)
		}

		c.logger.Info("Processed: ", zap.String("fileName", fileName))
	}
	return stats
}

func (c *Checker) processMarkdownFile(ctx context.Context, fileName string, stats *Stats) {
	f, err := os.Open(fileName)
	if err != nil {
		c.logger.Error("Error opening file", zap.String("file", fileName), zap.Error(err))
		stats.Errors++
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warn("close failed", zap.String("file", fileName), zap.Error(err))
		}
	}()

	lines := 0
	scanner := bufio.NewScanner(f)
	codeSnippet := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "```") {
			codeSnippet = !codeSnippet
		}
		if codeSnippet {
			lines++
			continue
		}
		for link, processor := range c.processLine(line) {
			c.checkLink(ctx, link, fileName, lines, processor, stats)
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		c.logger.Warn("scan failed", zap.String("file", fileName), zap.Error(err))
	}
	stats.Lines += lines
}

func (c *Checker) processHTMLFile(ctx context.Context, fileName string, stats *Stats) {
	f, err := os.Open(fileName)
	if err != nil {
		c.logger.Error("Error opening file", zap.String("file", fileName), zap.Error(err))
		stats.Errors++
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.Warn("close failed", zap.String("file", fileName), zap.Error(err))
		}
	}()

	links, err := extractHTMLLinks(f)
	if err != nil {
		c.logger.Warn("can't parse html", zap.String("file", fileName), zap.Error(err))
		stats.Errors++
		return
	}
	for _, link := range links {
		if processor := c.processorFor(link); processor != nil {
			c.checkLink(ctx, link, fileName, 0, processor, stats)
		}
	}
}

// checkLink runs the skip/cache/validate pipeline for one discovered link.
func (c *Checker) checkLink(ctx context.Context, link, fileName string, line int, processor LinkProcessor, stats *Stats) {
	stats.TotalLinks++

	if c.cfg.ShouldSkip(link) {
		c.logger.Debug("link excluded by pattern", zap.String("link", link), zap.String("filename", fileName))
		stats.Skipped++
		return
	}

	if c.store != nil && cacheable(link) {
		if entry, ok := c.store.Get(link); ok {
			stats.CacheHits++
			if !entry.Valid {
				c.logger.Warn("link not found (cached)", zap.String("link", link), zap.String("reason", entry.Reason), zap.String("filename", fileName))
				stats.NotFoundLinks++
			}
			return
		}
	}

	err := processor.Process(ctx, link, fileName)
	c.record(link, err)
	if err == nil {
		c.logger.Debug("link validation successful", zap.String("link", link), zap.String("filename", fileName), zap.Int("line", line))
		return
	}

	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrEmptyBody) {
		c.logger.Warn("link not found", zap.String("error", err.Error()), zap.String("filename", fileName), zap.Int("line", line))
		stats.NotFoundLinks++
	} else if errors.Is(err, errs.ErrOutsideBook) || errors.Is(err, errs.ErrEmptyFragment) || errors.Is(err, errs.ErrFragmentOnDir) {
		c.logger.Warn("incorrect link", zap.String("error", err.Error()), zap.String("filename", fileName), zap.Int("line", line))
		stats.NotFoundLinks++
	} else {
		stats.Errors++
		c.logger.Warn("error validating link", zap.String("link", link), zap.String("filename", fileName), zap.Int("line", line), zap.Error(err))
	}
}

// record stores definitive outcomes in the cache. Transient failures
// (timeouts, 5xx) are not cached, the next run should retry them.
func (c *Checker) record(link string, err error) {
	if c.store == nil || !cacheable(link) {
		return
	}
	switch {
	case err == nil:
		c.store.Put(link, true, "")
	case errors.Is(err, errs.ErrNotFound), errors.Is(err, errs.ErrEmptyBody):
		c.store.Put(link, false, err.Error())
	}
}

// cacheable limits the cache to remote links. Local files are cheap to stat
// and change between runs.
func cacheable(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

func (c *Checker) processLine(line string) map[string]LinkProcessor {
	found := make(map[string]LinkProcessor)
	for _, p := range c.processors {
		links := p.ExtractLinks(line)
		for _, link := range links {
			found[link] = p
		}
	}
	return found
}

// processorFor classifies a raw href the way the extraction regexes would.
func (c *Checker) processorFor(link string) LinkProcessor {
	var kind int
	switch {
	case regex.GitHubRepo.MatchString(link):
		kind = 1
	case strings.HasPrefix(link, "http://"), strings.HasPrefix(link, "https://"):
		kind = 2
	}
	for _, p := range c.processors {
		switch p.(type) {
		case *github.LinkProcessor:
			if kind == 1 {
				return p
			}
		case *web.LinkProcessor:
			if kind == 2 {
				return p
			}
		case *local.LinkProcessor:
			if kind == 0 {
				return p
			}
		}
	}
	return nil
}
