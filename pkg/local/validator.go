// Package local implements validation of links that point to files inside
// the book itself.
// Example: [intro](../intro.md), [diagram](./img/flow.png)

package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"linkcheck/pkg/errs"
	"linkcheck/pkg/regex"
)

type LinkProcessor struct {
	root            string
	traverseParents bool
	fileRegex       *regexp.Regexp
	logger          *zap.Logger
}

// New creates a validator rooted at the book's source directory. When
// traverseParents is false, a link resolving above root is an error.
func New(root string, traverseParents bool, logger *zap.Logger) *LinkProcessor {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}

	return &LinkProcessor{
		root:            abs,
		traverseParents: traverseParents,
		fileRegex:       regex.LocalPath,
		logger:          logger,
	}
}

func (proc *LinkProcessor) Process(_ context.Context, link string, sourceFile string) error {
	proc.logger.Debug("validating local link", zap.String("link", link), zap.String("source", sourceFile))

	name, fragment, hasFragment := strings.Cut(link, "#")
	if hasFragment && fragment == "" {
		// case [text](./file.md#) is incorrect
		return errs.NewEmptyFragment(link)
	}

	var target string
	switch {
	case name == "":
		// pure fragment, points into the source file itself
		target = sourceFile
	case strings.HasPrefix(name, "/"):
		// leading slash is relative to the book root
		target = filepath.Join(proc.root, name)
	default:
		target = filepath.Join(filepath.Dir(sourceFile), name)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if !proc.traverseParents && escapes(proc.root, abs) {
		return errs.NewOutsideBook(link)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return errs.NewNotFound(abs)
		}
		return err
	}
	if info.IsDir() && hasFragment {
		return errs.NewFragmentOnDir(link)
	}
	return nil
}

// escapes reports whether path lies outside root.
func escapes(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (proc *LinkProcessor) ExtractLinks(line string) []string {
	matches := proc.fileRegex.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		// m[0] = full token "[txt](target)", m[1] = captured target
		if len(m) > 1 && m[1] != "" {
			urls = append(urls, m[1])
		}
	}
	return urls
}
