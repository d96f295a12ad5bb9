// Package github implements validation of GitHub repository file links.
// Example: [README](https://github.com/your-org/book/blob/main/README.md)
// Links to a particular branch or commit are supported as well. Going through
// the API instead of plain GET avoids rate-limit false positives on large
// books.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v68/github"
	"go.uber.org/zap"

	"linkcheck/pkg/errs"
	"linkcheck/pkg/regex"
)

type contentsGetter interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

type LinkProcessor struct {
	client contentsGetter
	logger *zap.Logger
}

// New creates a validator for github.com repository links. pat may be empty,
// unauthenticated requests work but run into rate limits much sooner.
func New(pat string, logger *zap.Logger) *LinkProcessor {
	client := github.NewClient(nil)
	if pat != "" {
		client = client.WithAuthToken(pat)
	}
	return &LinkProcessor{
		client: client.Repositories,
		logger: logger,
	}
}

type repoLink struct {
	owner    string
	repo     string
	kind     string
	ref      string
	path     string
	fragment string
}

func parseRepoLink(url string) (repoLink, bool) {
	match := regex.GitHubRepoParts.FindStringSubmatch(url)
	if len(match) == 0 {
		return repoLink{}, false
	}
	return repoLink{
		owner:    match[1],
		repo:     match[2],
		kind:     match[3],
		ref:      match[4],
		path:     strings.TrimPrefix(match[5], "/"),
		fragment: match[6],
	}, true
}

func (proc *LinkProcessor) Process(ctx context.Context, url string, _ string) error {
	proc.logger.Debug("Validating GitHub url", zap.String("url", url))

	link, ok := parseRepoLink(url)
	if !ok {
		return fmt.Errorf("invalid or unsupported GitHub URL: %s", url)
	}

	contents, dirContents, _, err := proc.client.GetContents(ctx, link.owner, link.repo, link.path, &github.RepositoryContentGetOptions{
		Ref: link.ref,
	})
	if err != nil {
		var ghError *github.ErrorResponse
		if errors.As(err, &ghError) && ghError.Response.StatusCode == http.StatusNotFound {
			return errs.NewNotFound(url)
		}
		// some other error
		return err
	}
	if contents == nil && dirContents == nil {
		// contents should not be nil, so something is not ok
		return errs.NewNotFound(url)
	}

	if link.fragment == "" || contents == nil {
		// link points to an existing file or dir, we are done
		return nil
	}
	if isLineFragment(link.fragment) {
		// line anchors always resolve, GitHub clamps them to the file
		return nil
	}

	proc.logger.Debug("Validating fragment in GitHub url", zap.String("url", url), zap.String("fragment", link.fragment))
	content, err := contents.GetContent()
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(content), strings.ToLower(strings.ReplaceAll(link.fragment, "-", " "))) {
		return errs.NewNotFound(url)
	}
	return nil
}

// isLineFragment matches #L10 and #L10-L20 style anchors.
func isLineFragment(fragment string) bool {
	if !strings.HasPrefix(fragment, "L") {
		return false
	}
	for _, r := range strings.TrimPrefix(fragment, "L") {
		if (r < '0' || r > '9') && r != '-' && r != 'L' {
			return false
		}
	}
	return true
}

func (proc *LinkProcessor) ExtractLinks(line string) []string {
	parts := regex.Url.FindAllString(line, -1)
	urls := make([]string, 0, len(parts))
	for _, raw := range parts {
		raw = strings.TrimRight(raw, ").,;:!?")
		if regex.GitHubRepo.MatchString(raw) {
			urls = append(urls, raw)
		}
	}
	return urls
}
